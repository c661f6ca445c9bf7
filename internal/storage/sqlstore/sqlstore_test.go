package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/types/settings"
	"github.com/derdine/forum-service/internal/types/users"
)

// setupTestStore opens a fresh SQLite database in a temp directory
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "forum.db") + "?_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
	s, err := Open(context.Background(), DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func mustCreateUser(t *testing.T, s *Store, id, name string) *users.User {
	t.Helper()
	u := &users.User{
		ID:           id,
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

func mustCreateCategory(t *testing.T, s *Store, id string) *types.Category {
	t.Helper()
	c := &types.Category{ID: id, Name: id, Icon: "folder", Color: "#3B82F6", CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := s.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return c
}

func mustCreateThread(t *testing.T, s *Store, id, authorID, categoryID string, created time.Time, pinned bool) *types.Thread {
	t.Helper()
	th := &types.Thread{
		ID: id, Title: id, Content: "body", AuthorID: authorID, CategoryID: categoryID,
		IsPinned: pinned, CreatedAt: created, UpdatedAt: created,
	}
	if err := s.CreateThread(context.Background(), th); err != nil {
		t.Fatalf("Failed to create thread: %v", err)
	}
	return th
}

func mustCreateReply(t *testing.T, s *Store, id, threadID, authorID string, created time.Time) *types.Reply {
	t.Helper()
	r := &types.Reply{ID: id, ThreadID: threadID, Content: "reply", AuthorID: authorID, CreatedAt: created, UpdatedAt: created}
	if err := s.CreateReply(context.Background(), r); err != nil {
		t.Fatalf("Failed to create reply: %v", err)
	}
	return r
}

func TestUsers_CreateGetDuplicate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.ID != "u1" || got.Badge != nil || got.AvatarURL != nil {
		t.Fatalf("Unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Fatalf("Expected createdAt %v, got %v", baseTime, got.CreatedAt)
	}

	dup := &users.User{ID: "u2", Username: "alice", Email: "other@example.com", PasswordHash: "x", CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}

	exists, err := s.UserExists(ctx, "nobody", "alice@example.com")
	if err != nil || !exists {
		t.Fatalf("Expected user to exist by email, got %v %v", exists, err)
	}

	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestThreads_ListOrderingAndPaging(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")
	mustCreateCategory(t, s, "c1")
	mustCreateCategory(t, s, "c2")

	mustCreateThread(t, s, "old", "u1", "c1", baseTime, false)
	mustCreateThread(t, s, "new", "u1", "c1", baseTime.Add(2*time.Hour), false)
	mustCreateThread(t, s, "pinned", "u1", "c2", baseTime.Add(-time.Hour), true)

	list, total, err := s.ListThreads(ctx, types.ThreadFilter{}, types.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 3 {
		t.Fatalf("Expected total 3, got %d", total)
	}
	want := []string{"pinned", "new", "old"}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("Expected %s at position %d, got %s", id, i, list[i].ID)
		}
		if list[i].Likes == nil {
			t.Fatalf("Expected likes to be an empty slice, got nil")
		}
	}

	page2, total, err := s.ListThreads(ctx, types.ThreadFilter{CategoryID: "c1"}, types.Page{Number: 2, Size: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 2 || len(page2) != 1 || page2[0].ID != "old" {
		t.Fatalf("Unexpected second page: total=%d %+v", total, page2)
	}

	pinned, err := s.CountThreads(ctx, types.ThreadFilter{PinnedOnly: true})
	if err != nil || pinned != 1 {
		t.Fatalf("Expected 1 pinned thread, got %d %v", pinned, err)
	}
}

func TestToggleThreadLike(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")
	mustCreateUser(t, s, "u2", "bob")
	mustCreateCategory(t, s, "c1")
	mustCreateThread(t, s, "t1", "u1", "c1", baseTime, false)

	res, err := s.ToggleThreadLike(ctx, "t1", "u2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.IsLiked || res.LikeCount != 1 {
		t.Fatalf("Expected liked with count 1, got %+v", res)
	}

	th, err := s.GetThread(ctx, "t1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(th.Likes) != 1 || th.Likes[0] != "u2" {
		t.Fatalf("Expected likes [u2], got %v", th.Likes)
	}

	res, err = s.ToggleThreadLike(ctx, "t1", "u2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.IsLiked || res.LikeCount != 0 {
		t.Fatalf("Expected unliked with count 0, got %+v", res)
	}

	if _, err := s.ToggleThreadLike(ctx, "missing", "u2"); err == nil {
		t.Fatal("Expected error toggling like on a missing thread")
	}
}

func TestToggleThreadLike_ConcurrentUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u0", "author")
	mustCreateCategory(t, s, "c1")
	mustCreateThread(t, s, "t1", "u0", "c1", baseTime, false)

	const n = 16
	for i := 1; i <= n; i++ {
		mustCreateUser(t, s, fmt.Sprintf("u%d", i), fmt.Sprintf("user%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			if _, err := s.ToggleThreadLike(ctx, "t1", userID); err != nil {
				errs <- err
			}
		}(fmt.Sprintf("u%d", i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Unexpected error: %v", err)
	}

	th, err := s.GetThread(ctx, "t1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if th.LikeCount != n || len(th.Likes) != n {
		t.Fatalf("Expected %d likes, got likeCount=%d likes=%d", n, th.LikeCount, len(th.Likes))
	}
}

func TestToggleReplyLike(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")
	mustCreateUser(t, s, "u2", "bob")
	mustCreateCategory(t, s, "c1")
	mustCreateThread(t, s, "t1", "u1", "c1", baseTime, false)
	mustCreateReply(t, s, "r1", "t1", "u2", baseTime)

	for _, uid := range []string{"u1", "u2"} {
		if _, err := s.ToggleReplyLike(ctx, "r1", uid); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	r, err := s.GetReply(ctx, "r1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.LikeCount != 2 || len(r.Likes) != 2 {
		t.Fatalf("Expected 2 likes, got count=%d likes=%v", r.LikeCount, r.Likes)
	}
}

func TestDeleteThread_RemovesRepliesAndLikes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")
	mustCreateUser(t, s, "u2", "bob")
	mustCreateCategory(t, s, "c1")
	mustCreateThread(t, s, "t1", "u1", "c1", baseTime, false)
	mustCreateReply(t, s, "r1", "t1", "u2", baseTime)
	mustCreateReply(t, s, "r2", "t1", "u2", baseTime.Add(time.Minute))
	mustCreateReply(t, s, "r3", "t1", "u1", baseTime.Add(2*time.Minute))

	if _, err := s.ToggleThreadLike(ctx, "t1", "u2"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := s.ToggleReplyLike(ctx, "r1", "u1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	counts, err := s.ReplyCountsByAuthor(ctx, "t1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if counts["u2"] != 2 || counts["u1"] != 1 {
		t.Fatalf("Unexpected counts by author: %v", counts)
	}

	if err := s.DeleteThread(ctx, "t1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := s.GetReply(ctx, "r1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected reply to be gone, got %v", err)
	}
	_, total, err := s.ListReplies(ctx, types.ReplyFilter{ThreadID: "t1"}, types.Page{Number: 1, Size: 20})
	if err != nil || total != 0 {
		t.Fatalf("Expected no replies left, got %d %v", total, err)
	}

	if err := s.DeleteThread(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteUser_DecrementsLikeCounters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")
	mustCreateUser(t, s, "u2", "bob")
	mustCreateCategory(t, s, "c1")
	mustCreateThread(t, s, "t1", "u1", "c1", baseTime, false)

	if _, err := s.ToggleThreadLike(ctx, "t1", "u2"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	threads, replies, err := s.CountUserContent(ctx, "u2")
	if err != nil || threads != 0 || replies != 0 {
		t.Fatalf("Expected bob to own no content, got %d %d %v", threads, replies, err)
	}

	err = s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteUser(ctx, "u2")
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	th, err := s.GetThread(ctx, "t1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if th.LikeCount != 0 || len(th.Likes) != 0 {
		t.Fatalf("Expected like removed, got count=%d likes=%v", th.LikeCount, th.Likes)
	}
}

func TestWithTx_RollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.AdjustUserCounters(ctx, "u1", 5, 5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	u, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.ThreadCount != 0 || u.ReplyCount != 0 {
		t.Fatalf("Expected counters to be rolled back, got %d %d", u.ThreadCount, u.ReplyCount)
	}
}

func TestReconcile_FixesDrift(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "u1", "alice")
	mustCreateCategory(t, s, "c1")
	mustCreateThread(t, s, "t1", "u1", "c1", baseTime, false)
	mustCreateReply(t, s, "r1", "t1", "u1", baseTime)

	if err := s.AdjustUserCounters(ctx, "u1", 7, -3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := s.AdjustThreadReplies(ctx, "t1", 10); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	res, err := s.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Users != 2 || res.Threads != 1 || res.Categories != 1 {
		t.Fatalf("Unexpected reconcile result: %+v", res)
	}

	u, _ := s.GetUser(ctx, "u1")
	if u.ThreadCount != 1 || u.ReplyCount != 1 {
		t.Fatalf("Expected user counters 1/1, got %d/%d", u.ThreadCount, u.ReplyCount)
	}
	th, _ := s.GetThread(ctx, "t1")
	if th.ReplyCount != 1 {
		t.Fatalf("Expected thread replyCount 1, got %d", th.ReplyCount)
	}

	res, err = s.Reconcile(ctx)
	if err != nil || res.Total() != 0 {
		t.Fatalf("Expected second reconcile to be a no-op, got %+v %v", res, err)
	}
}

func TestSettings_Documents(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.GetTheme(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing theme, got %v", err)
	}

	theme := settings.DefaultTheme()
	theme.UpdatedAt = baseTime
	if err := s.SaveTheme(ctx, &theme); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	theme.Primary = "#000000"
	if err := s.SaveTheme(ctx, &theme); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := s.GetTheme(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Primary != "#000000" {
		t.Fatalf("Expected saved primary, got %s", got.Primary)
	}
	if n, _ := s.CountThemes(ctx); n != 1 {
		t.Fatalf("Expected a single theme row, got %d", n)
	}

	cfg := &settings.UIConfig{Screen: "home", Config: json.RawMessage(`{"a":1}`), UpdatedAt: baseTime}
	if err := s.SaveUIConfig(ctx, cfg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cfg.Config = json.RawMessage(`{"a":2}`)
	if err := s.SaveUIConfig(ctx, cfg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	gotCfg, err := s.GetUIConfig(ctx, "home")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(gotCfg.Config) != `{"a":2}` {
		t.Fatalf("Expected upserted config, got %s", gotCfg.Config)
	}

	all, err := s.ListUIConfigs(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("Expected one config, got %d %v", len(all), err)
	}
}
