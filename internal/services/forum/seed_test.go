package forum

import (
	"context"
	"testing"

	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/types/users"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

func TestSeed_RequiresAdmin(t *testing.T) {
	env := setupTestService(t, true)
	ctx := context.Background()

	alice := env.register(t, "alice")

	_, err := env.svc.Seed(ctx, "")
	expectKind(t, err, apperr.KindUnauthorized)
	_, err = env.svc.Seed(ctx, alice.ID)
	expectKind(t, err, apperr.KindForbidden)
	_, err = env.svc.Seed(ctx, "missing")
	expectKind(t, err, apperr.KindForbidden)

	n, _ := env.store.CountCategories(ctx)
	if n != 0 {
		t.Fatalf("Expected nothing seeded, got %d categories", n)
	}
}

func TestSeed_AdminCaller(t *testing.T) {
	env := setupTestService(t, true)
	ctx := context.Background()

	admin, err := env.svc.Register(ctx, users.SignUpRequest{
		Username: "root",
		Email:    "root@x.com",
		Password: "secret1",
		Badge:    users.AdminBadge,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	res, err := env.svc.Seed(ctx, admin.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// users already existed, so only the admin is there and no demo users
	if res.Users != 1 || res.Categories != len(seedCategories) || res.Threads != len(seedThreads) {
		t.Fatalf("Unexpected seed result: %+v", res)
	}
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	env := setupTestService(t, true)
	ctx := context.Background()

	first, err := env.svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := types.SeedResult{Theme: 1, Labels: 1, Categories: 6, Users: 5, Threads: 2}
	if first != want {
		t.Fatalf("Expected %+v, got %+v", want, first)
	}

	second, err := env.svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second != want {
		t.Fatalf("Expected second run to change nothing, got %+v", second)
	}

	if _, _, err := env.svc.Login(ctx, users.SignInRequest{Email: "admin@derdinesokayim.com", Password: "admin123"}); err != nil {
		t.Fatalf("Expected seeded admin to log in: %v", err)
	}

	list, _, err := env.svc.ListThreads(ctx, types.ThreadFilter{}, types.NewPage(1, 20), "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !list[0].IsPinned || list[0].Author.Username != "Admin" || list[0].Category.Name != "Teknoloji" {
		t.Fatalf("Expected pinned admin thread in Teknoloji first, got %+v", list[0])
	}
	if list[0].LikeCount != len(list[0].Likes) {
		t.Fatalf("Expected seeded like count to match likes")
	}

	// seeded counters agree with the rows
	res, err := env.svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Total() != 0 {
		t.Fatalf("Expected no drift after seeding, got %+v", res)
	}
}
