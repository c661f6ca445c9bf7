package forum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/types/settings"
	"github.com/derdine/forum-service/internal/types/users"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

type seedCategory struct {
	name, description, icon, color string
}

var seedCategories = []seedCategory{
	{"Teknoloji", "Teknoloji haberleri ve tartışmaları", "computer", "#3B82F6"},
	{"Oyunlar", "Video oyunları ve gaming", "gamepad", "#8B5CF6"},
	{"Müzik", "Müzik ve sanatçılar", "music_note", "#10B981"},
	{"Spor", "Spor haberleri ve tartışmaları", "sports_soccer", "#F59E0B"},
	{"Sanat", "Sanat ve tasarım", "palette", "#EC4899"},
	{"Bilim", "Bilim ve araştırma", "science", "#EF4444"},
}

type seedUser struct {
	username, email, password, badge string
	reputation                       int
}

var seedUsers = []seedUser{
	{"Admin", "admin@derdinesokayim.com", "admin123", users.AdminBadge, 9999},
	{"AhmetYılmaz", "ahmet@example.com", "demo123", "Moderatör", 1250},
	{"MehmetKaya", "mehmet@example.com", "demo123", "Aktif Üye", 450},
	{"AyşeDemir", "ayse@example.com", "demo123", "", 180},
	{"FatmaÖzkan", "fatma@example.com", "demo123", users.DefaultBadge, 45},
}

type seedThread struct {
	title, content string
	author, cat    int
	views          int
	pinned         bool
}

var seedThreads = []seedThread{
	{
		title:   "Yeni çıkan yapay zeka modelleri hakkında ne düşünüyorsunuz?",
		content: "Son zamanlarda yapay zeka alanında çok hızlı gelişmeler yaşanıyor. Sizce bu gelişmeler toplumu nasıl etkileyecek?",
		author:  0, cat: 0, views: 234, pinned: true,
	},
	{
		title:   "En sevdiğiniz indie oyun hangisi?",
		content: "Indie oyunlar son yıllarda çok popüler oldu. Sizin favoriniz hangisi ve neden?",
		author:  1, cat: 1, views: 156,
	},
}

// Seed populates defaults on behalf of an admin caller.
func (s *Service) Seed(ctx context.Context, callerID string) (types.SeedResult, error) {
	if callerID == "" {
		return types.SeedResult{}, apperr.Unauthorized("Unauthorized")
	}

	caller, err := s.store.GetUser(ctx, callerID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return types.SeedResult{}, internal(err)
	}
	if caller == nil || !caller.IsAdmin() {
		return types.SeedResult{}, apperr.Forbidden("Forbidden: Admin access required")
	}

	return s.SeedDefaults(ctx)
}

// SeedDefaults creates each kind of default data only when none of that
// kind exists yet. The steps are independent: a failure leaves earlier
// steps in place.
func (s *Service) SeedDefaults(ctx context.Context) (types.SeedResult, error) {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"theme", s.seedTheme},
		{"labels", s.seedLabels},
		{"categories", s.seedCategories},
		{"users", s.seedUsers},
		{"threads", s.seedThreads},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return types.SeedResult{}, internal(fmt.Errorf("seed %s: %w", step.name, err))
		}
	}

	return s.seedCounts(ctx)
}

func (s *Service) seedCounts(ctx context.Context) (types.SeedResult, error) {
	var res types.SeedResult
	var err error

	if res.Theme, err = s.store.CountThemes(ctx); err != nil {
		return res, internal(err)
	}
	if res.Labels, err = s.store.CountLabels(ctx); err != nil {
		return res, internal(err)
	}
	if res.Categories, err = s.store.CountCategories(ctx); err != nil {
		return res, internal(err)
	}
	if res.Users, err = s.store.CountUsers(ctx); err != nil {
		return res, internal(err)
	}
	if res.Threads, err = s.store.CountThreads(ctx, types.ThreadFilter{}); err != nil {
		return res, internal(err)
	}
	return res, nil
}

func (s *Service) seedTheme(ctx context.Context) error {
	n, err := s.store.CountThemes(ctx)
	if err != nil || n > 0 {
		return err
	}
	t := settings.DefaultTheme()
	t.UpdatedAt = s.now()
	return s.store.SaveTheme(ctx, &t)
}

func (s *Service) seedLabels(ctx context.Context) error {
	n, err := s.store.CountLabels(ctx)
	if err != nil || n > 0 {
		return err
	}
	l := settings.DefaultLabels()
	l.UpdatedAt = s.now()
	return s.store.SaveLabels(ctx, &l)
}

func (s *Service) seedCategories(ctx context.Context) error {
	n, err := s.store.CountCategories(ctx)
	if err != nil || n > 0 {
		return err
	}

	now := s.now()
	return s.store.WithTx(ctx, func(tx storage.Tx) error {
		for i, sc := range seedCategories {
			// Distinct timestamps keep the insertion order recoverable.
			at := now.Add(time.Duration(i) * time.Millisecond)
			c := &types.Category{
				ID:          uuid.NewString(),
				Name:        sc.name,
				Description: sc.description,
				Icon:        sc.icon,
				Color:       sc.color,
				CreatedAt:   at,
				UpdatedAt:   at,
			}
			if err := tx.CreateCategory(ctx, c); err != nil {
				return err
			}
		}
		slog.Info("Seeded categories", slog.Int("count", len(seedCategories)))
		return nil
	})
}

func (s *Service) seedUsers(ctx context.Context) error {
	n, err := s.store.CountUsers(ctx)
	if err != nil || n > 0 {
		return err
	}

	now := s.now()
	return s.store.WithTx(ctx, func(tx storage.Tx) error {
		for i, su := range seedUsers {
			at := now.Add(time.Duration(i) * time.Millisecond)
			u := &users.User{
				ID:           uuid.NewString(),
				Username:     su.username,
				Email:        su.email,
				PasswordHash: s.hasher.HashPassword(su.password),
				Reputation:   su.reputation,
				CreatedAt:    at,
				UpdatedAt:    at,
			}
			if su.badge != "" {
				badge := su.badge
				u.Badge = &badge
			}
			if err := tx.CreateUser(ctx, u); err != nil {
				return err
			}
		}
		slog.Info("Seeded users", slog.Int("count", len(seedUsers)))
		return nil
	})
}

// seedThreads creates the demo threads against the oldest users and
// categories. Counters start at zero apart from views; the author and
// category thread counts are bumped like any other thread.
func (s *Service) seedThreads(ctx context.Context) error {
	n, err := s.store.CountThreads(ctx, types.ThreadFilter{})
	if err != nil || n > 0 {
		return err
	}

	userList, err := s.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	categoryList, err := s.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(userList) == 0 || len(categoryList) == 0 {
		return nil
	}
	// Listings are newest first.
	slices.Reverse(userList)
	slices.Reverse(categoryList)

	now := s.now()
	return s.store.WithTx(ctx, func(tx storage.Tx) error {
		for i, st := range seedThreads {
			author := userList[min(st.author, len(userList)-1)]
			category := categoryList[min(st.cat, len(categoryList)-1)]
			at := now.Add(time.Duration(i) * time.Millisecond)

			t := &types.Thread{
				ID:         uuid.NewString(),
				Title:      st.title,
				Content:    st.content,
				AuthorID:   author.ID,
				CategoryID: category.ID,
				ViewCount:  st.views,
				IsPinned:   st.pinned,
				CreatedAt:  at,
				UpdatedAt:  at,
			}
			if err := tx.CreateThread(ctx, t); err != nil {
				return err
			}
			if err := tx.AdjustUserCounters(ctx, author.ID, 1, 0); err != nil {
				return err
			}
			if err := tx.AdjustCategoryThreads(ctx, category.ID, 1); err != nil {
				return err
			}
		}
		slog.Info("Seeded threads", slog.Int("count", len(seedThreads)))
		return nil
	})
}
