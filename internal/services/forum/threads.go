package forum

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

// ListThreads returns a page of threads (pinned first, newest first) and
// the total number of matches. isLiked is computed for viewerID.
func (s *Service) ListThreads(ctx context.Context, f types.ThreadFilter, p types.Page, viewerID string) ([]types.ThreadView, int, error) {
	list, total, err := s.store.ListThreads(ctx, f, p)
	if err != nil {
		return nil, 0, internal(err)
	}

	views, err := s.populateThreads(ctx, list, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetThread counts a view and returns the thread.
func (s *Service) GetThread(ctx context.Context, id, viewerID string) (*types.ThreadView, error) {
	if err := s.store.IncrementThreadViews(ctx, id); err != nil {
		return nil, notFound(err, "Thread not found")
	}

	t, err := s.store.GetThread(ctx, id)
	if err != nil {
		return nil, notFound(err, "Thread not found")
	}
	return s.populateThread(ctx, t, viewerID)
}

// CreateThread stores the thread and bumps the author's and category's
// thread counters in the same transaction.
func (s *Service) CreateThread(ctx context.Context, req types.ThreadPostRequest) (*types.ThreadView, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	now := s.now()
	t := &types.Thread{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, req.AuthorID); err != nil {
			return badReference(err, "Author not found")
		}
		if _, err := tx.GetCategory(ctx, req.CategoryID); err != nil {
			return badReference(err, "Category not found")
		}

		if err := tx.CreateThread(ctx, t); err != nil {
			return err
		}
		if err := tx.AdjustUserCounters(ctx, t.AuthorID, 1, 0); err != nil {
			return err
		}
		return tx.AdjustCategoryThreads(ctx, t.CategoryID, 1)
	})
	if err != nil {
		return nil, internal(err)
	}

	slog.Info("Thread created", slog.String("thread_id", t.ID), slog.String("author_id", t.AuthorID))
	return s.populateThread(ctx, t, "")
}

// UpdateThread applies a partial update. Moving the thread to another
// category moves one unit of threadCount with it.
func (s *Service) UpdateThread(ctx context.Context, id string, req types.ThreadUpdateRequest) (*types.ThreadView, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	var t *types.Thread
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		t, err = tx.GetThread(ctx, id)
		if err != nil {
			return notFound(err, "Thread not found")
		}

		if req.CategoryID != nil && *req.CategoryID != t.CategoryID {
			if _, err := tx.GetCategory(ctx, *req.CategoryID); err != nil {
				return badReference(err, "Category not found")
			}
			if err := tx.AdjustCategoryThreads(ctx, t.CategoryID, -1); err != nil {
				return err
			}
			if err := tx.AdjustCategoryThreads(ctx, *req.CategoryID, 1); err != nil {
				return err
			}
			t.CategoryID = *req.CategoryID
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Content != nil {
			t.Content = *req.Content
		}
		if req.IsPinned != nil {
			t.IsPinned = *req.IsPinned
		}
		if req.IsLocked != nil {
			t.IsLocked = *req.IsLocked
		}
		t.UpdatedAt = s.now()

		return tx.UpdateThread(ctx, t)
	})
	if err != nil {
		return nil, internal(err)
	}
	return s.populateThread(ctx, t, "")
}

// DeleteThread removes the thread with its replies and likes. The author
// and category lose one thread each and every reply author loses the
// replies they had in it.
func (s *Service) DeleteThread(ctx context.Context, id string) error {
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		t, err := tx.GetThread(ctx, id)
		if err != nil {
			return notFound(err, "Thread not found")
		}

		counts, err := tx.ReplyCountsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		for authorID, n := range counts {
			if err := tx.AdjustUserCounters(ctx, authorID, 0, -n); err != nil {
				return err
			}
		}

		if err := tx.AdjustUserCounters(ctx, t.AuthorID, -1, 0); err != nil {
			return err
		}
		if err := tx.AdjustCategoryThreads(ctx, t.CategoryID, -1); err != nil {
			return err
		}
		return tx.DeleteThread(ctx, id)
	})
	if err != nil {
		return internal(err)
	}

	slog.Info("Thread deleted", slog.String("thread_id", id))
	return nil
}

// ToggleThreadLike flips userID's like on the thread and returns the state
// after the flip.
func (s *Service) ToggleThreadLike(ctx context.Context, id, userID string) (types.LikeResult, error) {
	if userID == "" {
		return types.LikeResult{}, apperr.Unauthorized("Unauthorized")
	}

	var (
		t   *types.Thread
		res types.LikeResult
	)
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		t, err = tx.GetThread(ctx, id)
		if err != nil {
			return notFound(err, "Thread not found")
		}
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return badReference(err, "User not found")
		}

		res, err = tx.ToggleThreadLike(ctx, id, userID)
		return err
	})
	if err != nil {
		return types.LikeResult{}, internal(err)
	}

	if res.IsLiked {
		if err := s.publisher.PublishThreadLiked(id, userID, t.AuthorID, res.LikeCount); err != nil {
			slog.Error("Failed to publish thread liked event", slog.String("thread_id", id), slog.String("error", err.Error()))
		}
	}
	return res, nil
}

func (s *Service) populateThread(ctx context.Context, t *types.Thread, viewerID string) (*types.ThreadView, error) {
	views, err := s.populateThreads(ctx, []types.Thread{*t}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populateThreads embeds authors and categories, loading each referenced
// row once.
func (s *Service) populateThreads(ctx context.Context, list []types.Thread, viewerID string) ([]types.ThreadView, error) {
	authorIDs := make([]string, 0, len(list))
	categoryIDs := make([]string, 0, len(list))
	for _, t := range list {
		authorIDs = append(authorIDs, t.AuthorID)
		categoryIDs = append(categoryIDs, t.CategoryID)
	}

	authors, err := s.store.UsersByIDs(ctx, dedupe(authorIDs))
	if err != nil {
		return nil, internal(err)
	}
	categories, err := s.store.CategoriesByIDs(ctx, dedupe(categoryIDs))
	if err != nil {
		return nil, internal(err)
	}

	views := make([]types.ThreadView, len(list))
	for i, t := range list {
		if t.Likes == nil {
			t.Likes = []string{}
		}
		views[i] = types.ThreadView{
			Thread:   t,
			Author:   authors[t.AuthorID],
			Category: categories[t.CategoryID],
			IsLiked:  viewerID != "" && slices.Contains(t.Likes, viewerID),
		}
	}
	return views, nil
}

// badReference reports a missing related row as a client error.
func badReference(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.BadRequest(msg)
	}
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
