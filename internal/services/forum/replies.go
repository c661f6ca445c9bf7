package forum

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

// ListReplies returns a page of replies, oldest first.
func (s *Service) ListReplies(ctx context.Context, f types.ReplyFilter, p types.Page, viewerID string) ([]types.ReplyView, int, error) {
	list, total, err := s.store.ListReplies(ctx, f, p)
	if err != nil {
		return nil, 0, internal(err)
	}

	views, err := s.populateReplies(ctx, list, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *Service) GetReply(ctx context.Context, id, viewerID string) (*types.ReplyView, error) {
	r, err := s.store.GetReply(ctx, id)
	if err != nil {
		return nil, notFound(err, "Reply not found")
	}
	return s.populateReply(ctx, r, viewerID)
}

// CreateReply adds a reply to an unlocked thread and bumps the thread's
// and author's reply counters in the same transaction.
func (s *Service) CreateReply(ctx context.Context, req types.ReplyPostRequest) (*types.ReplyView, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	now := s.now()
	r := &types.Reply{
		ID:        uuid.NewString(),
		ThreadID:  req.ThreadID,
		Content:   req.Content,
		AuthorID:  req.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var thread *types.Thread
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		thread, err = tx.GetThread(ctx, req.ThreadID)
		if err != nil {
			return badReference(err, "Thread not found")
		}
		if thread.IsLocked {
			return apperr.BadRequest("Thread is locked")
		}
		if _, err := tx.GetUser(ctx, req.AuthorID); err != nil {
			return badReference(err, "Author not found")
		}

		if err := tx.CreateReply(ctx, r); err != nil {
			return err
		}
		if err := tx.AdjustThreadReplies(ctx, r.ThreadID, 1); err != nil {
			return err
		}
		return tx.AdjustUserCounters(ctx, r.AuthorID, 0, 1)
	})
	if err != nil {
		return nil, internal(err)
	}

	if err := s.publisher.PublishReplyCreated(thread.ID, r.ID, r.AuthorID, thread.AuthorID); err != nil {
		slog.Error("Failed to publish reply created event", slog.String("reply_id", r.ID), slog.String("error", err.Error()))
	}
	return s.populateReply(ctx, r, "")
}

// UpdateReply edits the content and marks the reply as edited.
func (s *Service) UpdateReply(ctx context.Context, id string, req types.ReplyUpdateRequest) (*types.ReplyView, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	r, err := s.store.GetReply(ctx, id)
	if err != nil {
		return nil, notFound(err, "Reply not found")
	}

	if req.Content != nil {
		r.Content = *req.Content
	}
	r.IsEdited = true
	r.UpdatedAt = s.now()

	if err := s.store.UpdateReply(ctx, r); err != nil {
		return nil, notFound(err, "Reply not found")
	}
	return s.populateReply(ctx, r, "")
}

func (s *Service) DeleteReply(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx storage.Tx) error {
		r, err := tx.GetReply(ctx, id)
		if err != nil {
			return notFound(err, "Reply not found")
		}

		if err := tx.AdjustThreadReplies(ctx, r.ThreadID, -1); err != nil {
			return internal(err)
		}
		if err := tx.AdjustUserCounters(ctx, r.AuthorID, 0, -1); err != nil {
			return internal(err)
		}
		if err := tx.DeleteReply(ctx, id); err != nil {
			return internal(err)
		}
		return nil
	})
}

// ToggleReplyLike flips userID's like on the reply and returns the state
// after the flip.
func (s *Service) ToggleReplyLike(ctx context.Context, id, userID string) (types.LikeResult, error) {
	if userID == "" {
		return types.LikeResult{}, apperr.Unauthorized("Unauthorized")
	}

	var (
		r   *types.Reply
		res types.LikeResult
	)
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		r, err = tx.GetReply(ctx, id)
		if err != nil {
			return notFound(err, "Reply not found")
		}
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return badReference(err, "User not found")
		}

		res, err = tx.ToggleReplyLike(ctx, id, userID)
		return err
	})
	if err != nil {
		return types.LikeResult{}, internal(err)
	}

	if res.IsLiked {
		if err := s.publisher.PublishReplyLiked(id, r.ThreadID, userID, r.AuthorID, res.LikeCount); err != nil {
			slog.Error("Failed to publish reply liked event", slog.String("reply_id", id), slog.String("error", err.Error()))
		}
	}
	return res, nil
}

func (s *Service) populateReply(ctx context.Context, r *types.Reply, viewerID string) (*types.ReplyView, error) {
	views, err := s.populateReplies(ctx, []types.Reply{*r}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) populateReplies(ctx context.Context, list []types.Reply, viewerID string) ([]types.ReplyView, error) {
	authorIDs := make([]string, 0, len(list))
	for _, r := range list {
		authorIDs = append(authorIDs, r.AuthorID)
	}

	authors, err := s.store.UsersByIDs(ctx, dedupe(authorIDs))
	if err != nil {
		return nil, internal(err)
	}

	views := make([]types.ReplyView, len(list))
	for i, r := range list {
		if r.Likes == nil {
			r.Likes = []string{}
		}
		views[i] = types.ReplyView{
			Reply:   r,
			Author:  authors[r.AuthorID],
			IsLiked: viewerID != "" && slices.Contains(r.Likes, viewerID),
		}
	}
	return views, nil
}
