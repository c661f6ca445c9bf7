package sqlstore

import (
	"context"

	"github.com/derdine/forum-service/internal/types"
)

// Reconcile recomputes every denormalised counter from the rows it
// summarises and reports how many rows were corrected.
func (s *Store) Reconcile(ctx context.Context) (types.ReconcileResult, error) {
	var res types.ReconcileResult

	steps := []struct {
		counter *int64
		query   string
	}{
		{&res.Users, `UPDATE users SET thread_count =
			(SELECT COUNT(*) FROM threads WHERE threads.author_id = users.id)
			WHERE thread_count <> (SELECT COUNT(*) FROM threads WHERE threads.author_id = users.id)`},
		{&res.Users, `UPDATE users SET reply_count =
			(SELECT COUNT(*) FROM replies WHERE replies.author_id = users.id)
			WHERE reply_count <> (SELECT COUNT(*) FROM replies WHERE replies.author_id = users.id)`},
		{&res.Categories, `UPDATE categories SET thread_count =
			(SELECT COUNT(*) FROM threads WHERE threads.category_id = categories.id)
			WHERE thread_count <> (SELECT COUNT(*) FROM threads WHERE threads.category_id = categories.id)`},
		{&res.Threads, `UPDATE threads SET reply_count =
			(SELECT COUNT(*) FROM replies WHERE replies.thread_id = threads.id)
			WHERE reply_count <> (SELECT COUNT(*) FROM replies WHERE replies.thread_id = threads.id)`},
		{&res.Threads, `UPDATE threads SET like_count =
			(SELECT COUNT(*) FROM thread_likes WHERE thread_likes.thread_id = threads.id)
			WHERE like_count <> (SELECT COUNT(*) FROM thread_likes WHERE thread_likes.thread_id = threads.id)`},
		{&res.Replies, `UPDATE replies SET like_count =
			(SELECT COUNT(*) FROM reply_likes WHERE reply_likes.reply_id = replies.id)
			WHERE like_count <> (SELECT COUNT(*) FROM reply_likes WHERE reply_likes.reply_id = replies.id)`},
	}

	for _, step := range steps {
		n, err := s.exec(ctx, step.query)
		if err != nil {
			return res, err
		}
		*step.counter += n
	}
	return res, nil
}
