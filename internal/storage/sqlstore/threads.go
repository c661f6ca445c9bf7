package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/derdine/forum-service/internal/types"
)

const threadColumns = `id, title, content, author_id, category_id, view_count, reply_count,
	like_count, is_pinned, is_locked, created_at, updated_at`

type likeRow struct {
	ParentID string `db:"parent_id"`
	UserID   string `db:"user_id"`
}

func (s *Store) CreateThread(ctx context.Context, t *types.Thread) error {
	query := `INSERT INTO threads (` + threadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.exec(ctx, query,
		t.ID, t.Title, t.Content, t.AuthorID, t.CategoryID, t.ViewCount, t.ReplyCount,
		t.LikeCount, t.IsPinned, t.IsLocked, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if t.Likes == nil {
		t.Likes = []string{}
	}
	return nil
}

func (s *Store) GetThread(ctx context.Context, id string) (*types.Thread, error) {
	var t types.Thread
	if err := s.get(ctx, &t, `SELECT `+threadColumns+` FROM threads WHERE id = ?`, id); err != nil {
		return nil, err
	}

	list := []types.Thread{t}
	if err := s.loadThreadLikes(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func threadWhere(f types.ThreadFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.AuthorID != "" {
		conds = append(conds, "author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.PinnedOnly {
		conds = append(conds, "is_pinned = ?")
		args = append(args, true)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListThreads returns one page of threads, pinned first and newest first
// within each group, plus the total number of matching threads.
func (s *Store) ListThreads(ctx context.Context, f types.ThreadFilter, p types.Page) ([]types.Thread, int, error) {
	where, args := threadWhere(f)

	total, err := s.count(ctx, `SELECT COUNT(*) FROM threads`+where, args...)
	if err != nil {
		return nil, 0, err
	}

	list := []types.Thread{}
	query := `SELECT ` + threadColumns + ` FROM threads` + where +
		` ORDER BY is_pinned DESC, created_at DESC LIMIT ? OFFSET ?`
	if err := s.selectAll(ctx, &list, query, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, err
	}

	if err := s.loadThreadLikes(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Store) loadThreadLikes(ctx context.Context, list []types.Thread) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].Likes = []string{}
	}

	var rows []likeRow
	query := `SELECT thread_id AS parent_id, user_id FROM thread_likes
		WHERE thread_id IN (?) ORDER BY created_at ASC`
	if err := s.selectIn(ctx, &rows, query, ids); err != nil {
		return err
	}
	for _, r := range rows {
		i := index[r.ParentID]
		list[i].Likes = append(list[i].Likes, r.UserID)
	}
	return nil
}

func (s *Store) UpdateThread(ctx context.Context, t *types.Thread) error {
	query := `UPDATE threads SET title = ?, content = ?, category_id = ?, is_pinned = ?,
		is_locked = ?, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, query,
		t.Title, t.Content, t.CategoryID, t.IsPinned, t.IsLocked, t.UpdatedAt, t.ID,
	)
}

// DeleteThread removes dependants explicitly so the result does not
// depend on the driver enforcing ON DELETE CASCADE.
func (s *Store) DeleteThread(ctx context.Context, id string) error {
	stmts := []string{
		`DELETE FROM reply_likes WHERE reply_id IN (SELECT id FROM replies WHERE thread_id = ?)`,
		`DELETE FROM replies WHERE thread_id = ?`,
		`DELETE FROM thread_likes WHERE thread_id = ?`,
	}
	for _, q := range stmts {
		if _, err := s.exec(ctx, q, id); err != nil {
			return err
		}
	}
	return s.execOne(ctx, `DELETE FROM threads WHERE id = ?`, id)
}

func (s *Store) CountThreads(ctx context.Context, f types.ThreadFilter) (int, error) {
	where, args := threadWhere(f)
	return s.count(ctx, `SELECT COUNT(*) FROM threads`+where, args...)
}

func (s *Store) IncrementThreadViews(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE threads SET view_count = view_count + 1 WHERE id = ?`, id)
}

func (s *Store) AdjustThreadReplies(ctx context.Context, id string, delta int) error {
	return s.execOne(ctx, `UPDATE threads SET reply_count = reply_count + ? WHERE id = ?`, delta, id)
}

func (s *Store) ToggleThreadLike(ctx context.Context, id, userID string) (types.LikeResult, error) {
	return s.toggleLike(ctx, "threads", "thread_likes", "thread_id", id, userID)
}

// toggleLike removes the membership row if present and inserts it
// otherwise, then recomputes the parent's like counter from the join table.
// The parent row is locked first so concurrent toggles on it serialize.
func (s *Store) toggleLike(ctx context.Context, parentTable, likeTable, parentColumn, id, userID string) (types.LikeResult, error) {
	var res types.LikeResult

	err := s.inTx(ctx, func(tx *Store) error {
		if err := tx.lockRow(ctx, parentTable, id); err != nil {
			return err
		}

		removed, err := tx.exec(ctx,
			`DELETE FROM `+likeTable+` WHERE `+parentColumn+` = ? AND user_id = ?`, id, userID)
		if err != nil {
			return err
		}

		if removed == 0 {
			_, err := tx.exec(ctx,
				`INSERT INTO `+likeTable+` (`+parentColumn+`, user_id, created_at) VALUES (?, ?, ?)
					ON CONFLICT DO NOTHING`,
				id, userID, time.Now().UTC())
			if err != nil {
				return err
			}
			res.IsLiked = true
		}

		err = tx.execOne(ctx,
			`UPDATE `+parentTable+` SET like_count =
				(SELECT COUNT(*) FROM `+likeTable+` WHERE `+parentColumn+` = ?) WHERE id = ?`,
			id, id)
		if err != nil {
			return err
		}

		return tx.get(ctx, &res.LikeCount, `SELECT like_count FROM `+parentTable+` WHERE id = ?`, id)
	})
	if err != nil {
		return types.LikeResult{}, err
	}
	return res, nil
}
