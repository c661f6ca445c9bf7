package sqlstore

import (
	"context"
	"strings"

	"github.com/derdine/forum-service/internal/types"
)

const replyColumns = `id, thread_id, content, author_id, like_count, is_edited, created_at, updated_at`

func (s *Store) CreateReply(ctx context.Context, r *types.Reply) error {
	query := `INSERT INTO replies (` + replyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.exec(ctx, query,
		r.ID, r.ThreadID, r.Content, r.AuthorID, r.LikeCount, r.IsEdited, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if r.Likes == nil {
		r.Likes = []string{}
	}
	return nil
}

func (s *Store) GetReply(ctx context.Context, id string) (*types.Reply, error) {
	var r types.Reply
	if err := s.get(ctx, &r, `SELECT `+replyColumns+` FROM replies WHERE id = ?`, id); err != nil {
		return nil, err
	}

	list := []types.Reply{r}
	if err := s.loadReplyLikes(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ListReplies returns one page of replies in chronological order.
func (s *Store) ListReplies(ctx context.Context, f types.ReplyFilter, p types.Page) ([]types.Reply, int, error) {
	var conds []string
	var args []interface{}
	if f.ThreadID != "" {
		conds = append(conds, "thread_id = ?")
		args = append(args, f.ThreadID)
	}
	if f.AuthorID != "" {
		conds = append(conds, "author_id = ?")
		args = append(args, f.AuthorID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM replies`+where, args...)
	if err != nil {
		return nil, 0, err
	}

	list := []types.Reply{}
	query := `SELECT ` + replyColumns + ` FROM replies` + where +
		` ORDER BY created_at ASC LIMIT ? OFFSET ?`
	if err := s.selectAll(ctx, &list, query, append(args, p.Size, p.Offset())...); err != nil {
		return nil, 0, err
	}

	if err := s.loadReplyLikes(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Store) loadReplyLikes(ctx context.Context, list []types.Reply) error {
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
	query := `SELECT reply_id AS parent_id, user_id FROM reply_likes
		WHERE reply_id IN (?) ORDER BY created_at ASC`
	if err := s.selectIn(ctx, &rows, query, ids); err != nil {
		return err
	}
	for _, r := range rows {
		i := index[r.ParentID]
		list[i].Likes = append(list[i].Likes, r.UserID)
	}
	return nil
}

func (s *Store) UpdateReply(ctx context.Context, r *types.Reply) error {
	query := `UPDATE replies SET content = ?, is_edited = ?, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, query, r.Content, r.IsEdited, r.UpdatedAt, r.ID)
}

func (s *Store) DeleteReply(ctx context.Context, id string) error {
	if _, err := s.exec(ctx, `DELETE FROM reply_likes WHERE reply_id = ?`, id); err != nil {
		return err
	}
	return s.execOne(ctx, `DELETE FROM replies WHERE id = ?`, id)
}

func (s *Store) ReplyCountsByAuthor(ctx context.Context, threadID string) (map[string]int, error) {
	var rows []struct {
		AuthorID string `db:"author_id"`
		Count    int    `db:"n"`
	}
	query := `SELECT author_id, COUNT(*) AS n FROM replies WHERE thread_id = ? GROUP BY author_id`
	if err := s.selectAll(ctx, &rows, query, threadID); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.AuthorID] = r.Count
	}
	return out, nil
}

func (s *Store) ToggleReplyLike(ctx context.Context, id, userID string) (types.LikeResult, error) {
	return s.toggleLike(ctx, "replies", "reply_likes", "reply_id", id, userID)
}
