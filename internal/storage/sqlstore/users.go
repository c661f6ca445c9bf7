package sqlstore

import (
	"context"
	"time"

	"github.com/derdine/forum-service/internal/types/users"
)

const userColumns = `id, username, email, password, avatar_url, badge, is_online,
	thread_count, reply_count, reputation, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *users.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.AvatarURL, u.Badge, u.IsOnline,
		u.ThreadCount, u.ReplyCount, u.Reputation, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (*users.User, error) {
	var u users.User
	if err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var u users.User
	if err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserExists(ctx context.Context, username, email string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, username, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	out := make(map[string]*users.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var list []users.User
	if err := s.selectIn(ctx, &list, `SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids); err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]users.User, error) {
	list := []users.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	if err := s.selectAll(ctx, &list, query); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *users.User) error {
	query := `UPDATE users SET username = ?, avatar_url = ?, badge = ?, is_online = ?,
		reputation = ?, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, query,
		u.Username, u.AvatarURL, u.Badge, u.IsOnline, u.Reputation, u.UpdatedAt, u.ID,
	)
}

func (s *Store) SetUserPassword(ctx context.Context, id, hash string) error {
	return s.execOne(ctx, `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), id)
}

// DeleteUser removes the user's likes, decrementing the like counters they
// contributed to, and then the user row. Callers must ensure the user has
// no authored threads or replies.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	stmts := []string{
		`UPDATE threads SET like_count = like_count - 1
			WHERE id IN (SELECT thread_id FROM thread_likes WHERE user_id = ?)`,
		`UPDATE replies SET like_count = like_count - 1
			WHERE id IN (SELECT reply_id FROM reply_likes WHERE user_id = ?)`,
		`DELETE FROM thread_likes WHERE user_id = ?`,
		`DELETE FROM reply_likes WHERE user_id = ?`,
	}
	for _, q := range stmts {
		if _, err := s.exec(ctx, q, id); err != nil {
			return err
		}
	}
	return s.execOne(ctx, `DELETE FROM users WHERE id = ?`, id)
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (s *Store) CountUserContent(ctx context.Context, id string) (int, int, error) {
	threads, err := s.count(ctx, `SELECT COUNT(*) FROM threads WHERE author_id = ?`, id)
	if err != nil {
		return 0, 0, err
	}
	replies, err := s.count(ctx, `SELECT COUNT(*) FROM replies WHERE author_id = ?`, id)
	if err != nil {
		return 0, 0, err
	}
	return threads, replies, nil
}

func (s *Store) AdjustUserCounters(ctx context.Context, id string, threadDelta, replyDelta int) error {
	query := `UPDATE users SET thread_count = thread_count + ?, reply_count = reply_count + ?
		WHERE id = ?`
	return s.execOne(ctx, query, threadDelta, replyDelta, id)
}
