package sqlstore

import (
	"context"

	"github.com/derdine/forum-service/internal/types"
)

const categoryColumns = `id, name, description, icon, color, thread_count, created_at, updated_at`

func (s *Store) CreateCategory(ctx context.Context, c *types.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.exec(ctx, query,
		c.ID, c.Name, c.Description, c.Icon, c.Color, c.ThreadCount, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *Store) GetCategory(ctx context.Context, id string) (*types.Category, error) {
	var c types.Category
	if err := s.get(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CategoriesByIDs(ctx context.Context, ids []string) (map[string]*types.Category, error) {
	out := make(map[string]*types.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var list []types.Category
	if err := s.selectIn(ctx, &list, `SELECT `+categoryColumns+` FROM categories WHERE id IN (?)`, ids); err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]types.Category, error) {
	list := []types.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at DESC`
	if err := s.selectAll(ctx, &list, query); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *types.Category) error {
	query := `UPDATE categories SET name = ?, description = ?, icon = ?, color = ?, updated_at = ?
		WHERE id = ?`
	return s.execOne(ctx, query, c.Name, c.Description, c.Icon, c.Color, c.UpdatedAt, c.ID)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM categories WHERE id = ?`, id)
}

func (s *Store) CountCategories(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM categories`)
}

func (s *Store) AdjustCategoryThreads(ctx context.Context, id string, delta int) error {
	return s.execOne(ctx, `UPDATE categories SET thread_count = thread_count + ? WHERE id = ?`, delta, id)
}
