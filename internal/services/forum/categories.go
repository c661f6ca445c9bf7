package forum

import (
	"context"

	"github.com/google/uuid"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

const (
	defaultCategoryIcon  = "folder"
	defaultCategoryColor = "#3B82F6"
)

func (s *Service) ListCategories(ctx context.Context) ([]types.Category, error) {
	list, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*types.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}
	return c, nil
}

func (s *Service) CreateCategory(ctx context.Context, req types.CategoryRequest) (*types.Category, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.Name == nil || *req.Name == "" {
		return nil, apperr.BadRequest("Category name is required")
	}

	now := s.now()
	c := &types.Category{
		ID:        uuid.NewString(),
		Name:      *req.Name,
		Icon:      defaultCategoryIcon,
		Color:     defaultCategoryColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCategory(c, req)

	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, internal(err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req types.CategoryRequest) (*types.Category, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}

	applyCategory(c, req)
	c.UpdatedAt = s.now()

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, notFound(err, "Category not found")
	}
	return c, nil
}

func applyCategory(c *types.Category, req types.CategoryRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Icon != nil {
		c.Icon = *req.Icon
	}
	if req.Color != nil {
		c.Color = *req.Color
	}
}

// DeleteCategory refuses to remove a category that threads still use.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return notFound(err, "Category not found")
		}

		n, err := tx.CountThreads(ctx, types.ThreadFilter{CategoryID: id})
		if err != nil {
			return internal(err)
		}
		if n > 0 {
			return apperr.Conflict("Category still has threads")
		}

		if err := tx.DeleteCategory(ctx, id); err != nil {
			return notFound(err, "Category not found")
		}
		return nil
	})
}
