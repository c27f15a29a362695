package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// CategoryService manages categories, including the protections on the
// defaults seeded at registration.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(st *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: st}
}

type CategoryInput struct {
	Name     string
	Type     core.TransactionType
	ParentID *uuid.UUID
}

// CategoryUpdate is the explicit allow-list of updatable fields.
type CategoryUpdate struct {
	Name     *string
	Type     *core.TransactionType
	ParentID *uuid.UUID
	IsActive *bool
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, in CategoryInput) (core.Category, error) {
	c := core.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		ParentID:  in.ParentID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if c.ParentID != nil {
		parent, err := s.storage.GetCategory(ctx, userID, *c.ParentID)
		if err != nil {
			return core.Category{}, fmt.Errorf("parent category: %w", err)
		}
		if parent.Type != c.Type {
			return core.Category{}, core.Invalid("parentCategory", "must have the same type")
		}
	}
	if err := s.storage.CreateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	slog.InfoContext(ctx, "Category created", "id", c.ID, "type", c.Type)
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, userID, includeInactive)
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, upd CategoryUpdate) (core.Category, error) {
	c, err := s.storage.GetCategory(ctx, userID, id)
	if err != nil {
		return core.Category{}, err
	}

	if c.IsDefault {
		if upd.Name != nil && *upd.Name != c.Name {
			return core.Category{}, fmt.Errorf("default category name cannot change: %w", core.ErrConflict)
		}
		if upd.Type != nil && *upd.Type != c.Type {
			return core.Category{}, fmt.Errorf("default category type cannot change: %w", core.ErrConflict)
		}
		if upd.IsActive != nil && !*upd.IsActive {
			return core.Category{}, fmt.Errorf("default category cannot be deactivated: %w", core.ErrConflict)
		}
	}

	if upd.Type != nil && *upd.Type != c.Type {
		// Retyping a category would desynchronize it from its linked
		// transactions and budgets.
		refs, err := s.storage.CountCategoryRefs(ctx, userID, id)
		if err != nil {
			return core.Category{}, err
		}
		if refs > 0 {
			return core.Category{}, fmt.Errorf("category type cannot change while transactions or budgets reference it: %w", core.ErrConflict)
		}
		c.Type = *upd.Type
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.ParentID != nil {
		if *upd.ParentID == uuid.Nil {
			c.ParentID = nil
		} else {
			if *upd.ParentID == c.ID {
				return core.Category{}, core.Invalid("parentCategory", "cannot reference itself")
			}
			parent, err := s.storage.GetCategory(ctx, userID, *upd.ParentID)
			if err != nil {
				return core.Category{}, fmt.Errorf("parent category: %w", err)
			}
			if parent.Type != c.Type {
				return core.Category{}, core.Invalid("parentCategory", "must have the same type")
			}
			c.ParentID = upd.ParentID
		}
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}

	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.storage.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

// Delete removes an unreferenced category and deactivates a referenced
// one. Default categories cannot be deleted at all.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) (deactivated bool, err error) {
	c, err := s.storage.GetCategory(ctx, userID, id)
	if err != nil {
		return false, err
	}
	if c.IsDefault {
		return false, fmt.Errorf("default category cannot be deleted: %w", core.ErrConflict)
	}
	refs, err := s.storage.CountCategoryRefs(ctx, userID, id)
	if err != nil {
		return false, err
	}
	if refs > 0 {
		if err := s.storage.DeactivateCategory(ctx, userID, id); err != nil {
			return false, err
		}
		slog.InfoContext(ctx, "Category deactivated", "id", id, "refs", refs)
		return true, nil
	}
	if err := s.storage.DeleteCategory(ctx, userID, id); err != nil {
		return false, err
	}
	slog.InfoContext(ctx, "Category deleted", "id", id)
	return false, nil
}
