package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository"
)

const (
	MinCategoryNameLength = 2
	MaxCategoryNameLength = 50
)

// CategoryService manages the flat category taxonomy used to group posts.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// Create adds a new category after checking the name isn't taken.
// Any authenticated user can create categories; they are shared, not owned.
func (s *CategoryService) Create(ctx context.Context, name string, description *string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, apperror.Conflict("Category with this name already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/category: checking name: %w", err)
	}

	category := &model.Category{
		Name:        name,
		Description: description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		slog.Int64("categoryID", category.ID),
		slog.String("name", category.Name),
	)
	return category, nil
}

// CategoryUpdate carries the fields a PUT may change. Nil pointer means
// "leave as is" — the handler can't tell an absent JSON key from a zero
// value without pointers.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// Update applies a partial update to a category.
func (s *CategoryService) Update(ctx context.Context, id int64, update CategoryUpdate) (*model.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := validateCategoryName(name); err != nil {
			return nil, err
		}
		// Renaming to a name another category holds is a conflict;
		// renaming to your own current name is a no-op.
		if !strings.EqualFold(name, category.Name) {
			if _, err := s.categories.GetByName(ctx, name); err == nil {
				return nil, apperror.Conflict("Category with this name already exists")
			} else if !errors.Is(err, apperror.ErrNotFound) {
				return nil, fmt.Errorf("service/category: checking name: %w", err)
			}
		}
		category.Name = name
	}
	if update.Description != nil {
		category.Description = update.Description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Posts that referenced it are detached (their
// category becomes NULL) rather than deleted — the schema handles that via
// ON DELETE SET NULL.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", slog.Int64("categoryID", id))
	return nil
}

func validateCategoryName(name string) error {
	if len(name) < MinCategoryNameLength || len(name) > MaxCategoryNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("Category name must be between %d and %d characters", MinCategoryNameLength, MaxCategoryNameLength))
	}
	return nil
}
