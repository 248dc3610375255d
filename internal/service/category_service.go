package service

import (
	"context"
	"errors"
	"fmt"

	"salesdesk-backend/internal/model"
	"salesdesk-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// --- Interface ---

type CategoryService interface {
	GetCategories(ctx context.Context, page, limit int, search string) ([]CategoryResponse, int64, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// --- Implementation ---

func (s *categoryService) GetCategories(ctx context.Context, page, limit int, search string) ([]CategoryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	categories, total, err := s.categoryRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, toCategoryResponse(c))
	}

	return res, total, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error) {
	if _, err := s.categoryRepo.FindByCode(ctx, req.Code); err == nil {
		return CategoryResponse{}, fmt.Errorf("category code %s: %w", req.Code, ErrConflict)
	}

	category := model.Category{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return CategoryResponse{}, fmt.Errorf("failed to create category: %w", err)
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return CategoryResponse{}, fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CategoryResponse{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return CategoryResponse{}, fmt.Errorf("database error: %w", err)
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return CategoryResponse{}, fmt.Errorf("failed to update category: %w", err)
	}

	return toCategoryResponse(*category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Refuse deletion while products still reference the category
	count, err := s.categoryRepo.CountProducts(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category has %d products: %w", count, ErrConflict)
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}

func toCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
	}
}
