package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
)

// Service creates and reads catalog entities. Every creation allocates its
// numeric id through the sequence counter, so course ids start above 2000,
// product ids above 1000 and category ids above 50.
type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type CreateCourseParams struct {
	Title       string
	Description string
	PriceCoins  int64
	PriceFiat   decimal.Decimal
	CategoryID  *int64
}

func (s *Service) CreateCourse(ctx context.Context, arg CreateCourseParams) (models.Course, error) {
	var course models.Course

	if arg.PriceCoins < 0 || arg.PriceFiat.IsNegative() {
		return course, apperrors.ErrNegativePrice
	}

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		id, err := store.Sequence().NextID(ctx, "course")
		if err != nil {
			return err
		}

		course, err = store.Course().CreateCourse(ctx, models.Course{
			ID:          id,
			Title:       arg.Title,
			Description: arg.Description,
			PriceCoins:  arg.PriceCoins,
			PriceFiat:   arg.PriceFiat,
			CategoryID:  arg.CategoryID,
		})
		return err
	})
	if err != nil {
		return course, fmt.Errorf("can't create course. Err: %w", err)
	}

	return course, nil
}

func (s *Service) GetCourse(ctx context.Context, courseID int64) (models.Course, error) {
	return s.storage.Course().GetCourseByID(ctx, courseID)
}

func (s *Service) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.storage.Course().ListCourses(ctx)
}

type CreateProductParams struct {
	Name        string
	Description string
	PriceFiat   decimal.Decimal
	CategoryID  *int64
}

func (s *Service) CreateProduct(ctx context.Context, arg CreateProductParams) (models.Product, error) {
	var product models.Product

	if arg.PriceFiat.IsNegative() {
		return product, apperrors.ErrNegativePrice
	}

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		id, err := store.Sequence().NextID(ctx, "product")
		if err != nil {
			return err
		}

		product, err = store.Product().CreateProduct(ctx, models.Product{
			ID:          id,
			Name:        arg.Name,
			Description: arg.Description,
			PriceFiat:   arg.PriceFiat,
			CategoryID:  arg.CategoryID,
		})
		return err
	})
	if err != nil {
		return product, fmt.Errorf("can't create product. Err: %w", err)
	}

	return product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.storage.Product().ListProducts(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	var category models.Category

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		id, err := store.Sequence().NextID(ctx, "category")
		if err != nil {
			return err
		}

		category, err = store.Category().CreateCategory(ctx, models.Category{ID: id, Name: name})
		return err
	})
	if err != nil {
		return category, fmt.Errorf("can't create category. Err: %w", err)
	}

	return category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.storage.Category().ListCategories(ctx)
}
