package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
)

type ProductRepo struct {
	DB DBTX
}

const createProduct = `-- name: CreateProduct
INSERT INTO products (id, name, description, price_fiat, category_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, name, description, price_fiat, category_id
`

func (r *ProductRepo) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, createProduct,
		product.ID, product.Name, product.Description, product.PriceFiat, product.CategoryID,
	)
	saved, err := pgx.CollectOneRow(rows, rowToProduct)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const getProductByID = `-- name: GetProductByID
SELECT id, created_at, name, description, price_fiat, category_id FROM products
WHERE id = $1
`

func (r *ProductRepo) GetProductByID(ctx context.Context, productID int64) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, getProductByID, productID)
	product, err := pgx.CollectOneRow(rows, rowToProduct)

	switch {
	case err == nil:
		return product, nil
	case errors.Is(err, pgx.ErrNoRows):
		return product, apperrors.ErrProductNotFound
	default:
		return product, fmt.Errorf("db error: %w", err)
	}
}

const listProducts = `-- name: ListProducts
SELECT id, created_at, name, description, price_fiat, category_id FROM products
ORDER BY id
`

func (r *ProductRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, _ := r.DB.Query(ctx, listProducts)
	products, err := pgx.CollectRows(rows, rowToProduct)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return products, nil
}

func rowToProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CreatedAt, &p.Name, &p.Description, &p.PriceFiat, &p.CategoryID)
	return p, err
}

type CategoryRepo struct {
	DB DBTX
}

const createCategory = `-- name: CreateCategory
INSERT INTO categories (id, name)
VALUES ($1, $2)
RETURNING id, created_at, name
`

func (r *CategoryRepo) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, createCategory, category.ID, category.Name)
	saved, err := pgx.CollectOneRow(rows, rowToCategory)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return saved, apperrors.ErrCategoryAlreadyExists
		}

		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const getCategoryByID = `-- name: GetCategoryByID
SELECT id, created_at, name FROM categories
WHERE id = $1
`

func (r *CategoryRepo) GetCategoryByID(ctx context.Context, categoryID int64) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, getCategoryByID, categoryID)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, apperrors.ErrCategoryNotFound
	default:
		return category, fmt.Errorf("db error: %w", err)
	}
}

const listCategories = `-- name: ListCategories
SELECT id, created_at, name FROM categories
ORDER BY id
`

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, listCategories)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return categories, nil
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Name)
	return c, err
}
