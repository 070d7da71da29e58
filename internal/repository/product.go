package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/minhtran-dev/storefront/internal/model"
	"github.com/minhtran-dev/storefront/internal/storage/db"
)

// ErrProductNotFound is returned when no product matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// ProductFilter is a conjunction of typed predicates over the products
// table. A nil field means the predicate is absent.
type ProductFilter struct {
	// Featured matches products whose featured flag equals the value.
	Featured *bool
	// Category matches products in exactly this category.
	Category *string
	// Search matches the full-text index over name and description.
	Search *string
}

type ListProductsParams struct {
	Filter ProductFilter
	// Limit caps the result size; zero or negative means no limit.
	Limit int32
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	var price pgtype.Numeric
	if err := price.Scan(fmt.Sprintf("%f", product.Price)); err != nil {
		return fmt.Errorf("scan price: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (
			id, name, description, price, images, image_ids,
			category, sizes, colors, stock, featured, created_at, updated_at
		) VALUES (
			@id, @name, @description, @price, @images, @image_ids,
			@category, @sizes, @colors, @stock, @featured, @created_at, @updated_at
		)
	`, pgx.NamedArgs{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"price":       price,
		"images":      product.Images,
		"image_ids":   product.ImageIDs,
		"category":    product.Category,
		"sizes":       product.Sizes,
		"colors":      product.Colors,
		"stock":       int32(product.Stock),
		"featured":    product.Featured,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

// ListProducts returns products matching the filter, newest first with ties
// broken by id ascending so repeated reads of an unchanged table are stable.
func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	query, args := buildListQuery(params)

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx, productSelectColumns+` FROM products WHERE id = @id`, pgx.NamedArgs{
		"id": id,
	})

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

const productSelectColumns = `
	SELECT id, name, description, price, images, image_ids,
		category, sizes, colors, stock, featured, created_at, updated_at`

func buildListQuery(params ListProductsParams) (string, pgx.NamedArgs) {
	var (
		conds []string
		args  = pgx.NamedArgs{}
	)

	if params.Filter.Featured != nil {
		conds = append(conds, "featured = @featured")
		args["featured"] = *params.Filter.Featured
	}
	if params.Filter.Category != nil {
		conds = append(conds, "category = @category")
		args["category"] = *params.Filter.Category
	}
	if params.Filter.Search != nil {
		conds = append(conds, "search_vec @@ websearch_to_tsquery('english', @search)")
		args["search"] = *params.Filter.Search
	}

	var sb strings.Builder
	sb.WriteString(productSelectColumns)
	sb.WriteString(" FROM products")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id ASC")
	if params.Limit > 0 {
		sb.WriteString(" LIMIT @limit")
		args["limit"] = params.Limit
	}

	return sb.String(), args
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		product model.Product
		price   pgtype.Numeric
		stock   int32
	)

	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&price,
		&product.Images,
		&product.ImageIDs,
		&product.Category,
		&product.Sizes,
		&product.Colors,
		&stock,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}

	priceVal, err := price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}

	product.Price = priceVal.Float64
	product.Stock = int(stock)

	return product, nil
}
