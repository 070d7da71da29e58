package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/model"
	"github.com/minhtran-dev/storefront/internal/repository"
)

// Query is the read-side filter accepted from presentation callers.
type Query struct {
	Featured *bool
	Category *string
	Search   *string
	// Limit caps the result size; zero or negative means unlimited.
	Limit int32
}

// Service exposes read-only catalog views. Results are always ordered
// newest first with ties broken by id, so repeated calls against an
// unchanged store return identical sequences.
type Service interface {
	List(ctx context.Context, query Query) ([]model.Product, error)
	ListFeatured(ctx context.Context, limit int32) ([]model.Product, error)
	ListRecent(ctx context.Context, limit int32) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Product, error)
}

type service struct {
	productRepo repository.ProductRepository
}

func NewService(productRepo repository.ProductRepository) Service {
	return &service{productRepo: productRepo}
}

func (s *service) List(ctx context.Context, query Query) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Filter: repository.ProductFilter{
			Featured: query.Featured,
			Category: query.Category,
			Search:   query.Search,
		},
		Limit: query.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *service) ListFeatured(ctx context.Context, limit int32) ([]model.Product, error) {
	featured := true
	return s.List(ctx, Query{Featured: &featured, Limit: limit})
}

func (s *service) ListRecent(ctx context.Context, limit int32) ([]model.Product, error) {
	return s.List(ctx, Query{Limit: limit})
}

// ListAll returns the whole catalog with no implicit limit. Pagination is
// the caller's problem.
func (s *service) ListAll(ctx context.Context) ([]model.Product, error) {
	return s.List(ctx, Query{})
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository get product by id: %w", err)
	}

	return product, nil
}
