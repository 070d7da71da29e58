package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/model"
	"github.com/minhtran-dev/storefront/internal/repository"
	"github.com/minhtran-dev/storefront/internal/storage/db"
	"github.com/minhtran-dev/storefront/pkg/ptr"
	"github.com/minhtran-dev/storefront/pkg/zerror"
)

// --- Mock Repository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) WithDB(_ db.DB) repository.ProductRepository {
	return m
}

func (m *mockProductRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func testProduct(name string, featured bool) model.Product {
	id, _ := uuid.NewV7()
	now := time.Now().UTC()
	return model.Product{
		ID:        id,
		Name:      name,
		Price:     10,
		Images:    []string{"https://img.example.com/" + name + ".jpg"},
		Category:  "shirts",
		Featured:  featured,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// --- Tests ---

func TestList_PassesFilterThrough(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	want := []model.Product{testProduct("tee", false)}
	repo.On("ListProducts", ctx, repository.ListProductsParams{
		Filter: repository.ProductFilter{
			Category: ptr.New("shirts"),
			Search:   ptr.New("linen"),
		},
		Limit: 20,
	}).Return(want, nil)

	got, err := svc.List(ctx, Query{
		Category: ptr.New("shirts"),
		Search:   ptr.New("linen"),
		Limit:    20,
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestListFeatured_SetsFeaturedPredicate(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	want := []model.Product{testProduct("hoodie", true)}
	repo.On("ListProducts", ctx, mock.MatchedBy(func(params repository.ListProductsParams) bool {
		return params.Filter.Featured != nil && *params.Filter.Featured &&
			params.Filter.Category == nil &&
			params.Filter.Search == nil &&
			params.Limit == 8
	})).Return(want, nil)

	got, err := svc.ListFeatured(ctx, 8)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestListRecent_NoPredicates(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("ListProducts", ctx, repository.ListProductsParams{Limit: 4}).
		Return([]model.Product{}, nil)

	got, err := svc.ListRecent(ctx, 4)

	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}

func TestListAll_NoLimit(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("ListProducts", ctx, repository.ListProductsParams{}).
		Return([]model.Product{testProduct("tee", false)}, nil)

	got, err := svc.ListAll(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestList_RepositoryError(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("ListProducts", ctx, mock.Anything).
		Return([]model.Product(nil), errors.New("connection refused"))

	_, err := svc.List(ctx, Query{})

	require.Error(t, err)
}

func TestGetByID_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	want := testProduct("tee", false)
	repo.On("GetProductByID", ctx, want.ID).Return(want, nil)

	got, err := svc.GetByID(ctx, want.ID)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewService(repo)
	ctx := context.Background()

	id, _ := uuid.NewV7()
	repo.On("GetProductByID", ctx, id).
		Return(model.Product{}, repository.ErrProductNotFound)

	_, err := svc.GetByID(ctx, id)

	require.Error(t, err)
	var zerr zerror.ZError
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, apperr.ProductNotFoundCode, zerr.Code())
}
