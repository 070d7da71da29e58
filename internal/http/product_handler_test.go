package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/catalog"
	"github.com/minhtran-dev/storefront/internal/gateway/memory"
	"github.com/minhtran-dev/storefront/internal/model"
	"github.com/minhtran-dev/storefront/internal/service"
	"github.com/minhtran-dev/storefront/internal/workflow"
	"github.com/minhtran-dev/storefront/pkg/ptr"
)

// --- Mocks ---

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) List(ctx context.Context, query catalog.Query) ([]model.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockCatalogService) ListFeatured(ctx context.Context, limit int32) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockCatalogService) ListRecent(ctx context.Context, limit int32) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockCatalogService) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockCatalogService) GetByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

// --- Test Helpers ---

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Stage   string          `json:"stage"`
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProductRouter(catalogSvc catalog.Service, productSvc service.ProductService) *chi.Mux {
	h := newProductHandler(newTestLogger(), catalogSvc, productSvc)
	r := chi.NewRouter()
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

func catalogProduct() model.Product {
	id, _ := uuid.NewV7()
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	return model.Product{
		ID:          id,
		Name:        "Canvas Tote",
		Description: "A sturdy everyday tote bag.",
		Price:       24.99,
		Images:      []string{"https://cdn.example.com/images/abc"},
		ImageIDs:    []string{"abc"},
		Category:    "bags",
		Sizes:       []string{"S", "M"},
		Colors:      []string{},
		Stock:       12,
		Featured:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- List ---

func TestListProducts(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	catalogSvc.On("List", mock.Anything, catalog.Query{}).
		Return([]model.Product{catalogProduct(), catalogProduct()}, nil)

	rec, env := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	var products []model.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 2)
}

func TestListProducts_QueryParams(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	catalogSvc.On("List", mock.Anything, catalog.Query{
		Featured: ptr.New(true),
		Category: ptr.New("bags"),
		Search:   ptr.New("tote"),
		Limit:    8,
	}).Return([]model.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?featured=true&category=bags&q=tote&limit=8", nil)
	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	catalogSvc.AssertExpectations(t)
}

func TestListProducts_BadFeatured(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?featured=maybe", nil)
	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
	catalogSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProducts_BadLimit(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	req := httptest.NewRequest(http.MethodGet, "/products?limit=-3", nil)
	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
}

// --- Get ---

func TestGetProduct(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	want := catalogProduct()
	catalogSvc.On("GetByID", mock.Anything, want.ID).Return(want, nil)

	rec, env := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/products/"+want.ID.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Count)

	var product model.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, want.ID, product.ID)
	assert.Equal(t, want.Name, product.Name)
}

func TestGetProduct_InvalidID(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	rec, env := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
	catalogSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProduct_NotFound(t *testing.T) {
	catalogSvc := new(mockCatalogService)
	router := newProductRouter(catalogSvc, nil)

	id, _ := uuid.NewV7()
	catalogSvc.On("GetByID", mock.Anything, id).
		Return(model.Product{}, apperr.ProductNotFoundErr)

	rec, env := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/products/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.ProductNotFoundCode, env.Code)
}

// --- Create ---

func TestCreateProduct(t *testing.T) {
	productSvc := new(mockProductService)
	router := newProductRouter(nil, productSvc)

	want := catalogProduct()
	productSvc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(params service.CreateProductParams) bool {
		return params.Name == "Canvas Tote" &&
			params.Price != nil && *params.Price == 24.99 &&
			len(params.Images) == 1
	})).Return(want, nil)

	body := `{
		"name": "Canvas Tote",
		"description": "A sturdy everyday tote bag.",
		"price": 24.99,
		"images": ["https://cdn.example.com/images/abc"],
		"imageIds": ["abc"],
		"category": "bags"
	}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	productSvc.AssertExpectations(t)
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	productSvc := new(mockProductService)
	router := newProductRouter(nil, productSvc)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("{not json"))
	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
	productSvc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	productSvc := new(mockProductService)
	router := newProductRouter(nil, productSvc)

	productSvc.On("CreateProduct", mock.Anything, mock.Anything).
		Return(model.Product{}, apperr.ValidationErr.WithMsg("name: field is required"))

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"price": 1}`))
	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
	assert.Equal(t, "name: field is required", env.Error)
}

// --- Submissions ---

func newSubmissionRouter(uploader *memory.Uploader, creator workflow.ProductCreator) *chi.Mux {
	wf := workflow.New(newTestLogger(), uploader, creator)
	h := newSubmissionHandler(newTestLogger(), wf, 10<<20)
	r := chi.NewRouter()
	r.Post("/products/submissions", h.createSubmission)
	return r
}

func multipartSubmission(t *testing.T, fields map[string]string, imageCount int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for i := 0; i < imageCount; i++ {
		part, err := mw.CreateFormFile("images", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func submissionFields() map[string]string {
	return map[string]string{
		"name":        "Canvas Tote",
		"description": "A sturdy everyday tote bag.",
		"price":       "24.99",
		"stock":       "12",
		"category":    "bags",
		"sizes":       "S, M, L",
		"featured":    "true",
	}
}

func TestCreateSubmission(t *testing.T) {
	uploader := memory.New("https://cdn.example.com")
	creator := new(mockProductService)
	router := newSubmissionRouter(uploader, creator)

	creator.On("CreateProduct", mock.Anything, mock.MatchedBy(func(params service.CreateProductParams) bool {
		return params.Name == "Canvas Tote" &&
			len(params.Images) == 2 &&
			len(params.ImageIDs) == 2
	})).Return(catalogProduct(), nil)

	body, contentType := multipartSubmission(t, submissionFields(), 2)
	req := httptest.NewRequest(http.MethodPost, "/products/submissions", body)
	req.Header.Set("Content-Type", contentType)

	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Len(t, uploader.Uploads(), 2)
	creator.AssertExpectations(t)
}

func TestCreateSubmission_ValidationFailure(t *testing.T) {
	uploader := memory.New("https://cdn.example.com")
	creator := new(mockProductService)
	router := newSubmissionRouter(uploader, creator)

	fields := submissionFields()
	fields["price"] = "twenty"

	body, contentType := multipartSubmission(t, fields, 1)
	req := httptest.NewRequest(http.MethodPost, "/products/submissions", body)
	req.Header.Set("Content-Type", contentType)

	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
	assert.Equal(t, "validating", env.Stage)
	assert.Empty(t, uploader.Uploads())
}

func TestCreateSubmission_StoreRejection(t *testing.T) {
	uploader := memory.New("https://cdn.example.com")
	creator := new(mockProductService)
	router := newSubmissionRouter(uploader, creator)

	creator.On("CreateProduct", mock.Anything, mock.Anything).
		Return(model.Product{}, apperr.ValidationErr.WithMsg("description: must be at most 500 characters"))

	body, contentType := multipartSubmission(t, submissionFields(), 2)
	req := httptest.NewRequest(http.MethodPost, "/products/submissions", body)
	req.Header.Set("Content-Type", contentType)

	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "creating", env.Stage)
	// uploads happened before the rejection and are left orphaned
	assert.Len(t, uploader.Uploads(), 2)
}

func TestCreateSubmission_NotMultipart(t *testing.T) {
	uploader := memory.New("https://cdn.example.com")
	creator := new(mockProductService)
	router := newSubmissionRouter(uploader, creator)

	req := httptest.NewRequest(http.MethodPost, "/products/submissions", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
}

// --- Upload ---

func TestUploadImage(t *testing.T) {
	uploader := memory.New("https://cdn.example.com")
	h := newUploadHandler(newTestLogger(), uploader, 10<<20)
	router := chi.NewRouter()
	router.Post("/upload", h.uploadImage)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "tote.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var result struct {
		URL    string `json:"url"`
		FileID string `json:"fileId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.URL)
	assert.NotEmpty(t, result.FileID)
	assert.Len(t, uploader.Uploads(), 1)
}

func TestUploadImage_MissingFile(t *testing.T) {
	uploader := memory.New("https://cdn.example.com")
	h := newUploadHandler(newTestLogger(), uploader, 10<<20)
	router := chi.NewRouter()
	router.Post("/upload", h.uploadImage)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "not a file"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec, env := doRequest(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.ValidationErrorCode, env.Code)
	assert.Empty(t, uploader.Uploads())
}
