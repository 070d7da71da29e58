package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/catalog"
	"github.com/minhtran-dev/storefront/internal/service"
)

type productHandler struct {
	logger     *slog.Logger
	catalogSvc catalog.Service
	productSvc service.ProductService
}

func newProductHandler(logger *slog.Logger, catalogSvc catalog.Service, productSvc service.ProductService) *productHandler {
	return &productHandler{
		logger:     logger,
		catalogSvc: catalogSvc,
		productSvc: productSvc,
	}
}

// listProducts handles GET /products. Supported query parameters:
// featured (bool), category, q (free text) and limit.
func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseCatalogQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	products, err := h.catalogSvc.List(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	count := len(products)
	writeJSON(w, r, h.logger, http.StatusOK, dataResponse{
		Success: true,
		Count:   &count,
		Data:    products,
	})
}

func (h *productHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperr.ValidationErr.
			WithMsg("id: must be a valid UUID").
			WrapParent(err))
		return
	}

	product, err := h.catalogSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, h.logger, http.StatusOK, dataResponse{
		Success: true,
		Data:    product,
	})
}

// createProduct handles POST /products: a JSON candidate whose images are
// already resolved to hosted URLs and file ids.
func (h *productHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var params service.CreateProductParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, r, h.logger, apperr.ValidationErr.
			WithMsg("request body must be valid JSON").
			WrapParent(err))
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, h.logger, http.StatusCreated, dataResponse{
		Success: true,
		Data:    product,
	})
}

func parseCatalogQuery(r *http.Request) (catalog.Query, error) {
	var query catalog.Query
	q := r.URL.Query()

	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return catalog.Query{}, apperr.ValidationErr.
				WithMsg("featured: must be a boolean").
				WrapParent(err)
		}
		query.Featured = &featured
	}

	if v := q.Get("category"); v != "" {
		query.Category = &v
	}

	if v := q.Get("q"); v != "" {
		query.Search = &v
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 32)
		if err != nil || limit < 0 {
			return catalog.Query{}, apperr.ValidationErr.
				WithMsg("limit: must be a non-negative integer").
				WrapParent(err)
		}
		query.Limit = int32(limit)
	}

	return query, nil
}
