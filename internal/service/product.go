package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/event"
	"github.com/minhtran-dev/storefront/internal/model"
	"github.com/minhtran-dev/storefront/internal/repository"
	"github.com/minhtran-dev/storefront/internal/storage/db"
	"github.com/minhtran-dev/storefront/pkg/outbox"
	"github.com/minhtran-dev/storefront/pkg/ptr"
	"github.com/minhtran-dev/storefront/pkg/validator"
)

// CreateProductParams is a candidate product. Price and Stock are pointers
// so "missing" and "zero" stay distinguishable: price is required, stock
// defaults to zero.
type CreateProductParams struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=500"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	ImageIDs    []string `json:"imageIds"`
	Category    string   `json:"category" validate:"required"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Featured    bool     `json:"featured"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
}

type productService struct {
	db            db.DB
	validator     validator.Validator
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	db db.DB,
	v validator.Validator,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		validator:     v,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

// CreateProduct validates the candidate and persists it together with a
// catalog.product.created outbox row in one transaction. Constraint
// violations reject the write; nothing is ever truncated to fit.
func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validate(&params); err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now().UTC()
	product := model.Product{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		Price:       *params.Price,
		Images:      params.Images,
		ImageIDs:    orEmpty(params.ImageIDs),
		Category:    params.Category,
		Sizes:       orEmpty(params.Sizes),
		Colors:      orEmpty(params.Colors),
		Stock:       stockOrDefault(params.Stock),
		Featured:    params.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ev := event.ProductCreatedEvent{
		ProductID: product.ID.String(),
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Stock:     product.Stock,
		Featured:  product.Featured,
	}

	evBytes, err := json.Marshal(ev)
	if err != nil {
		return model.Product{}, fmt.Errorf("marshal event: %w", err)
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicProductCreated,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(product.ID.String()),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, apperr.StoreUnavailableErr.WrapParent(err)
	}

	return product, nil
}

func (s *productService) validate(params *CreateProductParams) error {
	params.Name = strings.TrimSpace(params.Name)

	if err := s.validator.Validate(params); err != nil {
		if field, msg, ok := validator.FirstViolation(err); ok {
			return apperr.ValidationErr.
				WithMsg(fmt.Sprintf("%s: %s", field, msg)).
				WrapParent(err)
		}
		return fmt.Errorf("validate product: %w", err)
	}

	// imageIds, when present, must mirror images element-wise.
	if len(params.ImageIDs) > 0 && len(params.ImageIDs) != len(params.Images) {
		return apperr.ValidationErr.WithMsg("imageIds: must correspond one-to-one with images")
	}

	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func stockOrDefault(stock *int) int {
	if stock == nil {
		return 0
	}
	return *stock
}
