package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/gateway"
	"github.com/minhtran-dev/storefront/internal/model"
	"github.com/minhtran-dev/storefront/internal/service"
)

// Stage names the step of a submission that was executing. A failed
// submission is terminal; resubmitting starts over from the beginning.
type Stage uint8

const (
	StageValidating Stage = iota + 1
	StageUploadingImages
	StageCreating
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageUploadingImages:
		return "uploading_images"
	case StageCreating:
		return "creating"
	default:
		return "unknown"
	}
}

// StageError reports which stage a submission failed in and why.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("submission failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Submission is a raw product form: scalar fields as entered by the user
// plus the image files, in the order they were attached.
type Submission struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
	Sizes       string
	Colors      string
	Featured    bool
	Assets      []gateway.Asset
}

// ProductCreator is the slice of the product service the workflow needs.
type ProductCreator interface {
	CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error)
}

// Workflow turns one form submission into one persisted product.
//
// Uploads run sequentially in submission order. If any upload fails, the
// whole submission aborts and no product is inserted; images uploaded
// before the failure are left orphaned at the gateway (logged, not cleaned
// up). The same holds when the store rejects the assembled candidate.
type Workflow struct {
	logger   *slog.Logger
	uploader gateway.Uploader
	products ProductCreator
}

func New(logger *slog.Logger, uploader gateway.Uploader, products ProductCreator) *Workflow {
	return &Workflow{
		logger:   logger.With(slog.String("service", "workflow")),
		uploader: uploader,
		products: products,
	}
}

// Run executes one submission to completion or failure. On failure the
// returned error is a *StageError naming the stage that aborted.
func (w *Workflow) Run(ctx context.Context, sub Submission) (model.Product, error) {
	price, stock, err := w.validate(sub)
	if err != nil {
		return model.Product{}, &StageError{Stage: StageValidating, Err: err}
	}

	uploaded, err := w.uploadImages(ctx, sub.Assets)
	if err != nil {
		return model.Product{}, &StageError{Stage: StageUploadingImages, Err: err}
	}

	images := make([]string, 0, len(uploaded))
	imageIDs := make([]string, 0, len(uploaded))
	for _, u := range uploaded {
		images = append(images, u.URL)
		imageIDs = append(imageIDs, u.FileID)
	}

	product, err := w.products.CreateProduct(ctx, service.CreateProductParams{
		Name:        sub.Name,
		Description: sub.Description,
		Price:       &price,
		Images:      images,
		ImageIDs:    imageIDs,
		Category:    sub.Category,
		Sizes:       model.SplitTokens(sub.Sizes),
		Colors:      model.SplitTokens(sub.Colors),
		Stock:       &stock,
		Featured:    sub.Featured,
	})
	if err != nil {
		// Uploaded assets are not retracted; the submitter sees the store
		// error verbatim.
		w.logger.WarnContext(ctx, "product creation aborted after upload",
			slog.Int("orphaned_uploads", len(uploaded)),
			slog.Any("error", err),
		)
		return model.Product{}, &StageError{Stage: StageCreating, Err: err}
	}

	w.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.Int("images", len(product.Images)),
	)

	return product, nil
}

// validate fails a submission fast, before any gateway call, when a
// required scalar field is missing or not parseable. Store-level schema
// validation still runs later, on the assembled candidate.
func (w *Workflow) validate(sub Submission) (price float64, stock int, err error) {
	for _, f := range []struct{ name, value string }{
		{"name", sub.Name},
		{"description", sub.Description},
		{"price", sub.Price},
		{"stock", sub.Stock},
		{"category", sub.Category},
	} {
		if strings.TrimSpace(f.value) == "" {
			return 0, 0, apperr.ValidationErr.WithMsg(f.name + ": field is required")
		}
	}

	price, err = strconv.ParseFloat(strings.TrimSpace(sub.Price), 64)
	if err != nil {
		return 0, 0, apperr.ValidationErr.WithMsg("price: must be a number").WrapParent(err)
	}

	stock, err = strconv.Atoi(strings.TrimSpace(sub.Stock))
	if err != nil {
		return 0, 0, apperr.ValidationErr.WithMsg("stock: must be an integer").WrapParent(err)
	}

	return price, stock, nil
}

// uploadImages sends each asset to the gateway one at a time, in submission
// order. The first failure aborts; earlier uploads stay hosted.
func (w *Workflow) uploadImages(ctx context.Context, assets []gateway.Asset) ([]gateway.UploadResult, error) {
	uploaded := make([]gateway.UploadResult, 0, len(assets))

	for i, asset := range assets {
		result, err := w.uploader.Upload(ctx, asset)
		if err != nil {
			w.logger.WarnContext(ctx, "image upload failed, aborting submission",
				slog.Int("asset_index", i),
				slog.String("file_name", asset.FileName),
				slog.Int("orphaned_uploads", len(uploaded)),
				slog.Any("error", err),
			)
			return nil, err
		}
		uploaded = append(uploaded, result)
	}

	if len(uploaded) != len(assets) {
		return nil, apperr.ImageUploadErr.WithMsg(
			fmt.Sprintf("uploaded %d of %d images", len(uploaded), len(assets)))
	}

	return uploaded, nil
}
