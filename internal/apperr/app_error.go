package apperr

import "github.com/minhtran-dev/storefront/pkg/zerror"

const (
	ValidationErrorCode   = "VALIDATION_FAILED"
	ProductNotFoundCode   = "PRODUCT_NOT_FOUND"
	ImageUploadFailedCode = "IMAGE_UPLOAD_FAILED"
	StoreUnavailableCode  = "STORE_UNAVAILABLE"
)

var (
	// ValidationErr rejects a candidate product that violates a field
	// constraint. User-correctable.
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// ProductNotFoundErr is returned when no product matches the given id.
	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")

	// ImageUploadErr means the image hosting gateway was unavailable or
	// rejected the asset. Aborts product creation.
	ImageUploadErr = zerror.NewBadGateway(ImageUploadFailedCode, "image upload failed")

	// StoreUnavailableErr means the product store could not be reached.
	// Not user-correctable and never retried automatically.
	StoreUnavailableErr = zerror.NewInternalServerError(StoreUnavailableCode, "product store unavailable")
)
