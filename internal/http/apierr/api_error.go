package apierr

import (
	"errors"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/minhtran-dev/storefront/internal/workflow"
	"github.com/minhtran-dev/storefront/pkg/validator"
	"github.com/minhtran-dev/storefront/pkg/zerror"
)

// FieldError describes a single violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope for the API.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`

	// Details lists the violated fields on validation failures.
	Details []FieldError `json:"details,omitempty"`

	// Stage names the creation workflow stage that aborted, when the
	// error came out of a form submission.
	Stage string `json:"stage,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

var InternalServerErr = ErrorResponse{
	Code:       "internalServerError",
	Error:      "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

func New(err error) ErrorResponse {
	var stageErr *workflow.StageError
	if errors.As(err, &stageErr) {
		res := errorToErrorResponse(stageErr.Err)
		res.Stage = stageErr.Stage.String()
		return res
	}

	return errorToErrorResponse(err)
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return ErrorResponse{
			Code:       zErr.Code(),
			Error:      zErr.Msg(),
			Details:    fieldErrors(zErr.Parent()),
			StatusCode: zErrorStatusToHTTPStatus(zErr.Status()),
		}
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ErrorResponse{
			Code:       "validationError",
			Error:      "validation error",
			Details:    fieldErrors(err),
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

func fieldErrors(err error) []FieldError {
	var validationErrs govalidator.ValidationErrors
	if err == nil || !errors.As(err, &validationErrs) {
		return nil
	}

	details := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		details[i] = FieldError{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		}
	}
	return details
}

func zErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusBadRequest, zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
