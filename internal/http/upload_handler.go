package http

import (
	"log/slog"
	"net/http"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/gateway"
)

type uploadHandler struct {
	logger      *slog.Logger
	uploader    gateway.Uploader
	maxFileSize int64
}

func newUploadHandler(logger *slog.Logger, uploader gateway.Uploader, maxFileSize int64) *uploadHandler {
	return &uploadHandler{
		logger:      logger,
		uploader:    uploader,
		maxFileSize: maxFileSize,
	}
}

// uploadImage handles POST /upload: one binary file per call, forwarded to
// the image hosting gateway.
func (h *uploadHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	// allow 1 MB on top of the file for the form framing
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+(1<<20))

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeError(w, r, h.logger, apperr.ValidationErr.
			WithMsg("failed to parse multipart form").
			WrapParent(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.logger, apperr.ValidationErr.
			WithMsg("file: field is required").
			WrapParent(err))
		return
	}
	defer file.Close()

	result, err := h.uploader.Upload(r.Context(), gateway.Asset{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, h.logger, http.StatusOK, dataResponse{
		Success: true,
		Data:    result,
	})
}
