package http

import (
	"log/slog"
	"net/http"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/gateway"
	"github.com/minhtran-dev/storefront/internal/workflow"
)

type submissionHandler struct {
	logger      *slog.Logger
	wf          *workflow.Workflow
	maxFileSize int64
}

func newSubmissionHandler(logger *slog.Logger, wf *workflow.Workflow, maxFileSize int64) *submissionHandler {
	return &submissionHandler{
		logger:      logger,
		wf:          wf,
		maxFileSize: maxFileSize,
	}
}

// createSubmission handles POST /products/submissions: a multipart product
// form with scalar fields plus any number of "images" files. It runs the
// whole creation workflow; an aborted submission reports its failing stage.
func (h *submissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeError(w, r, h.logger, apperr.ValidationErr.
			WithMsg("failed to parse multipart form").
			WrapParent(err))
		return
	}

	sub := workflow.Submission{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Stock:       r.FormValue("stock"),
		Category:    r.FormValue("category"),
		Sizes:       r.FormValue("sizes"),
		Colors:      r.FormValue("colors"),
		Featured:    r.FormValue("featured") == "true",
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				writeError(w, r, h.logger, apperr.ValidationErr.
					WithMsg("images: could not read uploaded file").
					WrapParent(err))
				return
			}
			defer file.Close()

			sub.Assets = append(sub.Assets, gateway.Asset{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        file,
			})
		}
	}

	product, err := h.wf.Run(r.Context(), sub)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, h.logger, http.StatusCreated, dataResponse{
		Success: true,
		Data:    product,
	})
}
