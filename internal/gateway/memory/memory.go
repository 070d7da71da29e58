package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/minhtran-dev/storefront/internal/gateway"
)

var _ gateway.Uploader = (*Uploader)(nil)

// Uploader is an in-memory gateway for tests and local development. It
// records upload metadata only; no bytes are kept.
type Uploader struct {
	mu      sync.Mutex
	baseURL string
	uploads []gateway.UploadResult
}

func New(baseURL string) *Uploader {
	return &Uploader{baseURL: baseURL}
}

func (u *Uploader) Upload(_ context.Context, asset gateway.Asset) (gateway.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	fileID := uuid.New().String()
	result := gateway.UploadResult{
		URL:    fmt.Sprintf("%s/images/%s", u.baseURL, fileID),
		FileID: fileID,
	}
	u.uploads = append(u.uploads, result)

	return result, nil
}

// Uploads returns every asset hosted so far, in upload order.
func (u *Uploader) Uploads() []gateway.UploadResult {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]gateway.UploadResult(nil), u.uploads...)
}
