package gateway

import (
	"context"
	"io"
)

// Asset is one binary image submitted for hosting.
type Asset struct {
	FileName    string
	ContentType string
	Data        io.Reader
}

// UploadResult identifies a hosted asset: its public URL and the opaque id
// assigned by the host.
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// Uploader is the image hosting contract. Each call is independent and
// at-most-once: a failed call is reported as-is, never retried, and any
// asset already hosted by an earlier call stays hosted.
type Uploader interface {
	Upload(ctx context.Context, asset Asset) (UploadResult, error)
}
