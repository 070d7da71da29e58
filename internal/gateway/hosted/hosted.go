package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/minhtran-dev/storefront/internal/apperr"
	"github.com/minhtran-dev/storefront/internal/config"
	"github.com/minhtran-dev/storefront/internal/gateway"
)

var _ gateway.Uploader = (*Client)(nil)

// Client talks to an external image hosting service that accepts one
// multipart file per request and answers with
// {"success": true, "data": {"url": ..., "fileId": ...}}.
type Client struct {
	cfg        config.Upload
	httpClient *http.Client
}

func NewClient(cfg config.Upload) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.CallTimeout,
		},
	}
}

type uploadResponse struct {
	Success bool                 `json:"success"`
	Data    gateway.UploadResult `json:"data"`
	Error   string               `json:"error"`
}

func (c *Client) Upload(ctx context.Context, asset gateway.Asset) (gateway.UploadResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", asset.FileName)
	if err != nil {
		return gateway.UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, asset.Data); err != nil {
		return gateway.UploadResult{}, fmt.Errorf("copy asset data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return gateway.UploadResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, body)
	if err != nil {
		return gateway.UploadResult{}, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gateway.UploadResult{}, apperr.ImageUploadErr.WrapParent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gateway.UploadResult{}, apperr.ImageUploadErr.WrapParent(
			fmt.Errorf("gateway responded with status %d", resp.StatusCode))
	}

	var res uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return gateway.UploadResult{}, apperr.ImageUploadErr.WrapParent(
			fmt.Errorf("decode gateway response: %w", err))
	}

	if !res.Success {
		return gateway.UploadResult{}, apperr.ImageUploadErr.WrapParent(
			fmt.Errorf("gateway rejected asset %q: %s", asset.FileName, res.Error))
	}

	return res.Data, nil
}
