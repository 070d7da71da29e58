package config

import "time"

// Upload configures the external image hosting gateway.
type Upload struct {
	// GatewayURL is the endpoint accepting one multipart file per request.
	GatewayURL string `env:"UPLOAD_GATEWAY_URL,required"`

	// CallTimeout bounds a single gateway call. Uploads are never retried.
	CallTimeout time.Duration `env:"UPLOAD_CALL_TIMEOUT" envDefault:"30s"`

	// MaxFileSize is the largest accepted image in bytes.
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" envDefault:"10485760"`
}
