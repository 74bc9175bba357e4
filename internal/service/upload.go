package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/sumire/teltube/internal/domain"
)

// DefaultUploadFilename names uploads that arrive without a filename.
const DefaultUploadFilename = "video.mp4"

// MediaHost stores raw video bytes and reports where they can be played.
type MediaHost interface {
	Upload(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error)
}

// UploadService relays client uploads to the media host.
type UploadService struct {
	host MediaHost
}

// NewUploadService creates a new UploadService.
func NewUploadService(host MediaHost) *UploadService {
	return &UploadService{host: host}
}

// Upload decodes the base64 payload and forwards it to the media host.
// The payload is validated before any network call is made.
func (s *UploadService) Upload(ctx context.Context, fileBase64, filename string) (*domain.UploadResult, error) {
	if fileBase64 == "" {
		return nil, &domain.ValidationError{Field: "file", Message: "is required"}
	}

	data, err := decodeBase64(fileBase64)
	if err != nil {
		return nil, &domain.ValidationError{Field: "file", Message: "is not valid base64"}
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "is empty"}
	}

	if filename == "" {
		filename = DefaultUploadFilename
	}

	return s.host.Upload(ctx, filename, data)
}

// decodeBase64 accepts standard base64 with or without padding and ignores
// surrounding whitespace and line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
