// Package mediahost talks to the Cloudflare Stream API.
package mediahost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sumire/teltube/internal/domain"
)

// DefaultBaseURL is the Cloudflare v4 API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

const uploadContentType = "video/mp4"

// Config identifies the Cloudflare account videos are uploaded to.
type Config struct {
	BaseURL   string
	AccountID string
	APIToken  string
	// Timeout bounds a single upload; zero leaves the client default.
	Timeout time.Duration
}

// CloudflareStream uploads videos to Cloudflare Stream.
type CloudflareStream struct {
	baseURL   string
	accountID string
	apiToken  string
	client    *http.Client
}

// NewCloudflareStream creates a client for the configured account.
func NewCloudflareStream(cfg Config) *CloudflareStream {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CloudflareStream{
		baseURL:   baseURL,
		accountID: cfg.AccountID,
		apiToken:  cfg.APIToken,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type streamResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Playback struct {
			HLS string `json:"hls"`
		} `json:"playback"`
		Thumbnail string  `json:"thumbnail"`
		Duration  float64 `json:"duration"`
	} `json:"result"`
}

// Upload posts the video as a multipart file and returns the playback URLs
// Cloudflare assigned to it.
func (c *CloudflareStream) Upload(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	body, contentType, err := multipartBody(filename, data)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts/%s/stream", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("upload to cloudflare: %w", ctx.Err())
		}
		return nil, &domain.UpstreamError{
			Message: "Failed to upload video to Cloudflare",
			Details: textDetails([]byte(err.Error())),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cloudflare response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Message: "Failed to upload video to Cloudflare",
			Details: textDetails(raw),
		}
	}

	var parsed streamResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &domain.UpstreamError{
			Message: "Cloudflare returned an unreadable response",
			Details: textDetails(raw),
		}
	}
	if !parsed.Success {
		return nil, &domain.UpstreamError{
			Message: "Cloudflare upload failed",
			Details: json.RawMessage(raw),
		}
	}

	return &domain.UploadResult{
		VideoURL:     parsed.Result.Playback.HLS,
		ThumbnailURL: parsed.Result.Thumbnail,
		Duration:     parsed.Result.Duration,
	}, nil
}

func multipartBody(filename string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", uploadContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// textDetails wraps a raw body as a JSON string.
func textDetails(raw []byte) json.RawMessage {
	encoded, err := json.Marshal(string(raw))
	if err != nil {
		return nil
	}
	return encoded
}
