package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lesotho-epassport/backend/internal/config"
)

// SupabaseClient talks to the Supabase Storage REST API. The service key
// grants write access to the bucket; reads go through public URLs, so no
// signed-URL machinery is needed.
type SupabaseClient struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseClient creates a storage client for the configured bucket
func NewSupabaseClient(cfg config.StorageConfig) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// errorResponse is the shape of a Supabase storage error body
type errorResponse struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Upload writes data under objectName and returns the blob's public URL.
// A 409 from the API means the name is taken and maps to ErrObjectExists;
// the caller decides whether to retry under a different name.
func (c *SupabaseClient) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return "", ErrObjectExists
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("storage upload failed (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("storage upload failed (%d)", resp.StatusCode)
	}

	publicURL := c.PublicURL(objectName)
	if publicURL == "" {
		return "", ErrPublicURLUnavailable
	}
	return publicURL, nil
}

// PublicURL returns the public read URL for an object name
func (c *SupabaseClient) PublicURL(objectName string) string {
	if c.baseURL == "" || objectName == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectName)
}

// removeRequest is the body of a bulk delete call
type removeRequest struct {
	Prefixes []string `json:"prefixes"`
}

// Remove deletes the named objects from the bucket
func (c *SupabaseClient) Remove(ctx context.Context, objectNames []string) error {
	if len(objectNames) == 0 {
		return nil
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, c.bucket)
	body, err := json.Marshal(removeRequest{Prefixes: objectNames})
	if err != nil {
		return fmt.Errorf("encode remove request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build remove request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remove request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storage remove failed (%d)", resp.StatusCode)
	}
	return nil
}
