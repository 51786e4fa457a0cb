// Package tagging is the upload service's client for the emotion service.
package tagging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Dispatcher triggers emotion tagging for an uploaded photo. The upload
// handler calls it fire-and-forget: one attempt, failures logged only.
type Dispatcher interface {
	TagPhoto(ctx context.Context, photoID int64, filePath string) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type tagRequest struct {
	PhotoID  int64  `json:"photo_id"`
	FilePath string `json:"file_path"`
}

func (c *Client) TagPhoto(ctx context.Context, photoID int64, filePath string) error {
	body, err := json.Marshal(tagRequest{PhotoID: photoID, FilePath: filePath})
	if err != nil {
		return fmt.Errorf("failed to marshal tag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tag-photo", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call emotion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emotion service returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
