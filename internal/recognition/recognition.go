// Package recognition defines the boundary to the external receipt
// recognition service. The core never parses images itself; it hands the
// picture to a Provider and accepts whatever batch of item records comes
// back, whenever it comes back. An empty batch is a valid result.
package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tabsplit/internal/models"
)

// Provider produces the extracted line items for a receipt image.
type Provider interface {
	Recognize(ctx context.Context, image io.Reader) ([]models.ItemRecord, error)
}

// Client calls an external recognition HTTP service: the image bytes are
// posted as-is and the response is decoded as {"items": [...]}.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient creates a Client for the given service URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

type recognizeResponse struct {
	Items []models.ItemRecord `json:"items"`
}

// Recognize posts the image and returns the extracted records.
func (c *Client) Recognize(ctx context.Context, image io.Reader) ([]models.ItemRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, image)
	if err != nil {
		return nil, fmt.Errorf("build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call recognition service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition service returned status %d", resp.StatusCode)
	}

	var decoded recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode recognition response: %w", err)
	}
	return decoded.Items, nil
}

// Stub is the timed placeholder used when no recognition service is
// configured: it waits for the configured delay and returns a canned batch.
type Stub struct {
	Delay   time.Duration
	Records []models.ItemRecord
}

// Recognize ignores the image and returns a copy of the canned records
// after the delay, or earlier if the context is cancelled.
func (s *Stub) Recognize(ctx context.Context, image io.Reader) ([]models.ItemRecord, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return append([]models.ItemRecord(nil), s.Records...), nil
}

// DefaultStubRecords is the canned batch the stub serves out of the box.
var DefaultStubRecords = []models.ItemRecord{
	{Name: "Pad Thai", Price: 12.50, Quantity: 1},
	{Name: "Spring Rolls", Price: 6.25, Quantity: 2},
	{Name: "Iced Tea", Price: 3.00, Quantity: 3},
}
