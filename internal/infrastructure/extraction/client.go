// Package extraction implements the HTTP client for the remote
// product-extraction service.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/leafletlens/client/internal/domain"
)

// Client handles communication with the extraction service
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new extraction service client. Extraction of a
// dense leaflet can take a while, so the timeout should be generous.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// Extract uploads the staged file and returns the decoded service
// response. The response is returned whether or not the service declared
// success; an error is returned only when no interpretable response was
// obtained (connectivity, timeout, undecodable body).
func (c *Client) Extract(ctx context.Context, file *domain.SelectedFile) (*domain.ExtractionResult, error) {
	log.Printf("[extraction] Uploading %q (%d bytes, %s)", file.Name, file.Size, file.MIMEType)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/upload", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[extraction] Upload request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrServiceUnreachable, err)
	}

	// The service reports failures as JSON bodies on 4xx/5xx statuses. A
	// decodable body is a server-reported outcome either way; only an
	// undecodable one counts as transport failure.
	var result domain.ExtractionResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		log.Printf("[extraction] Undecodable response (status %d): %v", resp.StatusCode, err)
		return nil, fmt.Errorf("%w: status %d: %v", domain.ErrServiceUnreachable, resp.StatusCode, err)
	}

	log.Printf("[extraction] Service response: success=%v products=%d total=%d",
		result.Success, len(result.Products), result.TotalProducts)
	return &result, nil
}

// FetchStored retrieves the collection left behind by a previous
// extraction, if any. domain.ErrNoProducts means there is nothing to show.
func (c *Client) FetchStored(ctx context.Context) ([]domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/products", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrServiceUnreachable, resp.StatusCode)
	}

	var stored domain.StoredProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}

	if len(stored.Products) == 0 {
		return nil, domain.ErrNoProducts
	}

	log.Printf("[extraction] Loaded %d stored products", len(stored.Products))
	return stored.Products, nil
}

// FetchProduct retrieves a single stored product by its zero-based id.
func (c *Client) FetchProduct(ctx context.Context, id int) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/product/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrIndexOutOfRange
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrServiceUnreachable, resp.StatusCode)
	}

	var detail domain.ProductDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	if detail.Product == nil {
		return nil, domain.ErrIndexOutOfRange
	}

	return detail.Product, nil
}
