// Package extraction obtains plain text for papers, either from the
// remote extraction service by arXiv id or locally from uploaded PDFs.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout allows for PDF download and parsing upstream.
const DefaultTimeout = 2 * time.Minute

// Common errors returned by the extraction client.
var (
	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with extraction service")

	// ErrInvalidResponse indicates an unexpected extraction response.
	ErrInvalidResponse = errors.New("invalid response from extraction service")
)

// APIError represents a failure reported by the extraction service.
// The upstream status code is carried for transparency to callers.
type APIError struct {
	StatusCode int
	Message    string
	PaperID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("extraction error (status %d): %s (paper: %s)", e.StatusCode, e.Message, e.PaperID)
}

// Result is the extracted text for a paper.
type Result struct {
	PaperID    string `json:"paper_id"`
	PDFURL     string `json:"pdf_url,omitempty"`
	Status     string `json:"status"`
	Text       string `json:"text"`
	TextLength int    `json:"text_length"`
}

// Client extracts paper text by arXiv id.
type Client interface {
	// ExtractByID downloads and extracts the text of an arXiv paper.
	// The id is the bare arXiv id, without namespace prefix.
	ExtractByID(ctx context.Context, paperID string) (*Result, error)
}

// HTTPClient calls the remote extraction service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewHTTPClient creates an extraction client for the given base URL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractByID requests text extraction for an arXiv paper.
func (c *HTTPClient) ExtractByID(ctx context.Context, paperID string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"paper_id": paperID})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-arxiv", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errBody.Error, PaperID: paperID}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if result.Text == "" {
		return nil, fmt.Errorf("%w: empty text for %s", ErrInvalidResponse, paperID)
	}
	return &result, nil
}
