package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout allows for LLM grading latency on cache misses.
	DefaultTimeout = 3 * time.Minute

	// RateLimit bounds outbound scoring requests per second. Grading is
	// expensive upstream, so requests are paced conservatively.
	RateLimit = 5.0
)

// Common errors returned by the scoring client.
var (
	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with scoring service")

	// ErrInvalidResponse indicates an unexpected scoring response.
	ErrInvalidResponse = errors.New("invalid response from scoring service")
)

// APIError represents an error response from the scoring service.
type APIError struct {
	StatusCode int
	Message    string
	PaperID    string
}

func (e *APIError) Error() string {
	if e.PaperID != "" {
		return fmt.Sprintf("scoring error (status %d): %s (paper: %s)", e.StatusCode, e.Message, e.PaperID)
	}
	return fmt.Sprintf("scoring error (status %d): %s", e.StatusCode, e.Message)
}

// Client grades papers against the reproducibility rubric.
type Client interface {
	// Score grades the paper identified by its bare id, fetching the
	// document from pdfURL.
	Score(ctx context.Context, paperID, pdfURL string) (*Scorecard, error)
}

// HTTPClient is a rate-limited client for the grading service.
type HTTPClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
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

// NewHTTPClient creates a scoring client for the given base URL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// scoreRequest is the body for grading requests.
type scoreRequest struct {
	PaperID string `json:"paper_id"`
	PDFURL  string `json:"pdf_url"`
}

// Score grades a paper via the external service.
func (c *HTTPClient) Score(ctx context.Context, paperID, pdfURL string) (*Scorecard, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(scoreRequest{PaperID: paperID, PDFURL: pdfURL})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
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

	var card Scorecard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if card.Rubric == nil {
		return nil, fmt.Errorf("%w: missing graded_rubric", ErrInvalidResponse)
	}
	if card.PaperID == "" {
		card.PaperID = paperID
	}

	return &card, nil
}
