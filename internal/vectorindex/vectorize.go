package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit bounds outbound index requests per second.
	RateLimit = 20.0
)

// VectorizeClient is a rate-limited HTTP client for a Vectorize-style
// index API. The base URL is the index endpoint; operations are posted
// to /query, /get_by_ids, and /upsert beneath it.
type VectorizeClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiToken   string
	baseURL    string
}

// ClientOption configures a VectorizeClient.
type ClientOption func(*VectorizeClient)

// WithAPIToken sets the bearer token for authenticated requests.
func WithAPIToken(token string) ClientOption {
	return func(c *VectorizeClient) {
		c.apiToken = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *VectorizeClient) {
		c.httpClient = hc
	}
}

// NewVectorizeClient creates a new index client for the given base URL.
func NewVectorizeClient(baseURL string, opts ...ClientOption) *VectorizeClient {
	c := &VectorizeClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// post sends a JSON body to the given path and decodes the response
// into out.
func (c *VectorizeClient) post(ctx context.Context, path string, body []byte, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// queryRequest is the body for nearest-neighbor queries.
type queryRequest struct {
	Vector         []float32 `json:"vector"`
	TopK           int       `json:"topK"`
	ReturnValues   bool      `json:"returnValues"`
	ReturnMetadata string    `json:"returnMetadata"`
}

// Query returns the topK nearest neighbors of vector.
func (c *VectorizeClient) Query(ctx context.Context, vector []float32, topK int, withMetadata bool) ([]Match, error) {
	returnMetadata := "none"
	if withMetadata {
		returnMetadata = "all"
	}

	body, err := json.Marshal(queryRequest{
		Vector:         vector,
		TopK:           topK,
		ReturnValues:   false,
		ReturnMetadata: returnMetadata,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	var result struct {
		Result struct {
			Matches []Match `json:"matches"`
		} `json:"result"`
	}
	if err := c.post(ctx, "/query", body, "application/json", &result); err != nil {
		return nil, err
	}

	if result.Result.Matches == nil {
		return nil, fmt.Errorf("%w: missing matches array", ErrInvalidResponse)
	}
	return result.Result.Matches, nil
}

// GetByID fetches a stored vector by id.
func (c *VectorizeClient) GetByID(ctx context.Context, id string) (*Vector, error) {
	body, err := json.Marshal(map[string][]string{"ids": {id}})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var result struct {
		Result []Vector `json:"result"`
	}
	if err := c.post(ctx, "/get_by_ids", body, "application/json", &result); err != nil {
		return nil, err
	}

	if len(result.Result) == 0 {
		return nil, ErrNotFound
	}
	return &result.Result[0], nil
}

// Upsert inserts or replaces vectors. The index expects NDJSON, one
// vector per line.
func (c *VectorizeClient) Upsert(ctx context.Context, vectors []Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, v := range vectors {
		if err := enc.Encode(v); err != nil {
			return 0, fmt.Errorf("encoding vector %s: %w", v.ID, err)
		}
	}

	var result struct {
		Result struct {
			MutationID string `json:"mutationId"`
		} `json:"result"`
	}
	if err := c.post(ctx, "/upsert", buf.Bytes(), "application/x-ndjson", &result); err != nil {
		return 0, err
	}

	return len(vectors), nil
}
