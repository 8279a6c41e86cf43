package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultModel is the default embedding model.
	DefaultModel = "@cf/baai/bge-base-en-v1.5"

	// DefaultDimensions is the expected output dimensions for bge-base.
	DefaultDimensions = 768

	// DefaultTimeout is the timeout for embedding requests.
	DefaultTimeout = 30 * time.Second
)

// ErrMalformedResponse indicates the provider returned output without
// a usable embedding array.
var ErrMalformedResponse = errors.New("malformed embedding response")

// WorkersProvider generates embeddings using the Cloudflare Workers AI
// REST API. The base URL is the account-scoped ai/run endpoint; the
// model name is appended as the final path segment.
type WorkersProvider struct {
	baseURL    string
	apiToken   string
	model      string
	dimensions int
	client     *http.Client
}

// WorkersOption configures a WorkersProvider.
type WorkersOption func(*WorkersProvider)

// WithBaseURL sets the Workers AI base URL.
func WithBaseURL(url string) WorkersOption {
	return func(p *WorkersProvider) {
		p.baseURL = url
	}
}

// WithAPIToken sets the bearer token for authenticated requests.
func WithAPIToken(token string) WorkersOption {
	return func(p *WorkersProvider) {
		p.apiToken = token
	}
}

// WithModel sets the embedding model.
func WithModel(model string) WorkersOption {
	return func(p *WorkersProvider) {
		p.model = model
	}
}

// WithDimensions sets the expected vector dimensions.
func WithDimensions(dims int) WorkersOption {
	return func(p *WorkersProvider) {
		p.dimensions = dims
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) WorkersOption {
	return func(p *WorkersProvider) {
		p.client = hc
	}
}

// NewWorkersProvider creates a new Workers AI embedding provider.
func NewWorkersProvider(baseURL string, opts ...WorkersOption) *WorkersProvider {
	p := &WorkersProvider{
		baseURL:    baseURL,
		model:      DefaultModel,
		dimensions: DefaultDimensions,
		client:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// workersEmbedRequest is the request body for the Workers AI embedding models.
type workersEmbedRequest struct {
	Text []string `json:"text"`
}

// workersEmbedResponse is the response from the Workers AI embedding models.
type workersEmbedResponse struct {
	Result struct {
		Data [][]float32 `json:"data"`
	} `json:"result"`
	Success bool `json:"success"`
}

// formatErrorBody reads and formats the response body for error messages.
func formatErrorBody(body io.Reader) string {
	respBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("(failed to read response body: %v)", err)
	}
	return string(respBody)
}

// Embed generates an embedding for the given text.
func (p *WorkersProvider) Embed(ctx context.Context, text string) (Embedding, error) {
	body, err := json.Marshal(workersEmbedRequest{Text: []string{text}})
	if err != nil {
		return Embedding{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/"+p.model, bytes.NewReader(body))
	if err != nil {
		return Embedding{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Embedding{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Embedding{}, fmt.Errorf("workers ai returned status %d: %s", resp.StatusCode, formatErrorBody(resp.Body))
	}

	var result workersEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Embedding{}, fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Result.Data) == 0 || len(result.Result.Data[0]) == 0 {
		return Embedding{}, ErrMalformedResponse
	}

	vector := result.Result.Data[0]
	if p.dimensions > 0 && len(vector) != p.dimensions {
		return Embedding{}, fmt.Errorf("%w: got %d dimensions, want %d", ErrMalformedResponse, len(vector), p.dimensions)
	}

	return Embedding{Vector: vector}, nil
}

// ModelName returns the name of the embedding model.
func (p *WorkersProvider) ModelName() string {
	return p.model
}

// Dimensions returns the expected vector dimensions.
func (p *WorkersProvider) Dimensions() int {
	return p.dimensions
}
