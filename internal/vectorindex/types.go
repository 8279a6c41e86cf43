// Package vectorindex provides a client for the hosted vector index
// holding paper embeddings and metadata.
package vectorindex

import "context"

// Metadata is the paper metadata stored alongside a vector. Absent
// fields unmarshal to zero values; callers tolerate partial metadata.
type Metadata struct {
	Title      string   `json:"title,omitempty"`
	Abstract   string   `json:"abstract,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Published  string   `json:"published,omitempty"`
	Updated    string   `json:"updated,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
}

// Vector is a stored vector with its id and metadata.
type Vector struct {
	ID       string    `json:"id"`
	Values   []float32 `json:"values"`
	Metadata Metadata  `json:"metadata"`
}

// Match is a nearest-neighbor query result. Higher scores are more
// similar.
type Match struct {
	ID       string    `json:"id"`
	Score    float64   `json:"score"`
	Metadata Metadata  `json:"metadata"`
	Values   []float32 `json:"values,omitempty"`
}

// Client is the interface to the vector index.
type Client interface {
	// Query returns the topK nearest neighbors of vector, most similar
	// first. Metadata is attached when withMetadata is set; raw vector
	// values are never returned by Query.
	Query(ctx context.Context, vector []float32, topK int, withMetadata bool) ([]Match, error)

	// GetByID fetches a stored vector with its values and metadata.
	// Returns ErrNotFound if the id is not in the index.
	GetByID(ctx context.Context, id string) (*Vector, error)

	// Upsert inserts or replaces vectors, returning the number written.
	Upsert(ctx context.Context, vectors []Vector) (int, error)
}
