// Package similarity finds papers related to a text or to an indexed
// paper by composing the embedding provider and the vector index.
package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/verixiv/verixiv/internal/embedding"
	"github.com/verixiv/verixiv/internal/paper"
	"github.com/verixiv/verixiv/internal/vectorindex"
)

// MaxK is the ceiling on requested neighbor count for direct search.
// It bounds index cost and response size.
const MaxK = 50

// Errors returned by similarity operations.
var (
	// ErrEmptyQuery indicates no query text was supplied.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrEmbedding indicates the embedding provider failed or returned
	// malformed output.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexQuery indicates the vector index failed or returned a
	// malformed response.
	ErrIndexQuery = errors.New("index query failed")

	// ErrNotFound indicates the requested paper is not in the index.
	ErrNotFound = errors.New("paper not in index")
)

// Match is a neighbor paper with its similarity score. Higher scores
// are more similar; results are ordered descending.
type Match struct {
	ID         string       `json:"id"`
	Similarity float64      `json:"similarity"`
	Paper      paper.Record `json:"paper"`
}

// Service performs similarity search against the vector index.
type Service struct {
	provider embedding.Provider
	index    vectorindex.Client
}

// NewService creates a similarity service from its two collaborators.
func NewService(provider embedding.Provider, index vectorindex.Client) *Service {
	return &Service{provider: provider, index: index}
}

// ClampK bounds k to [1, max]. Zero and negative values clamp to 1,
// never to an unconstrained query.
func ClampK(k, max int) int {
	if k < 1 {
		return 1
	}
	if k > max {
		return max
	}
	return k
}

// Search embeds text and returns its k nearest papers, most similar
// first. Partial metadata on a match is tolerated; a failed embedding
// or index call is not.
func (s *Service) Search(ctx context.Context, text string, k int) ([]Match, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	k = ClampK(k, MaxK)

	emb, err := s.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	raw, err := s.index.Query(ctx, emb.Vector, k, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexQuery, err)
	}

	matches := make([]Match, len(raw))
	for i, m := range raw {
		matches[i] = matchFromIndex(m)
	}
	return matches, nil
}

// SimilarToPaper returns the k papers most similar to an already
// indexed paper, excluding the paper itself. The id is the
// index-internal (namespaced) form.
func (s *Service) SimilarToPaper(ctx context.Context, id string, k int) ([]Match, error) {
	k = ClampK(k, MaxK)

	stored, err := s.index.GetByID(ctx, id)
	if err != nil {
		if vectorindex.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrIndexQuery, err)
	}

	// Query k+1 to leave room for the paper matching itself.
	raw, err := s.index.Query(ctx, stored.Values, k+1, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexQuery, err)
	}

	matches := make([]Match, 0, k)
	for _, m := range raw {
		if m.ID == id {
			continue
		}
		matches = append(matches, matchFromIndex(m))
		if len(matches) == k {
			break
		}
	}
	return matches, nil
}

// matchFromIndex converts an index match into a Match, defaulting
// absent metadata fields to empty values.
func matchFromIndex(m vectorindex.Match) Match {
	authors := m.Metadata.Authors
	if authors == nil {
		authors = []string{}
	}
	categories := m.Metadata.Categories
	if categories == nil {
		categories = []string{}
	}

	rec := paper.Record{
		ID:         m.ID,
		Title:      m.Metadata.Title,
		Abstract:   m.Metadata.Abstract,
		Authors:    authors,
		Categories: categories,
		Published:  m.Metadata.Published,
		Updated:    m.Metadata.Updated,
		PDFURL:     m.Metadata.PDFURL,
	}

	return Match{
		ID:         m.ID,
		Similarity: m.Score,
		Paper:      rec,
	}
}
