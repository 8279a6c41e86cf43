package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/verixiv/verixiv/internal/scorecache"
)

// CachedClient wraps a Client with a local scorecard cache. Grading is
// slow and costs upstream tokens, so hits skip the service entirely.
type CachedClient struct {
	inner Client
	store *scorecache.Store
}

// NewCachedClient creates a caching wrapper around inner.
func NewCachedClient(inner Client, store *scorecache.Store) *CachedClient {
	return &CachedClient{inner: inner, store: store}
}

// Score returns the cached scorecard for paperID when present,
// otherwise grades via the wrapped client and caches the result.
// Cache write failures are logged, not surfaced: a scored paper beats
// a cached one.
func (c *CachedClient) Score(ctx context.Context, paperID, pdfURL string) (*Scorecard, error) {
	if payload, err := c.store.Get(paperID); err == nil {
		var card Scorecard
		if err := json.Unmarshal(payload, &card); err == nil {
			return &card, nil
		}
		log.Printf("scoring cache: discarding corrupt entry for %s", paperID)
	} else if !errors.Is(err, scorecache.ErrMiss) {
		log.Printf("scoring cache: read failed for %s: %v", paperID, err)
	}

	card, err := c.inner.Score(ctx, paperID, pdfURL)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(card); err == nil {
		if err := c.store.Put(paperID, payload); err != nil {
			log.Printf("scoring cache: write failed for %s: %v", paperID, err)
		}
	}

	return card, nil
}
