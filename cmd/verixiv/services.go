package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/verixiv/verixiv/internal/config"
	"github.com/verixiv/verixiv/internal/embedding"
	"github.com/verixiv/verixiv/internal/extraction"
	"github.com/verixiv/verixiv/internal/pipeline"
	"github.com/verixiv/verixiv/internal/scorecache"
	"github.com/verixiv/verixiv/internal/scoring"
	"github.com/verixiv/verixiv/internal/similarity"
	"github.com/verixiv/verixiv/internal/vectorindex"
)

// services bundles the constructed collaborators for a command run.
type services struct {
	cfg          *config.Config
	provider     embedding.Provider
	index        vectorindex.Client
	search       *similarity.Service
	orchestrator *pipeline.Orchestrator
	cache        *scorecache.Store
}

// close releases resources held by the services.
func (s *services) close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// buildServices loads configuration and wires the client stack.
func buildServices() (*services, error) {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var providerOpts []embedding.WorkersOption
	if cfg.Embedding.APIToken != "" {
		providerOpts = append(providerOpts, embedding.WithAPIToken(cfg.Embedding.APIToken))
	}
	if cfg.Embedding.Model != "" {
		providerOpts = append(providerOpts, embedding.WithModel(cfg.Embedding.Model))
	}
	if cfg.Embedding.Dimensions > 0 {
		providerOpts = append(providerOpts, embedding.WithDimensions(cfg.Embedding.Dimensions))
	}
	provider := embedding.NewWorkersProvider(cfg.Embedding.URL, providerOpts...)

	var indexOpts []vectorindex.ClientOption
	if cfg.Index.APIToken != "" {
		indexOpts = append(indexOpts, vectorindex.WithAPIToken(cfg.Index.APIToken))
	}
	index := vectorindex.NewVectorizeClient(cfg.Index.URL, indexOpts...)

	var scorer scoring.Client = scoring.NewHTTPClient(cfg.Scoring.URL)
	var cache *scorecache.Store
	if cfg.CachePath != "" {
		cache, err = scorecache.Open(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening scorecard cache: %w", err)
		}
		scorer = scoring.NewCachedClient(scorer, cache)
	} else {
		log.Printf("scorecard cache disabled (no cache path configured)")
	}

	extractor := extraction.NewHTTPClient(cfg.Extraction.URL)
	search := similarity.NewService(provider, index)

	return &services{
		cfg:          cfg,
		provider:     provider,
		index:        index,
		search:       search,
		orchestrator: pipeline.New(extractor, search, scorer),
		cache:        cache,
	}, nil
}
