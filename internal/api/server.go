// Package api exposes the gateway's HTTP surface: embedding, search,
// paper lookup, upsert, upload, and the analysis pipeline.
package api

import (
	"net/http"

	"github.com/verixiv/verixiv/internal/embedding"
	"github.com/verixiv/verixiv/internal/pipeline"
	"github.com/verixiv/verixiv/internal/similarity"
	"github.com/verixiv/verixiv/internal/vectorindex"
)

// MaxAnalyzeK caps candidate counts for the analyze endpoint.
const MaxAnalyzeK = 20

// Server routes gateway requests to the underlying services. It holds
// no mutable state; every request's work is self-contained.
type Server struct {
	provider     embedding.Provider
	index        vectorindex.Client
	search       *similarity.Service
	orchestrator *pipeline.Orchestrator
}

// NewServer creates the gateway server.
func NewServer(provider embedding.Provider, index vectorindex.Client, search *similarity.Service, orchestrator *pipeline.Orchestrator) *Server {
	return &Server{
		provider:     provider,
		index:        index,
		search:       search,
		orchestrator: orchestrator,
	}
}

// Handler returns the routed HTTP handler with CORS and panic
// recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/embed", s.handleEmbed)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/similar", s.handleSimilar)
	mux.HandleFunc("POST /api/upsert", s.handleUpsert)
	mux.HandleFunc("GET /api/paper", s.handleGetPaper)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/pipeline", s.handlePipeline)
	mux.HandleFunc("POST /api/upload", s.handleUpload)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return withCORS(withRecovery(mux))
}
