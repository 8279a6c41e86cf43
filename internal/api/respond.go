package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/verixiv/verixiv/internal/extraction"
	"github.com/verixiv/verixiv/internal/pipeline"
	"github.com/verixiv/verixiv/internal/similarity"
)

// ErrorResponse is the body returned on every failure path.
type ErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encoding response: %v", err)
	}
}

// writeError writes a JSON error body. Internal detail stays in the
// server log; only the given message reaches the caller.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps a similarity/pipeline/extraction error to its
// HTTP status. Unrecognized errors become a generic 502 so upstream
// internals never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	var extractionErr *extraction.APIError

	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, pipeline.ErrInvalidInput.Error())
	case errors.Is(err, pipeline.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, pipeline.ErrEmptyContent.Error())
	case errors.Is(err, similarity.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, similarity.ErrEmptyQuery.Error())
	case errors.Is(err, pipeline.ErrNoCandidates):
		writeError(w, http.StatusNotFound, pipeline.ErrNoCandidates.Error())
	case errors.Is(err, similarity.ErrNotFound):
		writeError(w, http.StatusNotFound, "paper not found in index")
	case errors.As(err, &extractionErr):
		log.Printf("api: extraction failed: %v", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:          "text extraction failed: " + extractionErr.Message,
			UpstreamStatus: extractionErr.StatusCode,
		})
	case errors.Is(err, pipeline.ErrAllScoringFailed):
		log.Printf("api: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, similarity.ErrEmbedding):
		log.Printf("api: %v", err)
		writeError(w, http.StatusBadGateway, "embedding service unavailable")
	case errors.Is(err, similarity.ErrIndexQuery):
		log.Printf("api: %v", err)
		writeError(w, http.StatusBadGateway, "vector index unavailable")
	default:
		log.Printf("api: unexpected error: %v", err)
		writeError(w, http.StatusBadGateway, "upstream service error")
	}
}
