package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/verixiv/verixiv/internal/extraction"
	"github.com/verixiv/verixiv/internal/paper"
	"github.com/verixiv/verixiv/internal/pipeline"
	"github.com/verixiv/verixiv/internal/similarity"
	"github.com/verixiv/verixiv/internal/vectorindex"
)

// maxUploadBytes bounds uploaded PDF size.
const maxUploadBytes = 50 << 20

// normalizePaperID converts caller-supplied paper references (arXiv
// URLs, bare ids, arxiv: forms, upload ids) to the index-internal id.
// Unrecognized input passes through for the index to reject.
func normalizePaperID(input string) string {
	if bare, ok := paper.ParseArxivID(input); ok {
		return paper.NamespacedID(bare)
	}
	return input
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]string{
			"embedding": "available",
			"index":     "available",
		},
	})
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil || *req.Text == "" {
		writeError(w, http.StatusBadRequest, "text parameter is required and must be a string")
		return
	}

	emb, err := s.provider.Embed(r.Context(), *req.Text)
	if err != nil {
		writeServiceError(w, similarity.ErrEmbedding)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"embedding":  emb.Vector,
		"dimensions": emb.Dimensions(),
		"model":      s.provider.ModelName(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
		TopK  int    `json:"topK"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopK == 0 {
		req.TopK = 10
	}

	results, err := s.search.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaperID string `json:"paperId"`
		TopK    int    `json:"topK"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaperID == "" {
		writeError(w, http.StatusBadRequest, "paperId parameter is required")
		return
	}
	if req.TopK == 0 {
		req.TopK = 10
	}

	matches, err := s.search.SimilarToPaper(r.Context(), normalizePaperID(req.PaperID), req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"similarPapers": matches,
		"count":         len(matches),
	})
}

// skippedRecord names an upsert record that was not indexed and why.
type skippedRecord struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Papers []paper.Record `json:"papers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Papers) == 0 {
		writeError(w, http.StatusBadRequest, "papers array is required")
		return
	}

	var vectors []vectorindex.Vector
	var skipped []skippedRecord
	for i, rec := range req.Papers {
		id := rec.ID
		if id == "" {
			id = "papers[" + strconv.Itoa(i) + "]"
		}
		if !rec.Complete() {
			skipped = append(skipped, skippedRecord{ID: id, Reason: "missing required fields"})
			continue
		}

		emb, err := s.provider.Embed(r.Context(), rec.EmbeddingText())
		if err != nil {
			skipped = append(skipped, skippedRecord{ID: id, Reason: "embedding failed"})
			continue
		}

		vectors = append(vectors, vectorindex.Vector{
			ID:     paper.NamespacedID(rec.ID),
			Values: emb.Vector,
			Metadata: vectorindex.Metadata{
				Title:      rec.Title,
				Abstract:   rec.Abstract,
				Authors:    rec.Authors,
				Categories: rec.Categories,
				Published:  rec.Published,
				Updated:    rec.Updated,
				PDFURL:     rec.SourceURL(),
			},
		})
	}

	if len(vectors) == 0 {
		writeError(w, http.StatusBadRequest, "no papers could be embedded")
		return
	}

	upserted, err := s.index.Upsert(r.Context(), vectors)
	if err != nil {
		writeServiceError(w, similarity.ErrIndexQuery)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"upserted":       upserted,
		"totalRequested": len(req.Papers),
		"skipped":        skippedSlice(skipped),
	})
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	stored, err := s.index.GetByID(r.Context(), normalizePaperID(id))
	if err != nil {
		if vectorindex.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "paper not found in index")
			return
		}
		writeServiceError(w, similarity.ErrIndexQuery)
		return
	}

	rec := paper.Record{
		ID:         stored.ID,
		Title:      stored.Metadata.Title,
		Abstract:   stored.Metadata.Abstract,
		Authors:    stored.Metadata.Authors,
		Categories: stored.Metadata.Categories,
		Published:  stored.Metadata.Published,
		Updated:    stored.Metadata.Updated,
		PDFURL:     stored.Metadata.PDFURL,
	}
	rec.PDFURL = rec.SourceURL()

	writeJSON(w, http.StatusOK, map[string]any{"paper": rec})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		TopK int    `json:"topK"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopK == 0 {
		req.TopK = 5
	}

	results, err := s.search.Search(r.Context(), req.Text, similarity.ClampK(req.TopK, MaxAnalyzeK))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// No scoring happens here; the response tells the caller how to
	// invoke the grading service for each candidate.
	type scoringHint struct {
		PaperID string `json:"paper_id"`
		PDFURL  string `json:"pdf_url"`
	}
	hints := make([]scoringHint, len(results))
	for i, m := range results {
		hints[i] = scoringHint{
			PaperID: paper.BareID(m.ID),
			PDFURL:  m.Paper.SourceURL(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"scoring": map[string]any{
			"endpoint":   "/score",
			"candidates": hints,
		},
	})
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaperID   string `json:"paperId"`
		PaperText string `json:"paperText"`
		K         int    `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.K == 0 {
		req.K = pipeline.DefaultK
	}

	paperID := req.PaperID
	if paperID != "" {
		if bare, ok := paper.ParseArxivID(paperID); ok {
			paperID = bare
		}
	}

	result, err := s.orchestrator.Run(r.Context(), pipeline.Input{
		PaperID:   paperID,
		PaperText: req.PaperText,
	}, req.K)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	text, err := extraction.ExtractPDF(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to process PDF")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"paper_id":    extraction.UploadID(data),
		"filename":    header.Filename,
		"status":      "processed",
		"text":        text,
		"text_length": len(text),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// skippedSlice keeps the skipped field an empty array rather than null.
func skippedSlice(s []skippedRecord) []skippedRecord {
	if s == nil {
		return []skippedRecord{}
	}
	return s
}
