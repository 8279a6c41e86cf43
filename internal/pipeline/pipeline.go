// Package pipeline orchestrates the full analysis run: acquire paper
// text, find similar papers, score each candidate for reproducibility,
// and aggregate the survivors into a ranked result.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verixiv/verixiv/internal/extraction"
	"github.com/verixiv/verixiv/internal/paper"
	"github.com/verixiv/verixiv/internal/scoring"
	"github.com/verixiv/verixiv/internal/similarity"
)

const (
	// MaxK caps fan-out width, bounding worst-case latency and grading
	// cost per run.
	MaxK = 12

	// DefaultK is the fan-out width when the caller doesn't choose one.
	DefaultK = 5

	// ExcerptTokens is the number of leading whitespace-delimited
	// tokens kept from the paper text before embedding.
	ExcerptTokens = 400
)

// Input identifies the paper to analyze. Exactly one of PaperID (a
// bare arXiv id) or PaperText must be set; PaperText takes precedence
// when both are present.
type Input struct {
	PaperID   string
	PaperText string
}

// ScoredPaper is a similar paper merged with its reproducibility
// scorecard.
type ScoredPaper struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Authors       []string          `json:"authors"`
	Abstract      string            `json:"abstract,omitempty"`
	Categories    []string          `json:"categories,omitempty"`
	PDFURL        string            `json:"pdf_url,omitempty"`
	Similarity    float64           `json:"similarity"`
	Score         int               `json:"score"`
	DataAvailable bool              `json:"dataAvailable"`
	CodeAvailable bool              `json:"codeAvailable"`
	Rubric        map[string]string `json:"rubric,omitempty"`
	Assessment    string            `json:"assessment,omitempty"`
}

// Result is the aggregated outcome of a pipeline run. Papers preserve
// the similarity ranking of candidate discovery.
type Result struct {
	Source          string        `json:"source"`
	Timestamp       time.Time     `json:"timestamp"`
	TotalCandidates int           `json:"totalCandidates"`
	TotalAnalyzed   int           `json:"totalAnalyzed"`
	Papers          []ScoredPaper `json:"papers"`
}

// Searcher finds candidate papers for a query text. Satisfied by
// similarity.Service.
type Searcher interface {
	Search(ctx context.Context, text string, k int) ([]similarity.Match, error)
}

// Orchestrator runs the analysis pipeline.
type Orchestrator struct {
	extractor extraction.Client
	search    Searcher
	scorer    scoring.Client
}

// New creates an orchestrator from its collaborators.
func New(extractor extraction.Client, search Searcher, scorer scoring.Client) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		search:    search,
		scorer:    scorer,
	}
}

// Excerpt reduces text to its first maxTokens whitespace-delimited
// tokens, rejoined with single spaces. This bounds embedding input
// size.
func Excerpt(text string, maxTokens int) string {
	tokens := strings.Fields(text)
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}
	return strings.Join(tokens, " ")
}

// Run executes the pipeline: text acquisition, excerpting, candidate
// discovery, concurrent scoring, aggregation. Acquisition and
// discovery failures abort the run; per-candidate scoring failures are
// dropped, and the run fails only when no candidate could be scored.
func (o *Orchestrator) Run(ctx context.Context, in Input, k int) (*Result, error) {
	k = similarity.ClampK(k, MaxK)

	// Step A: text acquisition.
	text := in.PaperText
	source := "uploaded"
	if text == "" {
		if in.PaperID == "" {
			return nil, ErrInvalidInput
		}
		source = in.PaperID
		extracted, err := o.extractor.ExtractByID(ctx, in.PaperID)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", in.PaperID, err)
		}
		text = extracted.Text
	} else if in.PaperID != "" {
		source = in.PaperID
	}

	// Step B: excerpting.
	excerpt := Excerpt(text, ExcerptTokens)
	if excerpt == "" {
		return nil, ErrEmptyContent
	}

	// Step C: candidate discovery.
	candidates, err := o.search.Search(ctx, excerpt, k)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// Step D: fan-out scoring. Every candidate is scored concurrently;
	// a failure for one must not abort the others, so goroutines
	// record into their own slot and never return an error.
	cards := make([]*scoring.Scorecard, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, cand := range candidates {
		g.Go(func() error {
			bareID := paper.BareID(cand.ID)
			card, err := o.scorer.Score(gctx, bareID, cand.Paper.SourceURL())
			if err != nil {
				log.Printf("pipeline: scoring %s failed: %v", bareID, err)
				return nil
			}
			cards[i] = card
			return nil
		})
	}
	g.Wait()

	// Step E: aggregation. Candidates without a scorecard are dropped;
	// survivors keep their similarity rank.
	papers := make([]ScoredPaper, 0, len(candidates))
	for i, cand := range candidates {
		card := cards[i]
		if card == nil {
			continue
		}
		papers = append(papers, scoredPaper(cand, card))
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("%w: %d candidates attempted", ErrAllScoringFailed, len(candidates))
	}

	// Step F: result assembly.
	return &Result{
		Source:          source,
		Timestamp:       time.Now().UTC(),
		TotalCandidates: len(candidates),
		TotalAnalyzed:   len(papers),
		Papers:          papers,
	}, nil
}

// scoredPaper merges a candidate with its scorecard.
func scoredPaper(cand similarity.Match, card *scoring.Scorecard) ScoredPaper {
	return ScoredPaper{
		ID:            cand.ID,
		Title:         cand.Paper.Title,
		Authors:       cand.Paper.Authors,
		Abstract:      cand.Paper.Abstract,
		Categories:    cand.Paper.Categories,
		PDFURL:        cand.Paper.SourceURL(),
		Similarity:    cand.Similarity,
		Score:         card.DisplayScore(),
		DataAvailable: card.DataAvailable(),
		CodeAvailable: card.CodeAvailable(),
		Rubric:        card.Rubric,
		Assessment:    card.Assessment(),
	}
}
