package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/verixiv/verixiv/internal/extraction"
	"github.com/verixiv/verixiv/internal/scoring"
	"github.com/verixiv/verixiv/internal/similarity"
)

// fakeExtractor returns canned text or an error, counting calls.
type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractByID(ctx context.Context, paperID string) (*extraction.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &extraction.Result{
		PaperID: paperID,
		Status:  "processed",
		Text:    f.text,
	}, nil
}

// fakeSearcher returns canned candidates.
type fakeSearcher struct {
	matches []similarity.Match
	err     error
	lastK   int
}

func (f *fakeSearcher) Search(ctx context.Context, text string, k int) ([]similarity.Match, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	matches := f.matches
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// fakeScorer scores papers, failing the ids in failIDs. Calls are
// recorded for fan-out assertions.
type fakeScorer struct {
	mu      sync.Mutex
	failIDs map[string]bool
	calls   []string
	score   float64
}

func (f *fakeScorer) Score(ctx context.Context, paperID, pdfURL string) (*scoring.Scorecard, error) {
	f.mu.Lock()
	f.calls = append(f.calls, paperID)
	f.mu.Unlock()

	if f.failIDs[paperID] {
		return nil, errors.New("grading failed")
	}
	return &scoring.Scorecard{
		PaperID: paperID,
		Rubric: map[string]string{
			scoring.DimensionDataDownload: scoring.GradeComplete,
			scoring.DimensionLinkToCode:   scoring.GradeNotPresent,
		},
		Score: f.score,
	}, nil
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func makeCandidates(n int) []similarity.Match {
	matches := make([]similarity.Match, n)
	for i := range matches {
		id := fmt.Sprintf("arxiv:2103.%05d", i+1)
		matches[i] = similarity.Match{
			ID:         id,
			Similarity: 1.0 - float64(i)*0.05,
		}
		matches[i].Paper.ID = id
		matches[i].Paper.Title = fmt.Sprintf("Paper %d", i+1)
	}
	return matches
}

func newTestOrchestrator(extractor *fakeExtractor, searcher *fakeSearcher, scorer *fakeScorer) *Orchestrator {
	return New(extractor, searcher, scorer)
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxTokens int
		want      string
	}{
		{
			name:      "short text unchanged",
			text:      "a b c",
			maxTokens: 400,
			want:      "a b c",
		},
		{
			name:      "truncates to max tokens",
			text:      "one two three four five",
			maxTokens: 3,
			want:      "one two three",
		},
		{
			name:      "collapses whitespace",
			text:      "one\n\ntwo\t three ",
			maxTokens: 400,
			want:      "one two three",
		},
		{
			name:      "empty text",
			text:      "",
			maxTokens: 400,
			want:      "",
		},
		{
			name:      "whitespace only",
			text:      " \n\t ",
			maxTokens: 400,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.text, tt.maxTokens); got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExcerpt_BoundsLongText(t *testing.T) {
	long := strings.Repeat("token ", 1000)
	got := Excerpt(long, ExcerptTokens)
	if n := len(strings.Fields(got)); n != ExcerptTokens {
		t.Errorf("excerpt has %d tokens, want %d", n, ExcerptTokens)
	}
}

func TestRun_WithPaperText(t *testing.T) {
	extractor := &fakeExtractor{}
	searcher := &fakeSearcher{matches: makeCandidates(5)}
	scorer := &fakeScorer{score: 0.8}
	orch := newTestOrchestrator(extractor, searcher, scorer)

	result, err := orch.Run(context.Background(), Input{PaperText: "some paper text"}, 5)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if extractor.calls != 0 {
		t.Errorf("extractor calls = %d, want 0 when text is supplied", extractor.calls)
	}
	if result.Source != "uploaded" {
		t.Errorf("source = %q, want uploaded", result.Source)
	}
	if result.TotalCandidates != 5 || result.TotalAnalyzed != 5 {
		t.Errorf("counts = %d/%d, want 5/5", result.TotalAnalyzed, result.TotalCandidates)
	}
	if len(result.Papers) != 5 {
		t.Fatalf("len(papers) = %d, want 5", len(result.Papers))
	}
	if result.Papers[0].Score != 80 {
		t.Errorf("display score = %d, want 80", result.Papers[0].Score)
	}
	if !result.Papers[0].DataAvailable {
		t.Error("dataAvailable should be true for Complete grade")
	}
	if result.Papers[0].CodeAvailable {
		t.Error("codeAvailable should be false for Not Present grade")
	}
}

func TestRun_WithPaperID(t *testing.T) {
	extractor := &fakeExtractor{text: "extracted paper text"}
	searcher := &fakeSearcher{matches: makeCandidates(3)}
	scorer := &fakeScorer{score: 0.5}
	orch := newTestOrchestrator(extractor, searcher, scorer)

	result, err := orch.Run(context.Background(), Input{PaperID: "2103.12345"}, 3)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if extractor.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", extractor.calls)
	}
	if result.Source != "2103.12345" {
		t.Errorf("source = %q, want paper id", result.Source)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	orch := newTestOrchestrator(&fakeExtractor{}, &fakeSearcher{}, &fakeScorer{})

	_, err := orch.Run(context.Background(), Input{}, 5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestRun_ExtractionFailure_NoScoringAttempted(t *testing.T) {
	extractor := &fakeExtractor{err: &extraction.APIError{StatusCode: 500, Message: "download failed", PaperID: "2103.12345"}}
	scorer := &fakeScorer{}
	orch := newTestOrchestrator(extractor, &fakeSearcher{matches: makeCandidates(5)}, scorer)

	_, err := orch.Run(context.Background(), Input{PaperID: "2103.12345"}, 5)

	var apiErr *extraction.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *extraction.APIError", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("upstream status = %d, want 500", apiErr.StatusCode)
	}
	if scorer.callCount() != 0 {
		t.Errorf("scoring calls = %d, want 0 after extraction failure", scorer.callCount())
	}
}

func TestRun_EmptyContent(t *testing.T) {
	extractor := &fakeExtractor{text: " \n\t "}
	orch := newTestOrchestrator(extractor, &fakeSearcher{}, &fakeScorer{})

	_, err := orch.Run(context.Background(), Input{PaperID: "2103.12345"}, 5)
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("error = %v, want ErrEmptyContent", err)
	}
}

func TestRun_NoCandidates(t *testing.T) {
	orch := newTestOrchestrator(&fakeExtractor{}, &fakeSearcher{}, &fakeScorer{})

	_, err := orch.Run(context.Background(), Input{PaperText: "text"}, 5)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("error = %v, want ErrNoCandidates", err)
	}
}

func TestRun_PartialScoringFailure(t *testing.T) {
	searcher := &fakeSearcher{matches: makeCandidates(5)}
	scorer := &fakeScorer{
		score: 0.6,
		failIDs: map[string]bool{
			"2103.00002": true,
			"2103.00004": true,
		},
	}
	orch := newTestOrchestrator(&fakeExtractor{}, searcher, scorer)

	result, err := orch.Run(context.Background(), Input{PaperText: "text"}, 5)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.TotalCandidates != 5 {
		t.Errorf("totalCandidates = %d, want 5", result.TotalCandidates)
	}
	if result.TotalAnalyzed != 3 {
		t.Errorf("totalAnalyzed = %d, want 3", result.TotalAnalyzed)
	}
	if len(result.Papers) != 3 {
		t.Fatalf("len(papers) = %d, want 3", len(result.Papers))
	}

	// Survivors keep their similarity rank and carry scorecards.
	wantIDs := []string{"arxiv:2103.00001", "arxiv:2103.00003", "arxiv:2103.00005"}
	for i, p := range result.Papers {
		if p.ID != wantIDs[i] {
			t.Errorf("papers[%d].ID = %s, want %s", i, p.ID, wantIDs[i])
		}
		if p.Rubric == nil {
			t.Errorf("papers[%d] missing rubric", i)
		}
	}
	for i := 1; i < len(result.Papers); i++ {
		if result.Papers[i].Similarity > result.Papers[i-1].Similarity {
			t.Errorf("papers out of similarity order at %d", i)
		}
	}
}

func TestRun_AllScoringFailed(t *testing.T) {
	searcher := &fakeSearcher{matches: makeCandidates(5)}
	scorer := &fakeScorer{failIDs: map[string]bool{
		"2103.00001": true,
		"2103.00002": true,
		"2103.00003": true,
		"2103.00004": true,
		"2103.00005": true,
	}}
	orch := newTestOrchestrator(&fakeExtractor{}, searcher, scorer)

	_, err := orch.Run(context.Background(), Input{PaperText: "text"}, 5)
	if !errors.Is(err, ErrAllScoringFailed) {
		t.Fatalf("error = %v, want ErrAllScoringFailed", err)
	}
}

func TestRun_ScoresWithBareIDs(t *testing.T) {
	searcher := &fakeSearcher{matches: makeCandidates(2)}
	scorer := &fakeScorer{score: 0.5}
	orch := newTestOrchestrator(&fakeExtractor{}, searcher, scorer)

	if _, err := orch.Run(context.Background(), Input{PaperText: "text"}, 2); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	scorer.mu.Lock()
	defer scorer.mu.Unlock()
	for _, id := range scorer.calls {
		if strings.HasPrefix(id, "arxiv:") {
			t.Errorf("scorer called with namespaced id %s, want bare id", id)
		}
	}
}

func TestRun_ClampsK(t *testing.T) {
	searcher := &fakeSearcher{matches: makeCandidates(20)}
	scorer := &fakeScorer{score: 0.5}
	orch := newTestOrchestrator(&fakeExtractor{}, searcher, scorer)

	result, err := orch.Run(context.Background(), Input{PaperText: "text"}, 100)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if searcher.lastK != MaxK {
		t.Errorf("search k = %d, want clamped to %d", searcher.lastK, MaxK)
	}
	if len(result.Papers) > MaxK {
		t.Errorf("len(papers) = %d, exceeds MaxK", len(result.Papers))
	}

	if _, err := orch.Run(context.Background(), Input{PaperText: "text"}, -1); err != nil {
		t.Fatalf("Run() error for negative k: %v", err)
	}
	if searcher.lastK != 1 {
		t.Errorf("search k = %d, want 1 for negative input", searcher.lastK)
	}
}
