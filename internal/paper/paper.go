// Package paper defines the paper record model and arXiv identifier
// handling shared by the index, scoring, and pipeline layers.
package paper

import (
	"fmt"
	"regexp"
	"strings"
)

// Namespace is the prefix applied to arXiv identifiers when stored in
// the vector index, keeping them distinct from uploaded-document ids.
const Namespace = "arxiv:"

// UploadPrefix marks synthetic identifiers assigned to uploaded PDFs.
const UploadPrefix = "uploaded_"

// Record is the metadata stored alongside a paper's vector in the
// index. Records are immutable once upserted.
type Record struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Published  string   `json:"published,omitempty"`
	Updated    string   `json:"updated,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
}

// arXiv id patterns accepted from user input: abs/pdf URLs, bare ids,
// and the arxiv: prefix form.
var arxivPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)arxiv\.org/abs/(\d+\.\d+(?:v\d+)?)`),
	regexp.MustCompile(`(?i)arxiv\.org/pdf/(\d+\.\d+(?:v\d+)?)`),
	regexp.MustCompile(`^(\d{4}\.\d{4,5}(?:v\d+)?)$`),
	regexp.MustCompile(`(?i)arxiv:(\d+\.\d+(?:v\d+)?)`),
}

// ParseArxivID extracts a bare arXiv id from user input, which may be
// an abs/pdf URL, a bare id like "2103.12345v2", or an "arxiv:" form.
// Returns false if the input does not look like an arXiv reference.
func ParseArxivID(input string) (string, bool) {
	cleaned := strings.TrimSpace(input)
	for _, pat := range arxivPatterns {
		if m := pat.FindStringSubmatch(cleaned); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// NamespacedID returns the index-internal form of a bare arXiv id.
// Upload ids are already globally unique and pass through unchanged.
func NamespacedID(bare string) string {
	if strings.HasPrefix(bare, UploadPrefix) || strings.HasPrefix(bare, Namespace) {
		return bare
	}
	return Namespace + bare
}

// BareID strips the arXiv namespace prefix, yielding the identifier
// expected by external collaborators (scoring, extraction, arxiv.org).
func BareID(id string) string {
	return strings.TrimPrefix(id, Namespace)
}

// IsUploadID reports whether id names an uploaded document rather than
// an arXiv paper.
func IsUploadID(id string) bool {
	return strings.HasPrefix(id, UploadPrefix)
}

// PDFURL derives the arxiv.org PDF location for a paper id. Uploaded
// documents have no canonical source URL, so the empty string is
// returned for them.
func PDFURL(id string) string {
	bare := BareID(id)
	if bare == "" || IsUploadID(bare) {
		return ""
	}
	return fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", bare)
}

// SourceURL returns the stored PDF URL for a record, deriving one from
// the id when none was stored.
func (r Record) SourceURL() string {
	if r.PDFURL != "" {
		return r.PDFURL
	}
	return PDFURL(r.ID)
}

// Complete reports whether a record carries the fields required for
// indexing. Incomplete records are skipped by upsert, not rejected.
func (r Record) Complete() bool {
	return r.ID != "" && r.Title != "" && r.Abstract != ""
}

// EmbeddingText returns the text embedded for a record: title and
// abstract joined, matching the content used at query time.
func (r Record) EmbeddingText() string {
	return strings.TrimSpace(r.Title + "\n\n" + r.Abstract)
}
