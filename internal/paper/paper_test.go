package paper

import "testing"

func TestParseArxivID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "abs URL",
			input: "https://arxiv.org/abs/2103.12345",
			want:  "2103.12345",
			ok:    true,
		},
		{
			name:  "pdf URL",
			input: "https://arxiv.org/pdf/2103.12345v2",
			want:  "2103.12345v2",
			ok:    true,
		},
		{
			name:  "bare id",
			input: "2103.12345",
			want:  "2103.12345",
			ok:    true,
		},
		{
			name:  "bare id with version",
			input: "2510.02306v1",
			want:  "2510.02306v1",
			ok:    true,
		},
		{
			name:  "arxiv prefix",
			input: "arXiv:2103.12345",
			want:  "2103.12345",
			ok:    true,
		},
		{
			name:  "whitespace trimmed",
			input: "  2103.12345  ",
			want:  "2103.12345",
			ok:    true,
		},
		{
			name:  "not an arxiv reference",
			input: "https://example.com/paper.pdf",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseArxivID(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseArxivID(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseArxivID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNamespacedID(t *testing.T) {
	if got := NamespacedID("2103.12345"); got != "arxiv:2103.12345" {
		t.Errorf("NamespacedID = %q, want arxiv:2103.12345", got)
	}
	if got := NamespacedID("arxiv:2103.12345"); got != "arxiv:2103.12345" {
		t.Errorf("NamespacedID should not double-prefix, got %q", got)
	}
	if got := NamespacedID("uploaded_abc123def456"); got != "uploaded_abc123def456" {
		t.Errorf("upload ids must pass through, got %q", got)
	}
}

func TestBareID(t *testing.T) {
	if got := BareID("arxiv:2103.12345"); got != "2103.12345" {
		t.Errorf("BareID = %q, want 2103.12345", got)
	}
	if got := BareID("2103.12345"); got != "2103.12345" {
		t.Errorf("BareID on bare id = %q, want unchanged", got)
	}
	if got := BareID("uploaded_abc123def456"); got != "uploaded_abc123def456" {
		t.Errorf("BareID on upload id = %q, want unchanged", got)
	}
}

func TestPDFURL(t *testing.T) {
	want := "https://arxiv.org/pdf/2103.12345.pdf"
	if got := PDFURL("arxiv:2103.12345"); got != want {
		t.Errorf("PDFURL = %q, want %q", got, want)
	}
	if got := PDFURL("uploaded_abc123def456"); got != "" {
		t.Errorf("PDFURL for upload id = %q, want empty", got)
	}
}

func TestRecordSourceURL(t *testing.T) {
	stored := Record{ID: "arxiv:2103.12345", PDFURL: "https://example.org/a.pdf"}
	if got := stored.SourceURL(); got != "https://example.org/a.pdf" {
		t.Errorf("SourceURL = %q, want stored URL", got)
	}

	derived := Record{ID: "arxiv:2103.12345"}
	if got := derived.SourceURL(); got != "https://arxiv.org/pdf/2103.12345.pdf" {
		t.Errorf("SourceURL = %q, want derived URL", got)
	}
}

func TestRecordComplete(t *testing.T) {
	full := Record{ID: "arxiv:1", Title: "t", Abstract: "a"}
	if !full.Complete() {
		t.Error("record with id/title/abstract should be complete")
	}

	for _, r := range []Record{
		{Title: "t", Abstract: "a"},
		{ID: "arxiv:1", Abstract: "a"},
		{ID: "arxiv:1", Title: "t"},
	} {
		if r.Complete() {
			t.Errorf("record %+v should be incomplete", r)
		}
	}
}
