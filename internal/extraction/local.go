package extraction

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/verixiv/verixiv/internal/paper"
)

// ExtractPDF extracts plain text from an uploaded PDF document.
// Pages that fail to parse are skipped; the document fails only when
// no page yields text.
func ExtractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in pdf (%d pages)", r.NumPage())
	}
	return text, nil
}

// UploadID derives a stable synthetic paper id for an uploaded
// document from its content hash.
func UploadID(data []byte) string {
	sum := md5.Sum(data)
	return paper.UploadPrefix + hex.EncodeToString(sum[:])[:12]
}
