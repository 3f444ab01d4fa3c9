// Package extract turns source files into per-page document text. PDF
// pages are extracted with ledongthuc/pdf; plain .txt files become
// single-page documents. Extraction fidelity (symbol loss, layout
// loss) is accepted as-is; the retrieval core only needs the page
// text stream.
package extract

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"studyrag/internal/domain"
)

// Load expands globs and reads every .pdf and .txt file into a
// Document. Unsupported extensions are skipped silently so callers can
// pass directories' worth of mixed files.
func Load(paths []string) ([]domain.Document, error) {
	var documents []domain.Document
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			var (
				doc domain.Document
				err error
			)
			switch strings.ToLower(filepath.Ext(m)) {
			case ".pdf":
				doc, err = loadPDF(m)
			case ".txt":
				doc, err = loadText(m)
			default:
				continue
			}
			if err != nil {
				return nil, err
			}
			documents = append(documents, doc)
		}
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: no .pdf or .txt documents found", domain.ErrInvalidInput)
	}
	return documents, nil
}

func loadPDF(path string) (domain.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		// A page that fails extraction stays in the sequence as an
		// empty string so later pages keep their numbers.
		text, err := p.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, text)
	}
	return newDocument(path, pages), nil
}

func loadText(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return newDocument(path, []string{string(data)}), nil
}

func newDocument(path string, pages []string) domain.Document {
	return domain.Document{
		ID:     hashString(path),
		Source: filepath.Base(path),
		Pages:  pages,
	}
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
