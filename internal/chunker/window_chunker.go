package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"studyrag/internal/domain"
)

// Unit selects what a chunk window is measured in.
type Unit string

const (
	UnitChar  Unit = "char"
	UnitToken Unit = "token"
)

// WindowChunker splits per-page document text into fixed-size windows
// with overlap. By default a window never crosses a page boundary so
// every chunk cites exactly one page; with spanPages enabled windows
// run over the whole document and record the page range they cover.
type WindowChunker struct {
	size      int
	overlap   int
	unit      Unit
	spanPages bool
}

// NewWindowChunker validates the chunking configuration. The size must
// exceed the overlap or windows would never advance.
func NewWindowChunker(size, overlap int, unit Unit, spanPages bool) (*WindowChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidInput, overlap)
	}
	if size <= overlap {
		return nil, fmt.Errorf("%w: chunk size %d must exceed overlap %d", domain.ErrInvalidInput, size, overlap)
	}
	switch unit {
	case "":
		unit = UnitChar
	case UnitChar, UnitToken:
	default:
		return nil, fmt.Errorf("%w: unknown chunk unit %q", domain.ErrInvalidInput, unit)
	}
	return &WindowChunker{size: size, overlap: overlap, unit: unit, spanPages: spanPages}, nil
}

// Chunk produces the ordered chunk sequence for one document. Pages
// that are empty after whitespace normalization are skipped; a document
// with nothing but empty pages yields no chunks and no error.
func (c *WindowChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	if document.ID == "" {
		return nil, fmt.Errorf("%w: document has no id", domain.ErrInvalidInput)
	}
	if c.spanPages {
		return c.chunkSpanning(document), nil
	}
	return c.chunkPerPage(document), nil
}

func (c *WindowChunker) chunkPerPage(document domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	idx := 0
	for i, page := range document.Pages {
		pageNo := i + 1
		text := normalizeWhitespace(page)
		if text == "" {
			continue
		}
		for j, w := range c.windows(text) {
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID(document.Source, pageNo, j+1),
				DocumentID: document.ID,
				Source:     document.Source,
				Page:       pageNo,
				EndPage:    pageNo,
				Text:       w,
				Index:      idx,
			})
			idx++
		}
	}
	return chunks
}

// chunkSpanning joins all pages into one atom stream so windows may
// straddle a page break; each chunk then records both boundary pages.
func (c *WindowChunker) chunkSpanning(document domain.Document) []domain.Chunk {
	atoms, pages := c.atoms(document)
	if len(atoms) == 0 {
		return nil
	}
	var chunks []domain.Chunk
	step := c.size - c.overlap
	idx := 0
	for start := 0; start < len(atoms); start += step {
		end := start + c.size
		if end > len(atoms) {
			end = len(atoms)
		}
		text := strings.TrimSpace(c.joinAtoms(atoms[start:end]))
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID(document.Source, pages[start], idx+1),
				DocumentID: document.ID,
				Source:     document.Source,
				Page:       pages[start],
				EndPage:    pages[end-1],
				Text:       text,
				Index:      idx,
			})
			idx++
		}
		if end == len(atoms) {
			break
		}
	}
	return chunks
}

// windows slices one page's normalized text into overlapping windows.
func (c *WindowChunker) windows(text string) []string {
	step := c.size - c.overlap
	var out []string
	if c.unit == UnitToken {
		toks := strings.Fields(text)
		for start := 0; start < len(toks); start += step {
			end := start + c.size
			if end > len(toks) {
				end = len(toks)
			}
			out = append(out, strings.Join(toks[start:end], " "))
			if end == len(toks) {
				break
			}
		}
		return out
	}
	runes := []rune(text)
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		w := strings.TrimSpace(string(runes[start:end]))
		if w != "" {
			out = append(out, w)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// atoms flattens a document into per-rune or per-token atoms, each
// tagged with the 1-based page it came from. Page joins count as part
// of the preceding page.
func (c *WindowChunker) atoms(document domain.Document) ([]string, []int) {
	var atoms []string
	var pages []int
	for i, page := range document.Pages {
		pageNo := i + 1
		text := normalizeWhitespace(page)
		if text == "" {
			continue
		}
		if len(atoms) > 0 && c.unit == UnitChar {
			atoms = append(atoms, " ")
			pages = append(pages, pages[len(pages)-1])
		}
		if c.unit == UnitToken {
			for _, tok := range strings.Fields(text) {
				atoms = append(atoms, tok)
				pages = append(pages, pageNo)
			}
			continue
		}
		for _, r := range text {
			atoms = append(atoms, string(r))
			pages = append(pages, pageNo)
		}
	}
	return atoms, pages
}

func (c *WindowChunker) joinAtoms(atoms []string) string {
	if c.unit == UnitToken {
		return strings.Join(atoms, " ")
	}
	return strings.Join(atoms, "")
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeIDRe   = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func chunkID(source string, page, seq int) string {
	safe := strings.ToLower(strings.Trim(unsafeIDRe.ReplaceAllString(source, "-"), "-"))
	return fmt.Sprintf("%s-p%d-c%03d", safe, page, seq)
}
