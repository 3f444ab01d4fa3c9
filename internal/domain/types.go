package domain

import "fmt"

// Method identifies which retrieval strategy produced a score.
type Method string

const (
	MethodSparse Method = "sparse"
	MethodDense  Method = "dense"
	// MethodAuto asks the retriever to pick dense when available,
	// sparse otherwise.
	MethodAuto Method = "auto"
)

// Document is a single source file loaded into the system, split into
// ordered per-page texts by the extraction layer.
type Document struct {
	ID     string
	Source string
	Pages  []string
}

// Chunk is a bounded span of normalized page text, the atomic unit of
// retrieval and citation. EndPage equals Page unless the chunker was
// configured to let windows cross page boundaries.
type Chunk struct {
	ID         string
	DocumentID string
	Source     string
	Page       int
	EndPage    int
	Text       string
	Index      int
}

// ScoredChunk pairs a chunk with its relevance score and the method
// that actually produced it.
type ScoredChunk struct {
	Chunk  Chunk
	Score  float64
	Method Method
}

// Citation points a piece of evidence back to its source document and page.
type Citation struct {
	ChunkID string
	Source  string
	Page    int
	EndPage int
	Text    string
	Score   float64
	Method  Method
}

// Label renders the citation in the bracketed form shown to the user,
// e.g. [notes.pdf • p.3 • notes-pdf-p3-c002].
func (c Citation) Label() string {
	if c.EndPage > c.Page {
		return fmt.Sprintf("[%s • p.%d–%d • %s]", c.Source, c.Page, c.EndPage, c.ChunkID)
	}
	return fmt.Sprintf("[%s • p.%d • %s]", c.Source, c.Page, c.ChunkID)
}

// KeyPoint is one extracted evidence sentence with its citation.
type KeyPoint struct {
	Sentence string
	Citation Citation
}

// Answer is the composed, citation-annotated response for one query.
// When EvidenceFound is false no chunk cleared the relevance threshold
// and Citations and KeyPoints are empty.
type Answer struct {
	Query         string
	Method        Method
	Citations     []Citation
	KeyPoints     []KeyPoint
	EvidenceFound bool
}

// Stats describes the currently indexed corpus.
type Stats struct {
	Documents int
	Chunks    int
	ChunkSize int
	Overlap   int
}
