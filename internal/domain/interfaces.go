package domain

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Scorer rates every indexed chunk against a query. Implementations are
// fitted over the chunk corpus once at build time; Ready reports whether
// fitting succeeded, so the retriever can fall back without relying on
// errors for control flow.
type Scorer interface {
	Name() string
	Method() Method
	Fit(chunks []Chunk) error
	Ready() bool
	// Scores returns one score per corpus chunk, aligned with the
	// chunk slice the scorer was fitted on.
	Scores(query string) ([]float64, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// StudyService defines the operations exposed by the application core.
type StudyService interface {
	IngestFiles(paths []string) (summary string, err error)
	Ingest(documents []Document) (summary string, err error)
	RetrieveAndCompose(query string, method Method, k int, minScore float64) (Answer, error)
	Stats() Stats
	Documents() []string
	DocumentChunks(source string) []Chunk
}
