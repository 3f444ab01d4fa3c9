package service

import (
	"fmt"
	"strings"
	"sync/atomic"

	"studyrag/internal/composer"
	"studyrag/internal/domain"
	"studyrag/internal/extract"
	"studyrag/internal/index"
	"studyrag/internal/retriever"
)

// StudyServiceImpl wires chunking, corpus building, retrieval and
// answer composition together. The active corpus is held behind an
// atomic pointer: re-ingestion builds a complete new corpus and swaps
// the reference, so a query in flight reads either the fully old or
// fully new snapshot, never a mix.
type StudyServiceImpl struct {
	chunker             domain.Chunker
	newSparse           func() domain.Scorer
	newDense            func() domain.Scorer
	composer            *composer.Composer
	summarizer          domain.Summarizer
	summaryMaxSentences int
	chunkSize           int
	overlap             int

	corpus atomic.Pointer[index.Corpus]
}

// NewStudyService builds the service. The scorer arguments are
// factories because scorers carry per-corpus fitted state; every
// ingestion gets fresh instances.
func NewStudyService(chunker domain.Chunker, newSparse, newDense func() domain.Scorer, comp *composer.Composer, summarizer domain.Summarizer, summaryMaxSentences, chunkSize, overlap int) *StudyServiceImpl {
	return &StudyServiceImpl{
		chunker:             chunker,
		newSparse:           newSparse,
		newDense:            newDense,
		composer:            comp,
		summarizer:          summarizer,
		summaryMaxSentences: summaryMaxSentences,
		chunkSize:           chunkSize,
		overlap:             overlap,
	}
}

// IngestFiles extracts the given .pdf/.txt paths and ingests them.
func (s *StudyServiceImpl) IngestFiles(paths []string) (string, error) {
	documents, err := extract.Load(paths)
	if err != nil {
		return "", err
	}
	return s.Ingest(documents)
}

// Ingest builds a fresh corpus from the documents, swaps it in as the
// active snapshot and returns a short overview summary of the texts.
func (s *StudyServiceImpl) Ingest(documents []domain.Document) (string, error) {
	corpus, err := index.Build(documents, s.chunker, s.newSparse(), s.newDense())
	if err != nil {
		return "", fmt.Errorf("building corpus: %w", err)
	}
	s.corpus.Store(corpus)

	var all strings.Builder
	for _, d := range documents {
		for _, page := range d.Pages {
			all.WriteString(page)
			all.WriteString("\n")
		}
	}
	summary, err := s.summarizer.Summarize(all.String(), s.summaryMaxSentences)
	if err != nil {
		return "", fmt.Errorf("summarizing corpus: %w", err)
	}
	return summary, nil
}

// RetrieveAndCompose runs one query end to end: rank chunks with the
// requested method (falling back per the retriever's policy) and
// compose the citation-annotated answer. minScore filters which
// results count as evidence.
func (s *StudyServiceImpl) RetrieveAndCompose(query string, method domain.Method, k int, minScore float64) (domain.Answer, error) {
	corpus := s.corpus.Load()
	if corpus == nil {
		return domain.Answer{}, fmt.Errorf("%w: nothing ingested yet", domain.ErrEmptyCorpus)
	}
	results, err := retriever.Retrieve(corpus, query, method, k)
	if err != nil {
		return domain.Answer{}, err
	}
	return s.composer.Compose(query, results, minScore), nil
}

// Stats describes the active corpus. Zero values mean nothing has been
// ingested.
func (s *StudyServiceImpl) Stats() domain.Stats {
	stats := domain.Stats{ChunkSize: s.chunkSize, Overlap: s.overlap}
	if corpus := s.corpus.Load(); corpus != nil {
		stats.Documents = corpus.NumDocuments()
		stats.Chunks = corpus.Len()
	}
	return stats
}

// Documents lists the indexed document sources in sorted order.
func (s *StudyServiceImpl) Documents() []string {
	if corpus := s.corpus.Load(); corpus != nil {
		return corpus.Documents()
	}
	return nil
}

// DocumentChunks returns one document's chunks in reading order.
func (s *StudyServiceImpl) DocumentChunks(source string) []domain.Chunk {
	if corpus := s.corpus.Load(); corpus != nil {
		return corpus.DocumentChunks(source)
	}
	return nil
}
