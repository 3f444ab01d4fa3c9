// Package index builds and holds the in-memory retrieval corpus: the
// chunk population plus the fitted scorers. A Corpus is immutable once
// built; re-ingestion builds a fresh one and the service swaps the
// active reference atomically.
package index

import (
	"fmt"
	"sort"

	"studyrag/internal/domain"
)

// Corpus is the read-only snapshot shared by all queries.
type Corpus struct {
	chunks []domain.Chunk
	sparse domain.Scorer
	dense  domain.Scorer
	docs   map[string]string // source -> document id
}

// Build chunks every document and fits the scorers. Sparse fitting must
// succeed because it is the fallback of last resort; a dense fitting
// failure leaves the dense scorer not ready, which the retriever
// recovers from by falling back to sparse.
func Build(documents []domain.Document, chunker domain.Chunker, sparse, dense domain.Scorer) (*Corpus, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: no documents to index", domain.ErrInvalidInput)
	}
	c := &Corpus{sparse: sparse, dense: dense, docs: make(map[string]string, len(documents))}
	for _, d := range documents {
		chunks, err := chunker.Chunk(d)
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", d.Source, err)
		}
		c.docs[d.Source] = d.ID
		c.chunks = append(c.chunks, chunks...)
	}
	if len(c.chunks) == 0 {
		return nil, fmt.Errorf("%w: documents contained no indexable text", domain.ErrEmptyCorpus)
	}
	if err := sparse.Fit(c.chunks); err != nil {
		return nil, fmt.Errorf("fitting sparse scorer: %w", err)
	}
	// Tolerated: dense stays not ready and retrieval degrades to sparse.
	_ = dense.Fit(c.chunks)
	return c, nil
}

// Chunks returns the full chunk population in corpus order. Callers
// must treat the slice as read-only.
func (c *Corpus) Chunks() []domain.Chunk { return c.chunks }

// Len returns the number of indexed chunks.
func (c *Corpus) Len() int { return len(c.chunks) }

// Sparse returns the fitted sparse scorer.
func (c *Corpus) Sparse() domain.Scorer { return c.sparse }

// Dense returns the dense scorer, which may not be ready.
func (c *Corpus) Dense() domain.Scorer { return c.dense }

// NumDocuments returns the number of distinct indexed documents.
func (c *Corpus) NumDocuments() int { return len(c.docs) }

// Documents lists the indexed document sources in sorted order.
func (c *Corpus) Documents() []string {
	out := make([]string, 0, len(c.docs))
	for source := range c.docs {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}

// DocumentChunks returns the chunks belonging to one document source,
// in reading order.
func (c *Corpus) DocumentChunks(source string) []domain.Chunk {
	var out []domain.Chunk
	for _, ch := range c.chunks {
		if ch.Source == source {
			out = append(out, ch)
		}
	}
	return out
}
