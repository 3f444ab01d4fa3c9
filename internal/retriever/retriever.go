// Package retriever ranks corpus chunks for a query using the selected
// scoring strategy, falling back from dense to sparse when the TF-IDF
// space is unavailable.
package retriever

import (
	"fmt"
	"sort"

	"studyrag/internal/domain"
	"studyrag/internal/index"
)

// Retrieve scores every chunk in the corpus and returns up to k
// positively scored chunks, ordered by descending score with ties
// broken by corpus position. Each result is tagged with the method
// that actually produced it, which matters when auto falls back.
func Retrieve(corpus *index.Corpus, query string, method domain.Method, k int) ([]domain.ScoredChunk, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("%w: no chunks indexed", domain.ErrEmptyCorpus)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}
	scorer, err := pick(corpus, method)
	if err != nil {
		return nil, err
	}
	scores, err := scorer.Scores(query)
	if err != nil {
		return nil, fmt.Errorf("scoring with %s: %w", scorer.Name(), err)
	}

	idxs := make([]int, 0, len(scores))
	for i, s := range scores {
		if s > 0 {
			idxs = append(idxs, i)
		}
	}
	sort.Slice(idxs, func(a, b int) bool {
		if scores[idxs[a]] != scores[idxs[b]] {
			return scores[idxs[a]] > scores[idxs[b]]
		}
		return idxs[a] < idxs[b]
	})
	if k > len(idxs) {
		k = len(idxs)
	}
	chunks := corpus.Chunks()
	out := make([]domain.ScoredChunk, 0, k)
	for _, i := range idxs[:k] {
		out = append(out, domain.ScoredChunk{Chunk: chunks[i], Score: scores[i], Method: scorer.Method()})
	}
	return out, nil
}

// pick applies the method selection table. Requesting dense scoring
// when the vector space is not built degrades to sparse instead of
// failing; NotReady never reaches the caller.
func pick(corpus *index.Corpus, method domain.Method) (domain.Scorer, error) {
	switch method {
	case domain.MethodSparse:
		return corpus.Sparse(), nil
	case domain.MethodDense, domain.MethodAuto, "":
		if d := corpus.Dense(); d != nil && d.Ready() {
			return d, nil
		}
		return corpus.Sparse(), nil
	default:
		return nil, fmt.Errorf("%w: unknown retrieval method %q", domain.ErrInvalidInput, method)
	}
}
