// Package tfidf implements the dense retrieval baseline: a TF-IDF
// vector space over all corpus chunks with cosine similarity scoring.
package tfidf

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"studyrag/internal/domain"
	"studyrag/internal/scorer"
)

// Scorer builds a vocabulary and IDF weights from the chunk corpus and
// scores queries by cosine similarity against precomputed chunk
// vectors. It is unusable until Fit succeeds; the retriever checks
// Ready and falls back to sparse scoring otherwise.
type Scorer struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	vectors    [][]float64
	fitted     bool
}

// New creates an unfitted TF-IDF scorer.
func New() *Scorer {
	return &Scorer{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this scorer implementation.
func (s *Scorer) Name() string { return "tfidf" }

func (s *Scorer) Method() domain.Method { return domain.MethodDense }

// Fit builds the vocabulary and IDF values from the chunk corpus and
// precomputes one L2-normalized vector per chunk.
func (s *Scorer) Fit(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	// Document frequencies over the chunk population
	df := make(map[string]int)
	for _, ch := range chunks {
		seen := make(map[string]struct{})
		for _, tok := range scorer.Tokenize(ch.Text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	// Stable vocabulary ordering
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	s.vocabulary = make(map[string]int, len(terms))
	s.idf = make([]float64, len(terms))
	n := float64(len(chunks))
	for i, term := range terms {
		s.vocabulary[term] = i
		// Smoothed IDF
		s.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	s.dimension = len(terms)
	s.vectors = make([][]float64, len(chunks))
	for i, ch := range chunks {
		s.vectors[i] = s.vectorize(ch.Text)
	}
	s.fitted = true
	return nil
}

// Ready reports whether the vector space has been built.
func (s *Scorer) Ready() bool { return s.fitted }

// Dimension returns the vocabulary size of the fitted space.
func (s *Scorer) Dimension() int { return s.dimension }

// Scores returns the cosine similarity between the query vector and
// every chunk vector. Out-of-vocabulary query terms contribute nothing,
// so a fully out-of-vocabulary query scores zero everywhere.
func (s *Scorer) Scores(query string) ([]float64, error) {
	if !s.fitted {
		return nil, fmt.Errorf("%w: tfidf vector space not built", domain.ErrNotReady)
	}
	qv := s.vectorize(query)
	out := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		out[i] = dot(v, qv)
	}
	return out, nil
}

// vectorize computes the L2-normalized TF-IDF vector of a text,
// projected into the fitted vocabulary.
func (s *Scorer) vectorize(text string) []float64 {
	vec := make([]float64, s.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range scorer.Tokenize(text) {
		if idx, ok := s.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * s.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
