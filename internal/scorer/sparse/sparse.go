// Package sparse implements lexical relevance scoring over the chunk
// corpus: BM25 by default, with a plain unique-term overlap count as a
// simpler policy variant.
package sparse

import (
	"errors"
	"fmt"
	"math"

	"studyrag/internal/domain"
	"studyrag/internal/scorer"
)

// Variant selects the sparse scoring policy.
type Variant string

const (
	VariantBM25    Variant = "bm25"
	VariantOverlap Variant = "overlap"
)

const (
	defaultK1 = 1.2
	defaultB  = 0.75
)

// Scorer rates chunks by lexical term overlap with the query.
type Scorer struct {
	variant Variant
	k1      float64
	b       float64

	fitted bool
	tf     []map[string]int
	length []int
	avgLen float64
	df     map[string]int
	n      int
}

// New creates an unfitted sparse scorer. An empty variant means BM25.
func New(variant Variant) (*Scorer, error) {
	switch variant {
	case "":
		variant = VariantBM25
	case VariantBM25, VariantOverlap:
	default:
		return nil, fmt.Errorf("%w: unknown sparse variant %q", domain.ErrInvalidInput, variant)
	}
	return &Scorer{variant: variant, k1: defaultK1, b: defaultB}, nil
}

// Name returns the identifier of the active scoring policy.
func (s *Scorer) Name() string { return string(s.variant) }

func (s *Scorer) Method() domain.Method { return domain.MethodSparse }

// Fit tokenizes the corpus and collects the term statistics BM25
// needs: per-chunk term frequencies, document frequencies and the
// average chunk length.
func (s *Scorer) Fit(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return errors.New("no chunks to fit sparse scorer on")
	}
	s.tf = make([]map[string]int, len(chunks))
	s.length = make([]int, len(chunks))
	s.df = make(map[string]int)
	total := 0
	for i, ch := range chunks {
		tokens := scorer.Tokenize(ch.Text)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for tok := range tf {
			s.df[tok]++
		}
		s.tf[i] = tf
		s.length[i] = len(tokens)
		total += len(tokens)
	}
	s.n = len(chunks)
	s.avgLen = float64(total) / float64(s.n)
	if s.avgLen == 0 {
		s.avgLen = 1
	}
	s.fitted = true
	return nil
}

// Ready reports whether Fit has run.
func (s *Scorer) Ready() bool { return s.fitted }

// Scores returns one non-negative relevance score per fitted chunk.
func (s *Scorer) Scores(query string) ([]float64, error) {
	if !s.fitted {
		return nil, fmt.Errorf("%w: sparse scorer not fitted", domain.ErrNotReady)
	}
	terms := uniqueTerms(query)
	out := make([]float64, s.n)
	if len(terms) == 0 {
		return out, nil
	}
	for i := range out {
		if s.variant == VariantOverlap {
			out[i] = s.overlapScore(i, terms)
		} else {
			out[i] = s.bm25Score(i, terms)
		}
	}
	return out, nil
}

func (s *Scorer) overlapScore(i int, terms []string) float64 {
	hits := 0
	for _, t := range terms {
		if s.tf[i][t] > 0 {
			hits++
		}
	}
	return float64(hits)
}

func (s *Scorer) bm25Score(i int, terms []string) float64 {
	norm := s.k1 * (1 - s.b + s.b*float64(s.length[i])/s.avgLen)
	score := 0.0
	for _, t := range terms {
		tf := float64(s.tf[i][t])
		if tf == 0 {
			continue
		}
		df := float64(s.df[t])
		// Non-negative BM25 IDF variant.
		idf := math.Log(1 + (float64(s.n)-df+0.5)/(df+0.5))
		score += idf * tf * (s.k1 + 1) / (tf + norm)
	}
	return score
}

func uniqueTerms(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range scorer.Tokenize(query) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
