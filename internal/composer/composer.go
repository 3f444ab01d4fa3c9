// Package composer assembles the citation-annotated answer from ranked
// evidence chunks. Chunk text is passed through verbatim; when nothing
// clears the relevance threshold the answer reports that no sufficient
// evidence was found instead of fabricating one.
package composer

import (
	"regexp"
	"sort"
	"strings"

	"studyrag/internal/domain"
	"studyrag/internal/scorer"
)

// Sentences shorter than this rarely carry a complete statement worth
// quoting as a key point.
const minKeyPointChars = 40

// overlapBoost is the per-matching-query-term bonus added on top of
// the retriever score when ranking candidate sentences.
const overlapBoost = 0.05

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Composer turns ranked evidence into an Answer.
type Composer struct {
	maxKeyPoints int
}

// New creates a composer emitting at most maxKeyPoints key sentences.
func New(maxKeyPoints int) *Composer {
	if maxKeyPoints <= 0 {
		maxKeyPoints = 6
	}
	return &Composer{maxKeyPoints: maxKeyPoints}
}

// Compose keeps every result scoring above minScore as a verbatim
// citation and extracts the most informative evidence sentences as key
// points. Results below the threshold are dropped; if none survive the
// answer has EvidenceFound false and no citations.
func (c *Composer) Compose(query string, results []domain.ScoredChunk, minScore float64) domain.Answer {
	answer := domain.Answer{Query: query}
	for _, r := range results {
		if r.Score <= minScore {
			continue
		}
		answer.Citations = append(answer.Citations, domain.Citation{
			ChunkID: r.Chunk.ID,
			Source:  r.Chunk.Source,
			Page:    r.Chunk.Page,
			EndPage: r.Chunk.EndPage,
			Text:    r.Chunk.Text,
			Score:   r.Score,
			Method:  r.Method,
		})
	}
	if len(answer.Citations) == 0 {
		return answer
	}
	answer.EvidenceFound = true
	answer.Method = answer.Citations[0].Method
	answer.KeyPoints = c.keyPoints(query, answer.Citations)
	return answer
}

type candidate struct {
	sentence string
	citation domain.Citation
	score    float64
}

// keyPoints pools the evidence sentences, ranks them by retriever
// score plus query-term overlap, and picks a citation-diverse subset.
func (c *Composer) keyPoints(query string, citations []domain.Citation) []domain.KeyPoint {
	queryTerms := scorer.TokenSet(query)
	var pool []candidate
	for _, cit := range citations {
		for _, sent := range splitSentences(cit.Text) {
			if len(sent) < minKeyPointChars {
				continue
			}
			overlap := 0
			for tok := range scorer.TokenSet(sent) {
				if _, ok := queryTerms[tok]; ok {
					overlap++
				}
			}
			pool = append(pool, candidate{
				sentence: sent,
				citation: cit,
				score:    cit.Score + overlapBoost*float64(overlap),
			})
		}
	}
	if len(pool) == 0 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	// Prefer spreading key points across different chunks; allow
	// repeats only once half the quota is filled.
	var out []domain.KeyPoint
	used := make(map[string]struct{})
	for _, cand := range pool {
		if len(out) >= c.maxKeyPoints {
			break
		}
		if _, ok := used[cand.citation.ChunkID]; ok && len(out) < c.maxKeyPoints/2 {
			continue
		}
		out = append(out, domain.KeyPoint{Sentence: cand.sentence, Citation: cand.citation})
		used[cand.citation.ChunkID] = struct{}{}
	}
	return out
}

func splitSentences(text string) []string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return sentences
}
