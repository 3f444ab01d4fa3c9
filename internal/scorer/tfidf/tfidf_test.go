package tfidf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyrag/internal/domain"
)

func chunksFrom(texts ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		out[i] = domain.Chunk{ID: "c", Text: t, Index: i}
	}
	return out
}

func TestScores_NotFitted(t *testing.T) {
	s := New()
	assert.False(t, s.Ready())
	assert.Equal(t, domain.MethodDense, s.Method())

	_, err := s.Scores("query")
	require.ErrorIs(t, err, domain.ErrNotReady)
}

func TestFit_EmptyCorpus(t *testing.T) {
	s := New()
	require.Error(t, s.Fit(nil))
	assert.False(t, s.Ready())
}

func TestFit_BuildsVectorSpace(t *testing.T) {
	s := New()
	require.NoError(t, s.Fit(chunksFrom(
		"complex analysis covers holomorphic functions",
		"linear algebra covers vector spaces",
	)))
	assert.True(t, s.Ready())
	assert.Greater(t, s.Dimension(), 0)
}

func TestScores_CosineBoundsAndRelevance(t *testing.T) {
	s := New()
	require.NoError(t, s.Fit(chunksFrom(
		"holomorphic functions satisfy certain partial differential equations",
		"recipes describe cooking pasta quickly",
	)))

	scores, err := s.Scores("holomorphic equations")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], 0.0)
	assert.LessOrEqual(t, scores[0], 1.0+1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
}

func TestScores_IdenticalTextScoresOne(t *testing.T) {
	text := "green eggs ham breakfast"
	s := New()
	require.NoError(t, s.Fit(chunksFrom(text, "unrelated gardening advice today")))

	scores, err := s.Scores(text)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestScores_OutOfVocabularyQueryScoresZeroEverywhere(t *testing.T) {
	s := New()
	require.NoError(t, s.Fit(chunksFrom("alpha beta gamma", "delta epsilon zeta")))

	scores, err := s.Scores("zymurgy quixotic")
	require.NoError(t, err)
	for _, sc := range scores {
		assert.Zero(t, sc)
	}
}

func TestScores_Deterministic(t *testing.T) {
	s := New()
	require.NoError(t, s.Fit(chunksFrom("alpha beta gamma", "beta gamma delta")))

	first, err := s.Scores("beta")
	require.NoError(t, err)
	second, err := s.Scores("beta")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
