package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyrag/internal/chunker"
	"studyrag/internal/domain"
	"studyrag/internal/scorer/sparse"
	"studyrag/internal/scorer/tfidf"
)

func testChunker(t *testing.T) domain.Chunker {
	t.Helper()
	ch, err := chunker.NewWindowChunker(200, 20, chunker.UnitChar, false)
	require.NoError(t, err)
	return ch
}

func newSparse(t *testing.T) domain.Scorer {
	t.Helper()
	s, err := sparse.New(sparse.VariantBM25)
	require.NoError(t, err)
	return s
}

func TestBuild_FitsBothScorers(t *testing.T) {
	docs := []domain.Document{
		{ID: "d1", Source: "analysis.pdf", Pages: []string{"Holomorphic functions are complex differentiable.", "Contour integration follows."}},
		{ID: "d2", Source: "algebra.pdf", Pages: []string{"Groups, rings and fields."}},
	}
	corpus, err := Build(docs, testChunker(t), newSparse(t), tfidf.New())
	require.NoError(t, err)

	assert.Equal(t, 3, corpus.Len())
	assert.Equal(t, 2, corpus.NumDocuments())
	assert.True(t, corpus.Sparse().Ready())
	assert.True(t, corpus.Dense().Ready())
}

func TestBuild_NoDocuments(t *testing.T) {
	_, err := Build(nil, testChunker(t), newSparse(t), tfidf.New())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_NoIndexableText(t *testing.T) {
	docs := []domain.Document{{ID: "d1", Source: "blank.pdf", Pages: []string{"", "   "}}}
	_, err := Build(docs, testChunker(t), newSparse(t), tfidf.New())
	require.ErrorIs(t, err, domain.ErrEmptyCorpus)
}

func TestBuild_ChunkingErrorPropagates(t *testing.T) {
	docs := []domain.Document{{Source: "no-id.pdf", Pages: []string{"text"}}}
	_, err := Build(docs, testChunker(t), newSparse(t), tfidf.New())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentsSortedAndChunksInReadingOrder(t *testing.T) {
	docs := []domain.Document{
		{ID: "d2", Source: "zebra.pdf", Pages: []string{"Zebra notes page one.", "Zebra notes page two."}},
		{ID: "d1", Source: "alpha.pdf", Pages: []string{"Alpha notes."}},
	}
	corpus, err := Build(docs, testChunker(t), newSparse(t), tfidf.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha.pdf", "zebra.pdf"}, corpus.Documents())

	zebra := corpus.DocumentChunks("zebra.pdf")
	require.Len(t, zebra, 2)
	assert.Equal(t, 1, zebra[0].Page)
	assert.Equal(t, 2, zebra[1].Page)
	assert.Empty(t, corpus.DocumentChunks("missing.pdf"))
}
