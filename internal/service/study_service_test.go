package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyrag/internal/chunker"
	"studyrag/internal/composer"
	"studyrag/internal/domain"
	"studyrag/internal/scorer/sparse"
	"studyrag/internal/scorer/tfidf"
	"studyrag/internal/summarizer"
)

// brokenDense mimics a dense scorer whose fitting failed: never ready.
type brokenDense struct{}

func (brokenDense) Name() string                     { return "broken" }
func (brokenDense) Method() domain.Method            { return domain.MethodDense }
func (brokenDense) Fit([]domain.Chunk) error         { return assert.AnError }
func (brokenDense) Ready() bool                      { return false }
func (brokenDense) Scores(string) ([]float64, error) { return nil, domain.ErrNotReady }

func newTestService(t *testing.T, newDense func() domain.Scorer) *StudyServiceImpl {
	t.Helper()
	ch, err := chunker.NewWindowChunker(200, 40, chunker.UnitChar, false)
	require.NoError(t, err)
	newSparse := func() domain.Scorer {
		s, err := sparse.New(sparse.VariantBM25)
		require.NoError(t, err)
		return s
	}
	if newDense == nil {
		newDense = func() domain.Scorer { return tfidf.New() }
	}
	return NewStudyService(ch, newSparse, newDense, composer.New(6), summarizer.NewFrequencySummarizer(), 3, 200, 40)
}

func courseDocument() domain.Document {
	return domain.Document{
		ID:     "d1",
		Source: "complex-analysis.pdf",
		Pages: []string{
			"A holomorphic function satisfies the Cauchy-Riemann equations.",
			"The library closes early on Fridays during the summer term.",
		},
	}
}

func TestRetrieveAndCompose_BeforeIngest(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.RetrieveAndCompose("anything", domain.MethodAuto, 5, 0)
	require.ErrorIs(t, err, domain.ErrEmptyCorpus)
}

func TestIngest_ReturnsSummaryAndStats(t *testing.T) {
	svc := newTestService(t, nil)
	summary, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	stats := svc.Stats()
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, 200, stats.ChunkSize)
	assert.Equal(t, 40, stats.Overlap)
}

func TestRetrieveAndCompose_SparseFindsCitedPage(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	answer, err := svc.RetrieveAndCompose("Cauchy-Riemann equations", domain.MethodSparse, 1, 0)
	require.NoError(t, err)
	require.True(t, answer.EvidenceFound)
	require.Len(t, answer.Citations, 1)

	cit := answer.Citations[0]
	assert.Equal(t, "complex-analysis.pdf", cit.Source)
	assert.Equal(t, 1, cit.Page)
	assert.Greater(t, cit.Score, 0.0)
	assert.Equal(t, domain.MethodSparse, cit.Method)
	assert.Contains(t, cit.Text, "Cauchy-Riemann")
}

func TestRetrieveAndCompose_DenseAgreesOnRareTerms(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	answer, err := svc.RetrieveAndCompose("Cauchy-Riemann equations", domain.MethodDense, 1, 0)
	require.NoError(t, err)
	require.True(t, answer.EvidenceFound)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, 1, answer.Citations[0].Page)
	assert.Equal(t, domain.MethodDense, answer.Citations[0].Method)
}

func TestRetrieveAndCompose_AutoFallsBackWhenDenseUnavailable(t *testing.T) {
	svc := newTestService(t, func() domain.Scorer { return brokenDense{} })
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	viaAuto, err := svc.RetrieveAndCompose("Cauchy-Riemann equations", domain.MethodAuto, 3, 0)
	require.NoError(t, err)
	viaSparse, err := svc.RetrieveAndCompose("Cauchy-Riemann equations", domain.MethodSparse, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, viaSparse.Citations, viaAuto.Citations)
	require.True(t, viaAuto.EvidenceFound)
	assert.Equal(t, domain.MethodSparse, viaAuto.Method)
}

func TestRetrieveAndCompose_NoEvidence(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	answer, err := svc.RetrieveAndCompose("quantum chromodynamics lattice", domain.MethodAuto, 5, 0)
	require.NoError(t, err)
	assert.False(t, answer.EvidenceFound)
	assert.Empty(t, answer.Citations)
}

func TestRetrieveAndCompose_MinScoreAboveAllScores(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	answer, err := svc.RetrieveAndCompose("Cauchy-Riemann equations", domain.MethodSparse, 5, 1e9)
	require.NoError(t, err)
	assert.False(t, answer.EvidenceFound)
	assert.Empty(t, answer.Citations)
}

func TestIngest_ReplacesCorpusAtomically(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	replacement := domain.Document{
		ID:     "d2",
		Source: "linear-algebra.pdf",
		Pages:  []string{"Eigenvalues and eigenvectors diagonalize a matrix."},
	}
	_, err = svc.Ingest([]domain.Document{replacement})
	require.NoError(t, err)

	assert.Equal(t, []string{"linear-algebra.pdf"}, svc.Documents())

	// The old corpus is gone entirely: its content is unreachable.
	answer, err := svc.RetrieveAndCompose("Cauchy-Riemann equations", domain.MethodSparse, 5, 0)
	require.NoError(t, err)
	assert.False(t, answer.EvidenceFound)

	answer, err = svc.RetrieveAndCompose("eigenvalues", domain.MethodSparse, 5, 0)
	require.NoError(t, err)
	require.True(t, answer.EvidenceFound)
	assert.Equal(t, "linear-algebra.pdf", answer.Citations[0].Source)
}

func TestDocumentChunks(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest([]domain.Document{courseDocument()})
	require.NoError(t, err)

	chunks := svc.DocumentChunks("complex-analysis.pdf")
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[1].Page)
	assert.Nil(t, svc.DocumentChunks("missing.pdf"))
}

func TestIngestFiles_TextDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Fourier series decompose periodic functions into sines and cosines."), 0o644))

	svc := newTestService(t, nil)
	summary, err := svc.IngestFiles([]string{path})
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	answer, err := svc.RetrieveAndCompose("Fourier series", domain.MethodAuto, 1, 0)
	require.NoError(t, err)
	require.True(t, answer.EvidenceFound)
	assert.Equal(t, "notes.txt", answer.Citations[0].Source)
}
