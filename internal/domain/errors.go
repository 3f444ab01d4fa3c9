package domain

import "errors"

var (
	// ErrInvalidInput reports a malformed document or an unusable
	// chunking configuration, surfaced at ingestion time.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCorpus reports that no chunks are indexed.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrNotReady reports that a scorer has not been fitted. The
	// retriever recovers from it by falling back to sparse scoring;
	// it is never surfaced to the end user.
	ErrNotReady = errors.New("scorer not ready")
)
