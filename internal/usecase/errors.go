package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")

	// Ingestion taxonomy. Per-match errors are caught at the coordinator
	// boundary and become skip counts; only ErrStoreUnavailable aborts a
	// batch.
	ErrInvalidReference  = errors.New("invalid reference")
	ErrInconsistentToss  = errors.New("inconsistent toss")
	ErrMalformedDate     = errors.New("malformed date")
	ErrMissingSourceFile = errors.New("missing source file")
	ErrStoreUnavailable  = errors.New("store unavailable")

	// ErrPartialRow marks a single unparsable delivery. It is logged and
	// skipped inside the normalizer, never propagated.
	ErrPartialRow = errors.New("partial row")
)
