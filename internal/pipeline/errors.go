package pipeline

import "errors"

// Sentinel error kinds. Every error pipeline.Generate returns wraps one of
// these so callers can classify failures with errors.Is regardless of the
// underlying cause.
var (
	// ErrInvalidRequest means the Request itself is malformed (missing
	// prompt, non-positive resolution, unknown map kind, etc).
	ErrInvalidRequest = errors.New("pipeline: invalid request")

	// ErrUpstreamImage means the AI image provider failed or returned an
	// unusable image.
	ErrUpstreamImage = errors.New("pipeline: upstream image error")

	// ErrInvalidShape means an intermediate buffer had unexpected
	// dimensions or channel count.
	ErrInvalidShape = errors.New("pipeline: invalid shape")

	// ErrNumeric means a derivation produced non-finite or otherwise
	// invalid numeric output.
	ErrNumeric = errors.New("pipeline: numeric error")

	// ErrCancelled means the request's context was cancelled or its
	// deadline exceeded before completion.
	ErrCancelled = errors.New("pipeline: cancelled")
)

// DerivationError wraps a failure in one specific map's derivation. Unlike
// the sentinels above, a DerivationError for one map does not fail the
// whole pipeline: the orchestrator records it as a warning and omits that
// map from the result so the rest of the texture set still ships.
type DerivationError struct {
	Kind MapKind
	Err  error
}

func (e *DerivationError) Error() string {
	return "pipeline: derivation failed for " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}
