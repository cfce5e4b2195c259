// Package provider defines the AI image collaborator contract the pipeline
// depends on, plus two implementations: a thin HTTP-backed provider for a
// real text-to-image service, and an offline procedural provider used by
// tests and a --provider=procedural CLI mode.
package provider

import (
	"context"
	"image"
	"time"
)

// ImageProvider generates a single RGB image from a text prompt. A
// generation call is expected to be single-shot: implementations do not
// retry internally, since retry policy belongs to the caller.
type ImageProvider interface {
	Generate(ctx context.Context, prompt string, width, height int, timeout time.Duration) (image.Image, error)
}
