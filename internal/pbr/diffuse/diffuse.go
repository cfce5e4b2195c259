// Package diffuse implements the diffuse-map intake stage: validating and
// resizing the AI-provided image and normalizing its color before it is
// handed to the tessellation engine and the other derivation kernels.
package diffuse

import (
	"fmt"

	"github.com/anthonynsimon/bild/adjust"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

// Params configures diffuse intake.
type Params struct {
	Resolution   imagebuf.Resolution
	GammaCorrect float64 // 1.0 disables; values > 1 brighten midtones
}

// DefaultParams returns intake parameters with no gamma adjustment.
func DefaultParams(res imagebuf.Resolution) Params {
	return Params{Resolution: res, GammaCorrect: 1.0}
}

// Normalize resizes the source image to the requested resolution and
// applies an optional gamma touch-up, returning the planar image that
// becomes the pipeline's diffuse_master.
func Normalize(src *imagebuf.Image, p Params) (*imagebuf.Image, error) {
	if src == nil || src.W == 0 || src.H == 0 {
		return nil, fmt.Errorf("diffuse: empty source image")
	}
	if !p.Resolution.Valid() {
		return nil, fmt.Errorf("diffuse: invalid target resolution %v", p.Resolution)
	}

	resized := imagebuf.Resize(src, p.Resolution)

	if p.GammaCorrect != 0 && p.GammaCorrect != 1.0 {
		n := imagebuf.ToNRGBA(resized)
		corrected := adjust.Gamma(n, p.GammaCorrect)
		resized = imagebuf.FromNRGBA(corrected)
	}

	return resized, nil
}
