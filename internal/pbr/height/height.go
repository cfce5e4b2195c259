// Package height derives a height (displacement) plane from the diffuse
// image's luminance: a linear contrast adjustment followed by optional
// smoothing. The same plane is shared with the normal and ambient-occlusion
// derivation packages so those maps stay physically consistent with each
// other.
package height

import (
	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
	"github.com/MeKo-Tech/pbrforge/internal/material"
)

// Params configures height derivation.
type Params struct {
	DepthScale float32
	BlurSigma  float32
}

// FromPreset builds Params from a material preset.
func FromPreset(p material.HeightPreset) Params {
	return Params{DepthScale: p.DepthScale, BlurSigma: p.BlurSigma}
}

// Derive computes the shared height plane from a diffuse image's luminance.
func Derive(diffuse *imagebuf.Image, p Params) *imagebuf.Plane {
	lum := imagebuf.Luminance(diffuse)

	scale := p.DepthScale
	if scale <= 0 {
		scale = 1
	}

	out := imagebuf.NewPlane(lum.W, lum.H)
	for i, v := range lum.Data {
		out.Data[i] = 0.5 + scale*(v-0.5)
	}
	out.ClampInPlace(0, 1)

	if p.BlurSigma > 0 {
		out = kernel.GaussianBlurWrapped(out, p.BlurSigma)
	}

	out.ClampInPlace(0, 1)
	return out
}
