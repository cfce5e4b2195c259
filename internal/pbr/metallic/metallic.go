// Package metallic derives a metallic mask: a uniform plane for
// non-metallic materials, or a thresholded-and-cleaned luminance mask for
// materials whose preset enables metallic detection.
package metallic

import (
	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
	"github.com/MeKo-Tech/pbrforge/internal/material"
)

// Params configures metallic derivation.
type Params struct {
	// Threshold, if zero, disables detection entirely and the derived map
	// is a uniform plane at UniformValue. This is the documented resolution
	// for the "threshold == 0" open question: metallic detection is opt-in
	// per material class.
	Threshold    float32
	UniformValue float32
	OpenRadius   int
}

// FromPreset builds Params from a material preset.
func FromPreset(p material.MetallicPreset) Params {
	return Params{Threshold: p.Threshold, UniformValue: p.UniformFor, OpenRadius: 1}
}

// Derive computes a metallic plane in [0, 1].
func Derive(diffuse *imagebuf.Image, p Params) *imagebuf.Plane {
	if p.Threshold <= 0 {
		out := imagebuf.NewPlane(diffuse.W, diffuse.H)
		for i := range out.Data {
			out.Data[i] = p.UniformValue
		}
		return out
	}

	lum := imagebuf.Luminance(diffuse)
	mask := imagebuf.NewPlane(lum.W, lum.H)
	for i, v := range lum.Data {
		if v >= p.Threshold {
			mask.Data[i] = 1
		}
	}

	radius := p.OpenRadius
	if radius <= 0 {
		radius = 1
	}
	return kernel.Open(mask, radius)
}
