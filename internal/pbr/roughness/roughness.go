// Package roughness derives a roughness map from the diffuse image's
// luminance, remapped through a per-material base/contrast preset and
// optionally overlaid with a directional streak pattern (brushed metal)
// produced by rotating, blurring along one axis, and rotating back.
package roughness

import (
	"math"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
	"github.com/MeKo-Tech/pbrforge/internal/material"
)

// Params configures roughness derivation. BaseValue, Contrast, and Invert
// come from the material preset; Directional and DirectionAngleDeg are
// request-level overrides for the streak overlay, which Derive applies only
// when IsMetal is set, and Variation is the uniform noise amplitude.
type Params struct {
	BaseValue         float32
	Contrast          float32
	Invert            bool
	Directional       bool
	DirectionAngleDeg float32
	Variation         float32
	IsWood            bool
	IsMetal           bool
	Seed              int64
}

// DefaultVariation is the spec's default noise amplitude when a request
// does not override it.
const DefaultVariation float32 = 0.02

// FromPreset builds Params from a material class and its preset, defaulting
// Variation and tagging the wood/metal special-case post-processing.
// Directional and DirectionAngleDeg are left at their zero values; callers
// wire those in from request-level overrides.
func FromPreset(class material.Class, p material.RoughnessPreset) Params {
	return Params{
		BaseValue: p.BaseValue,
		Contrast:  p.Contrast,
		Invert:    p.Invert,
		Variation: DefaultVariation,
		IsWood:    class == material.Wood,
		IsMetal:   class == material.Metal,
	}
}

// Derive computes a roughness plane in [0, 1]:
//  1. R = clamp(base_value + contrast*(L-0.5)*(-1 if invert else 1), 0, 1)
//  2. wood: blend 70/30 with a copy softened by a 2-D Gaussian (sigma 2);
//     the blur is isotropic, not confined to the grain axis
//  3. metal: floor at 0.15, optionally overlay a directional streak
//  4. add uniform noise in +/-variation, clamp
func Derive(diffuse *imagebuf.Image, p Params) *imagebuf.Plane {
	lum := imagebuf.Luminance(diffuse)

	sign := float32(1)
	if p.Invert {
		sign = -1
	}

	out := imagebuf.NewPlane(lum.W, lum.H)
	for i, v := range lum.Data {
		out.Data[i] = p.BaseValue + p.Contrast*(v-0.5)*sign
	}
	out.ClampInPlace(0, 1)

	if p.IsWood {
		grainSigma := float32(2.0)
		blurred := kernel.GaussianBlur(grainAxisPlane(out), grainSigma)
		blurred = unGrainAxisPlane(blurred)
		for i := range out.Data {
			out.Data[i] = 0.7*blurred.Data[i] + 0.3*out.Data[i]
		}
	}

	if p.IsMetal {
		for i := range out.Data {
			if out.Data[i] < 0.15 {
				out.Data[i] = 0.15
			}
		}
		if p.Directional {
			streak := directionalStreak(out, p.DirectionAngleDeg, out.W, out.H)
			for i := range out.Data {
				out.Data[i] = 0.5*out.Data[i] + 0.5*streak.Data[i]
			}
		}
	}

	variation := p.Variation
	if variation == 0 {
		variation = DefaultVariation
	}
	if variation > 0 {
		for i := range out.Data {
			n := hashNoise(i, p.Seed)
			out.Data[i] += (n*2 - 1) * variation
		}
	}

	out.ClampInPlace(0, 1)
	return out
}

// hashNoise derives a deterministic pseudo-random value in [0, 1) from a
// pixel index and the request seed, using FNV-1a so the same (seed, image)
// pair always reproduces the same roughness texture (see pipeline
// determinism, testable property 6).
func hashNoise(index int, seed int64) float32 {
	h := uint64(14695981039346656037)
	mix := uint64(index)*0x9E3779B97F4A7C15 ^ uint64(seed)
	for i := 0; i < 8; i++ {
		h ^= (mix >> (8 * i)) & 0xFF
		h *= 1099511628211
	}
	return float32(h%1000000) / 1000000.0
}

// grainAxisPlane and unGrainAxisPlane are identity passthroughs: no rotation
// is applied around the wood blur. GaussianBlur runs both its horizontal and
// its vertical pass, so the wood softening is not limited to one axis.
func grainAxisPlane(p *imagebuf.Plane) *imagebuf.Plane   { return p }
func unGrainAxisPlane(p *imagebuf.Plane) *imagebuf.Plane { return p }

// directionalStreak produces a streak pattern by rotating the plane so the
// desired streak direction is axis-aligned, blurring heavily along that
// axis only, and rotating back. sigma is proportional to min(W,H)/256 per
// the spec's metal directional overlay.
func directionalStreak(p *imagebuf.Plane, angleDeg float32, w, h int) *imagebuf.Plane {
	rotated := kernel.RotatePlane(p, -angleDeg)
	minDim := w
	if h < minDim {
		minDim = h
	}
	sigma := float32(minDim) / 256.0
	if sigma < 1 {
		sigma = 1
	}
	blurred := blurAxis(rotated, sigma)
	return kernel.RotatePlane(blurred, angleDeg)
}

// blurAxis applies a strong horizontal-only blur, the elongated kernel that
// produces a directional streak once the plane is rotated back.
func blurAxis(p *imagebuf.Plane, sigma float32) *imagebuf.Plane {
	out := imagebuf.NewPlane(p.W, p.H)
	radius := int(math.Ceil(float64(sigma) * 3))
	if radius < 1 {
		radius = 1
	}
	weights := make([]float32, 2*radius+1)
	var sum float32
	for i := -radius; i <= radius; i++ {
		w := float32(1.0)
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	for y := 0; y < p.H; y++ {
		row := y * p.W
		for x := 0; x < p.W; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sx := x + k
				if sx < 0 {
					sx = 0
				} else if sx >= p.W {
					sx = p.W - 1
				}
				acc += p.Data[row+sx] * weights[k+radius]
			}
			out.Data[row+x] = acc
		}
	}
	return out
}
