// Package ao derives an ambient-occlusion map from the shared height plane
// by combining three fixed-weight sub-signals — cavity, global, and
// gradient — then applying material-specific post-processing (crevice
// deepening for stone/brick, grain softening for wood, a weave overlay for
// fabric) and a floor so no pixel reads as fully occluded.
package ao

import (
	"math"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
	"github.com/MeKo-Tech/pbrforge/internal/material"
)

// Combination weights for the three sub-signals, fixed across every
// material class; only the post-processing step varies by class.
const (
	cavityWeight = 0.4
	globalWeight = 0.3
	gradWeight   = 0.3
)

// Params configures AO derivation.
type Params struct {
	CavityScale   float32 // sigma for the cavity blur-diff signal
	GlobalScale   float32 // base sigma for the 3-pass global signal
	MinAO         float32
	CreviceDeepen bool
	CreviceFactor float32
	GrainBlend    bool
	WeaveOverlay  bool
}

// DefaultCavityScale and DefaultGlobalScale match the corpus's general blur
// radii for a small-scale cavity signal and a broad-scale global signal.
const (
	DefaultCavityScale = 2.0
	DefaultGlobalScale = 4.0
)

// FromPreset builds Params from a material preset.
func FromPreset(p material.AOPreset) Params {
	return Params{
		CavityScale:   DefaultCavityScale,
		GlobalScale:   DefaultGlobalScale,
		MinAO:         p.MinAO,
		CreviceDeepen: p.CreviceDeepen,
		CreviceFactor: p.CreviceFactor,
		GrainBlend:    p.GrainBlend,
		WeaveOverlay:  p.WeaveOverlay,
	}
}

// Derive computes an ambient-occlusion plane in [0, 1], where 1 means fully
// lit and 0 means fully occluded.
func Derive(height *imagebuf.Plane, p Params) *imagebuf.Plane {
	cavity := cavitySignal(height, p.CavityScale)
	global := globalSignal(height, p.GlobalScale)
	gradient := gradientSignal(height)

	out := imagebuf.NewPlane(height.W, height.H)
	for i := range out.Data {
		out.Data[i] = cavityWeight*cavity.Data[i] + globalWeight*global.Data[i] + gradWeight*gradient.Data[i]
	}
	out.ClampInPlace(0, 1)

	if p.CreviceDeepen {
		factor := p.CreviceFactor
		if factor == 0 {
			factor = 0.8
		}
		for i := range out.Data {
			if out.Data[i] < 0.3 {
				out.Data[i] *= factor
			}
		}
	}

	if p.GrainBlend {
		softened := kernel.GaussianBlur(out, 2.0)
		for i := range out.Data {
			out.Data[i] = 0.7*softened.Data[i] + 0.3*out.Data[i]
		}
	}

	if p.WeaveOverlay {
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				weave := float32(0.05 * (math.Sin(math.Pi*float64(x)/4) + math.Sin(math.Pi*float64(y)/4)))
				i := y*out.W + x
				out.Data[i] += weave
			}
		}
	}

	out.ClampInPlace(0, 1)

	minAO := p.MinAO
	for i := range out.Data {
		out.Data[i] = out.Data[i]*(1-minAO) + minAO
	}
	out.ClampInPlace(0, 1)
	return out
}

// cavitySignal highlights small-scale dips: C = max(0, blur(H,sigma) - H),
// cavity = clamp(1 - 10*C, 0, 1).
func cavitySignal(height *imagebuf.Plane, sigma float32) *imagebuf.Plane {
	blurred := kernel.GaussianBlurWrapped(height, sigma)
	out := imagebuf.NewPlane(height.W, height.H)
	for i := range out.Data {
		c := blurred.Data[i] - height.Data[i]
		if c < 0 {
			c = 0
		}
		out.Data[i] = clamp01(1 - 10*c)
	}
	return out
}

// globalSignal approximates broad-scale occlusion via three passes of
// successive blur-and-blend, doubling the scale each pass, then raising the
// result to the 1.5 power: G <- 0.5*G + 0.5*blur(G, scale*2^i), global = G^1.5.
func globalSignal(height *imagebuf.Plane, scale float32) *imagebuf.Plane {
	g := height.Clone()
	for i := 0; i < 3; i++ {
		sigma := scale * float32(math.Pow(2, float64(i)))
		blurred := kernel.GaussianBlurWrapped(g, sigma)
		next := imagebuf.NewPlane(g.W, g.H)
		for j := range next.Data {
			next.Data[j] = 0.5*g.Data[j] + 0.5*blurred.Data[j]
		}
		g = next
	}
	out := imagebuf.NewPlane(g.W, g.H)
	for i, v := range g.Data {
		if v < 0 {
			v = 0
		}
		out.Data[i] = float32(math.Pow(float64(v), 1.5))
	}
	return out
}

// gradientSignal treats steep slopes as partially occluded:
// mag = sqrt(gx^2+gy^2), normalized by max(mag)+eps,
// gradient = gaussian_blur(1 - 0.5*mag, sigma=1).
func gradientSignal(height *imagebuf.Plane) *imagebuf.Plane {
	grad := kernel.Sobel(height)
	mag := imagebuf.NewPlane(height.W, height.H)
	var maxMag float32
	for i := range mag.Data {
		gx, gy := grad.Gx[i], grad.Gy[i]
		m := float32(math.Sqrt(float64(gx*gx + gy*gy)))
		mag.Data[i] = m
		if m > maxMag {
			maxMag = m
		}
	}

	const eps = 1e-6
	occl := imagebuf.NewPlane(height.W, height.H)
	for i, m := range mag.Data {
		norm := m / (maxMag + eps)
		occl.Data[i] = 1 - 0.5*norm
	}
	return kernel.GaussianBlurWrapped(occl, 1.0)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
