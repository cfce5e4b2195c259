// Package kernel implements the reusable filter primitives the tessellation
// and derivation packages build on: Gaussian blur, Sobel gradients, a rank
// filter, rotation, and 2-D FFT/IFFT. Each operates directly on float32
// planes rather than going through an image.Image-based library, since the
// tolerances the derivation kernels are held to (seam energy, gradient
// magnitude) need direct control over boundary handling and numeric
// precision that an 8-bit image pipeline would not preserve.
package kernel

import (
	"math"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

// GaussianBlur applies a separable Gaussian blur of the given sigma to a
// plane, using an edge-clamped boundary. The kernel radius is
// ceil(3*sigma), matching the corpus convention for a visually converged
// Gaussian without an unbounded tail.
func GaussianBlur(p *imagebuf.Plane, sigma float32) *imagebuf.Plane {
	if sigma <= 0 {
		return p.Clone()
	}
	radius := int(math.Ceil(float64(sigma) * 3))
	weights := gaussianWeights(sigma, radius)

	tmp := imagebuf.NewPlane(p.W, p.H)
	blurHorizontal(p, tmp, weights, radius)

	out := imagebuf.NewPlane(p.W, p.H)
	blurVertical(tmp, out, weights, radius)
	return out
}

func gaussianWeights(sigma float32, radius int) []float32 {
	weights := make([]float32, 2*radius+1)
	var sum float32
	s2 := float64(sigma) * float64(sigma)
	for i := -radius; i <= radius; i++ {
		w := float32(math.Exp(-float64(i*i) / (2 * s2)))
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

func blurHorizontal(src, dst *imagebuf.Plane, weights []float32, radius int) {
	for y := 0; y < src.H; y++ {
		row := y * src.W
		for x := 0; x < src.W; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sx := clampCoord(x+k, src.W)
				acc += src.Data[row+sx] * weights[k+radius]
			}
			dst.Data[row+x] = acc
		}
	}
}

func blurVertical(src, dst *imagebuf.Plane, weights []float32, radius int) {
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sy := clampCoord(y+k, src.H)
				acc += src.Data[sy*src.W+x] * weights[k+radius]
			}
			dst.Data[y*src.W+x] = acc
		}
	}
}

// GaussianBlurWrapped is identical to GaussianBlur except the boundary is
// toroidal (wraparound) instead of clamped, used when blurring a plane that
// is already known to tile seamlessly (e.g. the shared height plane after
// tessellation).
func GaussianBlurWrapped(p *imagebuf.Plane, sigma float32) *imagebuf.Plane {
	if sigma <= 0 {
		return p.Clone()
	}
	radius := int(math.Ceil(float64(sigma) * 3))
	weights := gaussianWeights(sigma, radius)

	tmp := imagebuf.NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		row := y * p.W
		for x := 0; x < p.W; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sx := wrap(x+k, p.W)
				acc += p.Data[row+sx] * weights[k+radius]
			}
			tmp.Data[row+x] = acc
		}
	}

	out := imagebuf.NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				sy := wrap(y+k, p.H)
				acc += tmp.Data[sy*p.W+x] * weights[k+radius]
			}
			out.Data[y*p.W+x] = acc
		}
	}
	return out
}

func wrap(v, max int) int {
	v %= max
	if v < 0 {
		v += max
	}
	return v
}
