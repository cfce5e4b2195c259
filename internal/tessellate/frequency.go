package tessellate

import (
	"math"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
)

func tessellateFrequency(img *imagebuf.Image, p Params) *imagebuf.Image {
	return eachChannel(img, func(plane *imagebuf.Plane) *imagebuf.Plane {
		return frequencyPlane(plane, p.CutoffFraction)
	})
}

// frequencyPlane removes the low-frequency (slowly varying, non-periodic)
// content of a plane while preserving its DC term (overall mean
// brightness): apply a Hann window to avoid ringing at the analysis
// boundary, transform, multiply every bin by a soft radial high-pass mask
// H(r) = 1 - exp(-(r/r0)^2), then restore the exact DC term and invert.
func frequencyPlane(p *imagebuf.Plane, cutoffFraction float32) *imagebuf.Plane {
	w, h := p.W, p.H

	var sum float64
	for _, v := range p.Data {
		sum += float64(v)
	}

	windowed := applyHann(p)
	spec := kernel.FFT2(windowed)

	minDim := w
	if h < minDim {
		minDim = h
	}
	r0 := float64(cutoffFraction) * float64(minDim)

	for y := 0; y < h; y++ {
		fy := freqCoord(y, h)
		for x := 0; x < w; x++ {
			if x == 0 && y == 0 {
				continue
			}
			fx := freqCoord(x, w)
			r := math.Hypot(fx, fy)
			mask := 1 - math.Exp(-(r*r)/(r0*r0))
			v := spec.At(x, y)
			spec.Set(x, y, v*complex(mask, 0))
		}
	}
	spec.Set(0, 0, complex(sum, 0))

	return kernel.IFFT2(spec)
}

// freqCoord maps a 0-indexed FFT bin to its signed frequency (negative for
// bins past the Nyquist point), matching standard FFT bin ordering.
func freqCoord(i, n int) float64 {
	if i <= n/2 {
		return float64(i)
	}
	return float64(i - n)
}

func applyHann(p *imagebuf.Plane) *imagebuf.Plane {
	w, h := p.W, p.H
	out := imagebuf.NewPlane(w, h)
	wx := make([]float64, w)
	wy := make([]float64, h)
	for x := 0; x < w; x++ {
		wx[x] = hann(x, w)
	}
	for y := 0; y < h; y++ {
		wy[y] = hann(y, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, p.At(x, y)*float32(wx[x]*wy[y]))
		}
	}
	return out
}

func hann(i, n int) float64 {
	if n <= 1 {
		return 1
	}
	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
}
