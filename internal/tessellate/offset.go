package tessellate

import (
	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/kernel"
)

func tessellateOffset(img *imagebuf.Image, p Params) *imagebuf.Image {
	return eachChannel(img, func(plane *imagebuf.Plane) *imagebuf.Plane {
		return offsetPlane(plane, p.BlendWidth)
	})
}

// offsetPlane swaps quadrants toroidally (shift by W/2, H/2) so the original
// edges meet in the interior, then cross-fades the swapped plane against the
// untouched identity plane over a band around the two new seam lines using
// an S-curve weight that is strongest exactly on the seam and fades out over
// blendWidth pixels. A light Gaussian smoothing confined to that same band
// removes the residual high-frequency edge the cross-fade leaves behind.
func offsetPlane(p *imagebuf.Plane, blendWidth int) *imagebuf.Plane {
	w, h := p.W, p.H
	swapped := imagebuf.NewPlane(w, h)
	for y := 0; y < h; y++ {
		sy := (y + h/2) % h
		for x := 0; x < w; x++ {
			sx := (x + w/2) % w
			swapped.Set(x, y, p.At(sx, sy))
		}
	}

	crossFaded := imagebuf.NewPlane(w, h)
	for y := 0; y < h; y++ {
		dy := seamDistance(y, h, blendWidth)
		for x := 0; x < w; x++ {
			dx := seamDistance(x, w, blendWidth)
			d := dx
			if dy < d {
				d = dy
			}
			weight := sCurveWeight(d, blendWidth)
			sv := swapped.At(x, y)
			iv := p.At(x, y)
			crossFaded.Set(x, y, weight*iv+(1-weight)*sv)
		}
	}

	sigma := float32(blendWidth) / 6.0
	if sigma < 0.5 {
		sigma = 0.5
	}
	smoothed := kernel.GaussianBlurWrapped(crossFaded, sigma)

	out := imagebuf.NewPlane(w, h)
	for y := 0; y < h; y++ {
		dy := seamDistance(y, h, blendWidth)
		for x := 0; x < w; x++ {
			dx := seamDistance(x, w, blendWidth)
			d := dx
			if dy < d {
				d = dy
			}
			bandWeight := sCurveWeight(d, blendWidth)
			out.Set(x, y, bandWeight*smoothed.At(x, y)+(1-bandWeight)*crossFaded.At(x, y))
		}
	}
	return out
}

// seamDistance returns the toroidal distance (in pixels) from coordinate v
// to the nearest seam line, where seams sit at 0 and n/2 after the quadrant
// swap. The result is clamped to [0, blendWidth].
func seamDistance(v, n, blendWidth int) int {
	half := n / 2
	d1 := toroidalDist(v, 0, n)
	d2 := toroidalDist(v, half, n)
	d := d1
	if d2 < d {
		d = d2
	}
	if d > blendWidth {
		d = blendWidth
	}
	return d
}

func toroidalDist(a, b, n int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if n-d < d {
		d = n - d
	}
	return d
}

// sCurveWeight returns a weight in [0, 1] that is 1 exactly on the seam
// (d == 0) and eases down to 0 at d == blendWidth using a smoothstep
// (3t^2 - 2t^3) curve.
func sCurveWeight(d, blendWidth int) float32 {
	if blendWidth <= 0 {
		if d == 0 {
			return 1
		}
		return 0
	}
	t := float32(d) / float32(blendWidth)
	if t > 1 {
		t = 1
	}
	eased := 3*t*t - 2*t*t*t
	return 1 - eased
}
