package tessellate

import "github.com/MeKo-Tech/pbrforge/internal/imagebuf"

func tessellateMirror(img *imagebuf.Image, p Params) *imagebuf.Image {
	return eachChannel(img, func(plane *imagebuf.Plane) *imagebuf.Plane {
		return mirrorPlane(plane, p.BlendWidth)
	})
}

// mirrorPlane synthesizes, along each edge, a strip built by reflecting the
// image inward across that edge, then blends the original against the
// mirrored strip over blendWidth pixels using a cubic smoothstep easing so
// the two values that will become adjacent when the texture repeats agree
// exactly at the boundary and converge back to the original content toward
// the interior. Applied once along X, then once along Y.
func mirrorPlane(p *imagebuf.Plane, blendWidth int) *imagebuf.Plane {
	out := mirrorAxisX(p, blendWidth)
	out = mirrorAxisY(out, blendWidth)
	return out
}

func mirrorAxisX(p *imagebuf.Plane, blendWidth int) *imagebuf.Plane {
	w, h := p.W, p.H
	out := p.Clone()
	bw := blendWidth
	if 2*bw > w {
		bw = w / 2
	}
	for y := 0; y < h; y++ {
		for i := 0; i < bw; i++ {
			// Mirrored strip value at depth i: fold the band near the left
			// edge and the band near the right edge inward across their
			// respective edges and average the two reflections, so the
			// strip carries one shared value at each depth that both edges
			// blend toward — guaranteeing they meet exactly at the seam.
			mirrored := (p.At(bw-1-i, y) + p.At(w-bw+i, y)) / 2

			a := p.At(i, y)
			b := p.At(w-1-i, y)
			t := smoothstep(float32(i) / float32(bw))
			out.Set(i, y, lerp(mirrored, a, t))
			out.Set(w-1-i, y, lerp(mirrored, b, t))
		}
	}
	return out
}

func mirrorAxisY(p *imagebuf.Plane, blendWidth int) *imagebuf.Plane {
	w, h := p.W, p.H
	out := p.Clone()
	bw := blendWidth
	if 2*bw > h {
		bw = h / 2
	}
	for x := 0; x < w; x++ {
		for i := 0; i < bw; i++ {
			mirrored := (p.At(x, bw-1-i) + p.At(x, h-bw+i)) / 2

			a := p.At(x, i)
			b := p.At(x, h-1-i)
			t := smoothstep(float32(i) / float32(bw))
			out.Set(x, i, lerp(mirrored, a, t))
			out.Set(x, h-1-i, lerp(mirrored, b, t))
		}
	}
	return out
}

// smoothstep returns 0 at t=0 (the edge, where the mirrored strip dominates)
// and 1 at t=1 (the interior, where the original content dominates),
// following the cubic curve t^2(3-2t).
func smoothstep(t float32) float32 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
