package kernel

import "github.com/MeKo-Tech/pbrforge/internal/imagebuf"

// Erode applies a square min-rank filter of the given radius to a binary
// (0/1) plane.
func Erode(p *imagebuf.Plane, radius int) *imagebuf.Plane {
	return rank(p, radius, false)
}

// Dilate applies a square max-rank filter of the given radius to a binary
// (0/1) plane.
func Dilate(p *imagebuf.Plane, radius int) *imagebuf.Plane {
	return rank(p, radius, true)
}

// Open performs a morphological opening (erode then dilate), used to strip
// isolated single-pixel speckle from a threshold mask before it is used as
// a metallic mask.
func Open(p *imagebuf.Plane, radius int) *imagebuf.Plane {
	return Dilate(Erode(p, radius), radius)
}

func rank(p *imagebuf.Plane, radius int, max bool) *imagebuf.Plane {
	if radius <= 0 {
		return p.Clone()
	}
	out := imagebuf.NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var best float32
			if max {
				best = -1
			} else {
				best = 2
			}
			for ky := -radius; ky <= radius; ky++ {
				for kx := -radius; kx <= radius; kx++ {
					sx := clampCoord(x+kx, p.W)
					sy := clampCoord(y+ky, p.H)
					v := p.At(sx, sy)
					if max {
						if v > best {
							best = v
						}
					} else if v < best {
						best = v
					}
				}
			}
			out.Set(x, y, best)
		}
	}
	return out
}
