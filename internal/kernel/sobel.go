package kernel

import (
	"math"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

// Gradient holds the horizontal and vertical Sobel response at every pixel
// of a plane.
type Gradient struct {
	Gx, Gy []float32
	W, H   int
}

// Sobel computes the 3x3 Sobel gradient of a plane with edge-clamped
// boundary handling.
func Sobel(p *imagebuf.Plane) *Gradient {
	out := &Gradient{
		Gx: make([]float32, p.W*p.H),
		Gy: make([]float32, p.W*p.H),
		W:  p.W,
		H:  p.H,
	}

	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var gx, gy float32
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx := clampCoord(x+kx, p.W)
					sy := clampCoord(y+ky, p.H)
					v := p.At(sx, sy)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			i := y*p.W + x
			out.Gx[i] = gx
			out.Gy[i] = gy
		}
	}
	return out
}

var sobelX = [3][3]float32{
	{-1, 0, 1},
	{-2, 0, 2},
	{-1, 0, 1},
}

var sobelY = [3][3]float32{
	{-1, -2, -1},
	{0, 0, 0},
	{1, 2, 1},
}

// Magnitude returns the per-pixel gradient magnitude as a plane.
func (g *Gradient) Magnitude() *imagebuf.Plane {
	out := imagebuf.NewPlane(g.W, g.H)
	for i := range out.Data {
		out.Data[i] = float32(math.Hypot(float64(g.Gx[i]), float64(g.Gy[i])))
	}
	return out
}
