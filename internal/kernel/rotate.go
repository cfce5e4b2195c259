package kernel

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

// RotatePlane rotates a plane by the given angle (degrees) around its
// center, used by the roughness directional-streak pass (rotate, blur along
// an axis, rotate back). Out-of-bounds samples are filled with the plane's
// mean value rather than black, so the subsequent blur doesn't darken the
// edges.
func RotatePlane(p *imagebuf.Plane, degrees float32) *imagebuf.Plane {
	mean := meanOf(p)
	gray := imagebuf.PlaneToGray(p)

	fill := color.Gray{Y: uint8(mean*255 + 0.5)}
	g := gift.New(gift.Rotate(degrees, fill, gift.CubicInterpolation))
	bounds := g.Bounds(gray.Bounds())
	dst := image.NewGray(bounds)
	g.Draw(dst, gray)

	return grayToPlane(dst, p)
}

func meanOf(p *imagebuf.Plane) float32 {
	var sum float32
	for _, v := range p.Data {
		sum += v
	}
	return sum / float32(len(p.Data))
}

// grayToPlane converts an image.Gray (possibly a different size than
// original, due to rotation bounds growth) back to a plane cropped/centered
// to the original dimensions.
func grayToPlane(src *image.Gray, ref *imagebuf.Plane) *imagebuf.Plane {
	b := src.Bounds()
	offX := (b.Dx() - ref.W) / 2
	offY := (b.Dy() - ref.H) / 2
	out := imagebuf.NewPlane(ref.W, ref.H)
	for y := 0; y < ref.H; y++ {
		for x := 0; x < ref.W; x++ {
			sx := b.Min.X + clampCoord(x+offX, b.Dx())
			sy := b.Min.Y + clampCoord(y+offY, b.Dy())
			out.Set(x, y, float32(src.GrayAt(sx, sy).Y)/255.0)
		}
	}
	return out
}
