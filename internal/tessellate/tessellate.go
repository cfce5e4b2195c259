package tessellate

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

// Tessellate dispatches to the configured algorithm and returns a new
// seamlessly-tileable image. The source image is never mutated.
func Tessellate(ctx context.Context, img *imagebuf.Image, p Params) (*imagebuf.Image, error) {
	if img == nil || img.W == 0 || img.H == 0 {
		return nil, fmt.Errorf("tessellate: empty image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = p.resolve(img.W, img.H)

	switch p.Algorithm {
	case Offset:
		return tessellateOffset(img, p), nil
	case Mirror:
		return tessellateMirror(img, p), nil
	case Frequency:
		return tessellateFrequency(img, p), nil
	default:
		return nil, fmt.Errorf("tessellate: unknown algorithm %v", p.Algorithm)
	}
}

// TessellatePlane applies the same algorithm to a single-channel plane, used
// for the shared height plane so it tiles consistently with the diffuse
// output it was derived from.
func TessellatePlane(ctx context.Context, p *imagebuf.Plane, params Params) (*imagebuf.Plane, error) {
	if p == nil || p.W == 0 || p.H == 0 {
		return nil, fmt.Errorf("tessellate: empty plane")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := &imagebuf.Image{R: p.Data, G: p.Data, B: p.Data, W: p.W, H: p.H}
	out, err := Tessellate(ctx, img, params)
	if err != nil {
		return nil, err
	}
	result := imagebuf.NewPlane(p.W, p.H)
	copy(result.Data, out.R)
	return result, nil
}

// eachChannel applies fn independently to the R, G, and B planes of img and
// assembles the result into a new Image.
func eachChannel(img *imagebuf.Image, fn func(*imagebuf.Plane) *imagebuf.Plane) *imagebuf.Image {
	r := fn(planeOf(img.R, img.W, img.H))
	g := fn(planeOf(img.G, img.W, img.H))
	b := fn(planeOf(img.B, img.W, img.H))
	return &imagebuf.Image{R: r.Data, G: g.Data, B: b.Data, W: img.W, H: img.H}
}

func planeOf(data []float32, w, h int) *imagebuf.Plane {
	return &imagebuf.Plane{Data: data, W: w, H: h}
}
