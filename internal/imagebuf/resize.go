package imagebuf

import (
	"github.com/disintegration/imaging"
)

// Resize resamples an image to the given resolution using a Lanczos-3
// filter, matching the resize kernel used throughout the example corpus for
// high-quality downscale/upscale of photographic source material.
func Resize(img *Image, to Resolution) *Image {
	if img.W == to.Width && img.H == to.Height {
		return img.Clone()
	}
	src := ToNRGBA(img)
	resized := imaging.Resize(src, to.Width, to.Height, imaging.Lanczos)
	return FromNRGBA(resized)
}

// ResizePlane resamples a single-channel plane to the given resolution,
// going through the NRGBA/Lanczos path by replicating the channel.
func ResizePlane(p *Plane, w, h int) *Plane {
	if p.W == w && p.H == h {
		return p.Clone()
	}
	tmp := &Image{R: p.Data, G: p.Data, B: p.Data, W: p.W, H: p.H}
	resized := Resize(tmp, Resolution{Width: w, Height: h})
	out := NewPlane(w, h)
	copy(out.Data, resized.R)
	return out
}
