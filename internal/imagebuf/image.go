// Package imagebuf provides the planar image buffer primitives shared by the
// tessellation engine and every map derivation kernel.
package imagebuf

import (
	"fmt"
	"image"
	"image/color"
)

// Resolution is a square or rectangular pixel size. Width and Height must be
// positive; callers validate before constructing derived buffers.
type Resolution struct {
	Width  int
	Height int
}

// Valid reports whether the resolution describes a usable buffer.
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Image is a planar RGB float32 buffer in [0, 1] per channel. Planar storage
// (rather than interleaved) keeps the per-channel filter kernels (blur,
// Sobel, FFT) operating on contiguous slices.
type Image struct {
	R, G, B []float32
	W, H    int
}

// NewImage allocates a zeroed RGB image of the given dimensions.
func NewImage(w, h int) *Image {
	n := w * h
	return &Image{
		R: make([]float32, n),
		G: make([]float32, n),
		B: make([]float32, n),
		W: w,
		H: h,
	}
}

// Resolution returns the image's dimensions.
func (img *Image) Resolution() Resolution {
	return Resolution{Width: img.W, Height: img.H}
}

func (img *Image) idx(x, y int) int {
	return y*img.W + x
}

// At returns the RGB value at (x, y).
func (img *Image) At(x, y int) (r, g, b float32) {
	i := img.idx(x, y)
	return img.R[i], img.G[i], img.B[i]
}

// Set writes the RGB value at (x, y).
func (img *Image) Set(x, y int, r, g, b float32) {
	i := img.idx(x, y)
	img.R[i] = r
	img.G[i] = g
	img.B[i] = b
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	out := &Image{
		R: make([]float32, len(img.R)),
		G: make([]float32, len(img.G)),
		B: make([]float32, len(img.B)),
		W: img.W,
		H: img.H,
	}
	copy(out.R, img.R)
	copy(out.G, img.G)
	copy(out.B, img.B)
	return out
}

// Plane is a single-channel float32 buffer, used for grayscale-derived maps
// (height, roughness, AO, luminance) and as the working type of the filter
// kernels in internal/kernel.
type Plane struct {
	Data []float32
	W, H int
}

// NewPlane allocates a zeroed plane of the given dimensions.
func NewPlane(w, h int) *Plane {
	return &Plane{Data: make([]float32, w*h), W: w, H: h}
}

func (p *Plane) idx(x, y int) int {
	return y*p.W + x
}

// At returns the value at (x, y).
func (p *Plane) At(x, y int) float32 {
	return p.Data[p.idx(x, y)]
}

// Set writes the value at (x, y).
func (p *Plane) Set(x, y int, v float32) {
	p.Data[p.idx(x, y)] = v
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	out := &Plane{Data: make([]float32, len(p.Data)), W: p.W, H: p.H}
	copy(out.Data, p.Data)
	return out
}

// ClampInPlace clamps every element of the plane to [lo, hi].
func (p *Plane) ClampInPlace(lo, hi float32) {
	for i, v := range p.Data {
		if v < lo {
			p.Data[i] = lo
		} else if v > hi {
			p.Data[i] = hi
		}
	}
}

// Luminance converts an RGB image to a single-channel plane using the
// Rec. 601 luma coefficients (Y = 0.299R + 0.587G + 0.114B), the
// conversion the per-map derivation packages (roughness, metallic, height,
// AO) read their luminance from.
func Luminance(img *Image) *Plane {
	out := NewPlane(img.W, img.H)
	for i := range out.Data {
		out.Data[i] = 0.299*img.R[i] + 0.587*img.G[i] + 0.114*img.B[i]
	}
	return out
}

// FromNRGBA converts a standard library image into a planar float32 Image,
// normalizing 8-bit channel values into [0, 1].
func FromNRGBA(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := out.idx(x, y)
			out.R[i] = float32(r) / 65535.0
			out.G[i] = float32(g) / 65535.0
			out.B[i] = float32(b) / 65535.0
		}
	}
	return out
}

// ToNRGBA converts a planar float32 Image back into a standard library
// image, clamping to [0, 1] before quantizing to 8 bits.
func ToNRGBA(img *Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			r, g, b := img.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: to8(r),
				G: to8(g),
				B: to8(b),
				A: 255,
			})
		}
	}
	return out
}

// PlaneToGray converts a plane to an 8-bit grayscale image, clamping to
// [0, 1] before quantizing.
func PlaneToGray(p *Plane) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.W, p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			out.SetGray(x, y, color.Gray{Y: to8(p.At(x, y))})
		}
	}
	return out
}

// PlaneToGray16 quantizes a plane to a 16-bit grayscale image, used for the
// optional 16-bit height output.
func PlaneToGray16(p *Plane) *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, p.W, p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			v := p.At(x, y)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			out.SetGray16(x, y, color.Gray16{Y: uint16(v*65535.0 + 0.5)})
		}
	}
	return out
}

func to8(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255.0 + 0.5)
}
