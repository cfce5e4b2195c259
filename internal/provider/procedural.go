package provider

import (
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/aquilax/go-perlin"
)

// ProceduralMode selects the pattern a ProceduralProvider synthesizes.
type ProceduralMode int

const (
	// Flat emits a uniform color derived from the prompt's hash.
	Flat ProceduralMode = iota
	// Checkerboard emits a two-tone checkerboard, useful for visually
	// confirming that tessellation and resizing behave.
	Checkerboard
	// Perlin emits a colorized Perlin noise field, the closest offline
	// stand-in for a photographic AI-generated diffuse texture.
	Perlin
)

// ProceduralProvider is a deterministic, offline ImageProvider used for
// tests, examples, and a --provider=procedural CLI mode when no live image
// generation API is configured. It never makes a network call.
type ProceduralProvider struct {
	Mode ProceduralMode
	Seed int64
}

// NewProceduralProvider builds a ProceduralProvider. If seed is 0, a seed is
// derived from the prompt so repeated calls with the same prompt are
// reproducible without requiring the caller to manage a seed explicitly.
func NewProceduralProvider(mode ProceduralMode, seed int64) *ProceduralProvider {
	return &ProceduralProvider{Mode: mode, Seed: seed}
}

// Generate synthesizes an image without touching the network. ctx and
// timeout are accepted to satisfy the ImageProvider interface and are
// honored for cancellation, but generation itself is CPU-bound and
// effectively instantaneous.
func (p *ProceduralProvider) Generate(ctx context.Context, prompt string, width, height int, timeout time.Duration) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = promptSeed(prompt)
	}

	switch p.Mode {
	case Checkerboard:
		return checkerboard(width, height, seed), nil
	case Perlin:
		return perlinField(width, height, seed), nil
	default:
		return flat(width, height, seed), nil
	}
}

func promptSeed(prompt string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(prompt))
	return int64(h.Sum64())
}

func flat(w, h int, seed int64) image.Image {
	r := uint8((seed >> 16) & 0xFF)
	g := uint8((seed >> 8) & 0xFF)
	b := uint8(seed & 0xFF)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func checkerboard(w, h int, seed int64) image.Image {
	cell := 16
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	a := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	b := color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	if seed%2 != 0 {
		a, b = b, a
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

func perlinField(w, h int, seed int64) image.Image {
	gen := perlin.NewPerlin(2.0, 2.0, 3, seed)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	scale := float64(w) / 4.0
	if scale < 1 {
		scale = 1
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx := float64(x) / scale
			ny := float64(y) / scale
			v := gen.Noise2D(nx, ny)
			normalized := clampUnit((v + 1.0) / 2.0)

			tint := gen.Noise2D(nx+100, ny+100)
			hue := clampUnit((tint + 1.0) / 2.0)

			r, g, b := hueTint(normalized, hue)
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// hueTint maps a brightness value and a hue bias into an RGB triple,
// producing a mildly colorized noise field rather than flat grayscale.
func hueTint(brightness, hue float64) (r, g, b uint8) {
	base := brightness * 255
	warm := math.Sin(hue*math.Pi) * 20
	return uint8(clampUnit(brightness+warm/255) * 255),
		uint8(base),
		uint8(clampUnit(brightness-warm/255) * 255)
}
