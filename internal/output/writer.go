// Package output writes a generated texture set to disk in the filesystem
// layout consumed by downstream tools: one PNG per map named
// "<prefix>_<kind>_<W>x<H>.png", plus an optional 2x2 tiled preview of the
// diffuse map.
package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/MeKo-Tech/pbrforge/internal/pipeline"
)

// Options configures where and how a texture set is written.
type Options struct {
	Directory     string
	Prefix        string
	CreatePreview bool
}

// Write saves every map in result to Directory, named by Options.Prefix,
// and returns the list of file paths written.
func Write(result *pipeline.Result, opts Options) ([]string, error) {
	if opts.Directory == "" {
		return nil, fmt.Errorf("output directory must not be empty")
	}
	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for kind, img := range result.Maps {
		bounds := img.Bounds()
		name := fmt.Sprintf("%s_%s_%dx%d.png", opts.Prefix, kind, bounds.Dx(), bounds.Dy())
		path := filepath.Join(opts.Directory, name)
		if err := writePNG(path, img); err != nil {
			return written, fmt.Errorf("write %s map: %w", kind, err)
		}
		written = append(written, path)
	}

	if opts.CreatePreview {
		diffuse, ok := result.Maps[pipeline.Diffuse]
		if ok {
			preview := tilePreview(diffuse)
			path := filepath.Join(opts.Directory, opts.Prefix+"_preview.png")
			if err := writePNG(path, preview); err != nil {
				return written, fmt.Errorf("write preview: %w", err)
			}
			written = append(written, path)
		}
	}

	return written, nil
}

// ExistingSet reports whether a diffuse map for the given prefix and
// dimensions already exists in dir, used by batch generation to skip
// presets that were already written.
func ExistingSet(dir, prefix string, width, height int) (bool, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_diffuse_%dx%d.png", prefix, width, height))
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// tilePreview builds a 2x2 tiled thumbnail of img, each tile half the
// original's linear dimensions, so the result stays the same overall size
// while visually demonstrating seamlessness.
func tilePreview(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	halfW, halfH := w/2, h/2
	if halfW < 1 {
		halfW = 1
	}
	if halfH < 1 {
		halfH = 1
	}

	thumb := image.NewNRGBA(image.Rect(0, 0, halfW, halfH))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), img, b, draw.Over, nil)

	preview := image.NewNRGBA(image.Rect(0, 0, halfW*2, halfH*2))
	for ty := 0; ty < 2; ty++ {
		for tx := 0; tx < 2; tx++ {
			offset := image.Pt(tx*halfW, ty*halfH)
			draw.Draw(preview, thumb.Bounds().Add(offset), thumb, image.Point{}, draw.Src)
		}
	}
	return preview
}
