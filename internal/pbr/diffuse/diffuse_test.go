package diffuse

import (
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

func TestNormalizeResizes(t *testing.T) {
	src := imagebuf.NewImage(100, 50)
	out, err := Normalize(src, DefaultParams(imagebuf.Resolution{Width: 64, Height: 64}))
	if err != nil {
		t.Fatal(err)
	}
	if out.W != 64 || out.H != 64 {
		t.Fatalf("expected 64x64, got %dx%d", out.W, out.H)
	}
}

func TestNormalizeRejectsEmptySource(t *testing.T) {
	_, err := Normalize(&imagebuf.Image{}, DefaultParams(imagebuf.Resolution{Width: 16, Height: 16}))
	if err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestNormalizeRejectsInvalidResolution(t *testing.T) {
	src := imagebuf.NewImage(16, 16)
	_, err := Normalize(src, Params{Resolution: imagebuf.Resolution{Width: 0, Height: 16}})
	if err == nil {
		t.Fatal("expected error for invalid resolution")
	}
}

func TestNormalizeGammaChangesMidtones(t *testing.T) {
	src := imagebuf.NewImage(8, 8)
	for i := range src.R {
		src.R[i], src.G[i], src.B[i] = 0.5, 0.5, 0.5
	}
	out, err := Normalize(src, Params{Resolution: imagebuf.Resolution{Width: 8, Height: 8}, GammaCorrect: 2.0})
	if err != nil {
		t.Fatal(err)
	}
	r, _, _ := out.At(0, 0)
	if r == 0.5 {
		t.Fatalf("expected gamma adjustment to change midtone value")
	}
}
