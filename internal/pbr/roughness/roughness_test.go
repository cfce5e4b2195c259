package roughness

import (
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

func TestDeriveOutputInRange(t *testing.T) {
	src := imagebuf.NewImage(16, 16)
	for i := range src.R {
		v := float32(i%16) / 15.0
		src.R[i], src.G[i], src.B[i] = v, v, v
	}
	out := Derive(src, Params{BaseValue: 0.6, Contrast: 0.4})
	for _, v := range out.Data {
		if v < 0 || v > 1 {
			t.Fatalf("roughness value out of range: %v", v)
		}
	}
}

func TestDeriveBrighterIsRougher(t *testing.T) {
	dark := imagebuf.NewImage(4, 4)
	bright := imagebuf.NewImage(4, 4)
	for i := range dark.R {
		dark.R[i], dark.G[i], dark.B[i] = 0.1, 0.1, 0.1
		bright.R[i], bright.G[i], bright.B[i] = 0.9, 0.9, 0.9
	}
	p := Params{BaseValue: 0.5, Contrast: 0.4}
	darkOut := Derive(dark, p)
	brightOut := Derive(bright, p)
	if brightOut.At(0, 0) <= darkOut.At(0, 0) {
		t.Fatalf("expected brighter source to yield higher roughness: bright=%v dark=%v",
			brightOut.At(0, 0), darkOut.At(0, 0))
	}
}

func TestDeriveInvertFlipsLuminanceResponse(t *testing.T) {
	dark := imagebuf.NewImage(4, 4)
	bright := imagebuf.NewImage(4, 4)
	for i := range dark.R {
		dark.R[i], dark.G[i], dark.B[i] = 0.1, 0.1, 0.1
		bright.R[i], bright.G[i], bright.B[i] = 0.9, 0.9, 0.9
	}
	p := Params{BaseValue: 0.5, Contrast: 0.4, Invert: true}
	darkOut := Derive(dark, p)
	brightOut := Derive(bright, p)
	if brightOut.At(0, 0) >= darkOut.At(0, 0) {
		t.Fatalf("expected inverted preset to make brighter source smoother: bright=%v dark=%v",
			brightOut.At(0, 0), darkOut.At(0, 0))
	}
}

func TestDeriveWithDirectionalStreakStaysInRange(t *testing.T) {
	src := imagebuf.NewImage(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := float32((x + y) % 2)
			src.Set(x, y, v, v, v)
		}
	}
	out := Derive(src, Params{
		BaseValue:         0.3,
		Contrast:          0.3,
		IsMetal:           true,
		Directional:       true,
		DirectionAngleDeg: 45,
	})
	for _, v := range out.Data {
		if v < 0 || v > 1 {
			t.Fatalf("roughness value out of range with streak: %v", v)
		}
	}
}

func TestDeriveMetalFloorsAtPointOneFive(t *testing.T) {
	src := imagebuf.NewImage(8, 8)
	for i := range src.R {
		src.R[i], src.G[i], src.B[i] = 1, 1, 1
	}
	out := Derive(src, Params{BaseValue: 0.0, Contrast: 0.0, IsMetal: true})
	for _, v := range out.Data {
		if v < 0.15-DefaultVariation {
			t.Fatalf("expected metal roughness to floor at 0.15 before the +/-variation noise, got %v", v)
		}
	}
}

func TestDeriveIsDeterministicForFixedSeed(t *testing.T) {
	src := imagebuf.NewImage(16, 16)
	for i := range src.R {
		v := float32(i%16) / 15.0
		src.R[i], src.G[i], src.B[i] = v, v, v
	}
	p := Params{BaseValue: 0.5, Contrast: 0.3, Variation: 0.05, Seed: 7}
	a := Derive(src, p)
	b := Derive(src, p)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("expected deterministic output at %d", i)
		}
	}
}
