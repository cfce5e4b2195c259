package height

import (
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

func TestDeriveStaysInRangeWithDepthScale(t *testing.T) {
	lum := imagebuf.NewImage(16, 16)
	for i := range lum.R {
		v := float32(i%16) / 15.0
		lum.R[i], lum.G[i], lum.B[i] = v, v, v
	}
	out := Derive(lum, Params{DepthScale: 1.4})
	for i, v := range out.Data {
		if v < 0 || v > 1 {
			t.Fatalf("height value out of range at %d: %v", i, v)
		}
	}
}

func TestDerivePreservesMidpoint(t *testing.T) {
	lum := imagebuf.NewImage(4, 4)
	for i := range lum.R {
		lum.R[i], lum.G[i], lum.B[i] = 0.5, 0.5, 0.5
	}
	out := Derive(lum, Params{DepthScale: 2.0})
	for _, v := range out.Data {
		if v < 0.49 || v > 0.51 {
			t.Fatalf("expected midtone luminance to map to ~0.5 regardless of scale, got %v", v)
		}
	}
}

func TestDeriveIsMonotonicInLuminance(t *testing.T) {
	lum := imagebuf.NewImage(16, 1)
	for x := 0; x < 16; x++ {
		v := float32(x) / 15.0
		lum.Set(x, 0, v, v, v)
	}
	out := Derive(lum, Params{DepthScale: 1.2})
	var prev float32 = -1
	for x := 0; x < 16; x++ {
		v := out.At(x, 0)
		if v < prev {
			t.Fatalf("expected height to be monotonic in luminance at x=%d: %v < %v", x, v, prev)
		}
		prev = v
	}
}

func TestDeriveDeterministic(t *testing.T) {
	src := imagebuf.NewImage(8, 8)
	for i := range src.R {
		v := float32(i%8) / 7.0
		src.R[i], src.G[i], src.B[i] = v, v, v
	}
	a := Derive(src, Params{DepthScale: 1.2})
	b := Derive(src, Params{DepthScale: 1.2})
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("expected deterministic output at %d", i)
		}
	}
}
