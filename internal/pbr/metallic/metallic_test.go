package metallic

import (
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

func TestDeriveZeroThresholdIsUniform(t *testing.T) {
	src := imagebuf.NewImage(8, 8)
	for i := range src.R {
		src.R[i] = float32(i%8) / 7.0
		src.G[i], src.B[i] = src.R[i], src.R[i]
	}
	out := Derive(src, Params{Threshold: 0, UniformValue: 0.3})
	for _, v := range out.Data {
		if v != 0.3 {
			t.Fatalf("expected uniform plane at 0.3, got %v", v)
		}
	}
}

func TestDeriveThresholdProducesBinaryLikeMask(t *testing.T) {
	src := imagebuf.NewImage(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := float32(0.2)
			if x >= 8 {
				v = 0.9
			}
			src.Set(x, y, v, v, v)
		}
	}
	out := Derive(src, Params{Threshold: 0.6, UniformValue: 1, OpenRadius: 1})
	if out.At(2, 8) != 0 {
		t.Fatalf("expected dark region to be non-metallic")
	}
	if out.At(12, 8) != 1 {
		t.Fatalf("expected bright region to be metallic")
	}
}

func TestDeriveOpenRemovesSpeckle(t *testing.T) {
	src := imagebuf.NewImage(9, 9)
	for i := range src.R {
		src.R[i], src.G[i], src.B[i] = 0.1, 0.1, 0.1
	}
	src.Set(4, 4, 0.99, 0.99, 0.99)
	out := Derive(src, Params{Threshold: 0.5, OpenRadius: 1})
	if out.At(4, 4) != 0 {
		t.Fatalf("expected isolated speckle to be opened away")
	}
}
