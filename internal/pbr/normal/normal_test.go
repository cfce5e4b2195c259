package normal

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

func TestDeriveFlatHeightYieldsUpNormal(t *testing.T) {
	h := imagebuf.NewPlane(8, 8)
	for i := range h.Data {
		h.Data[i] = 0.5
	}
	out, warnings := Derive(h, DefaultParams())
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings for default params, got %v", warnings)
	}
	for i := range out.R {
		if math.Abs(float64(out.R[i]-0.5)) > 1e-4 || math.Abs(float64(out.G[i]-0.5)) > 1e-4 {
			t.Fatalf("expected flat normal (0.5,0.5,~1) at %d, got (%v,%v)", i, out.R[i], out.G[i])
		}
		if out.B[i] < 0.99 {
			t.Fatalf("expected B near 1 for an up-facing normal, got %v", out.B[i])
		}
	}
}

func TestDeriveProducesUnitLengthNormals(t *testing.T) {
	h := imagebuf.NewPlane(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			h.Set(x, y, float32(x)/15.0)
		}
	}
	out, _ := Derive(h, Params{Strength: 2.0})
	for i := range out.R {
		nx := float64(out.R[i])*2 - 1
		ny := float64(out.G[i])*2 - 1
		nz := float64(out.B[i])*2 - 1
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if math.Abs(length-1) > 1e-3 {
			t.Fatalf("normal not unit length at %d: %v", i, length)
		}
	}
}

func TestDeriveClampsStrengthAndWarns(t *testing.T) {
	h := imagebuf.NewPlane(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			h.Set(x, y, float32(x)/7.0)
		}
	}

	_, warnings := Derive(h, Params{Strength: 50})
	if len(warnings) == 0 {
		t.Fatal("expected a warning when strength exceeds MaxStrength")
	}

	_, warnings = Derive(h, Params{Strength: 0.001})
	if len(warnings) == 0 {
		t.Fatal("expected a warning when strength is below MinStrength")
	}
}

func TestDeriveInvertHeightFlipsGradientSign(t *testing.T) {
	h := imagebuf.NewPlane(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			h.Set(x, y, float32(x)/7.0)
		}
	}
	plain, _ := Derive(h, Params{Strength: 1.0})
	inverted, _ := Derive(h, Params{Strength: 1.0, InvertHeight: true})

	same := true
	for i := range plain.R {
		if math.Abs(float64(plain.R[i]-inverted.R[i])) > 1e-6 {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected InvertHeight to change the resulting normals")
	}
}
