package ao

import (
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/material"
)

func TestDeriveOutputInRange(t *testing.T) {
	h := imagebuf.NewPlane(24, 24)
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			v := float32(0.5)
			if x > 8 && x < 16 && y > 8 && y < 16 {
				v = 0.1
			}
			h.Set(x, y, v)
		}
	}
	out := Derive(h, FromPreset(material.Stone.AO()))
	for _, v := range out.Data {
		if v < 0 || v > 1 {
			t.Fatalf("ao value out of range: %v", v)
		}
	}
}

func TestDeriveFlatHeightHasNoCavityDarkening(t *testing.T) {
	h := imagebuf.NewPlane(16, 16)
	for i := range h.Data {
		h.Data[i] = 0.5
	}
	out := Derive(h, FromPreset(material.Generic.AO()))
	for _, v := range out.Data {
		if v < 0.75 {
			t.Fatalf("expected a flat height field with no cavities to read as mostly lit, got %v", v)
		}
	}
}

func TestDeriveCavityDarkerThanSurroundings(t *testing.T) {
	h := imagebuf.NewPlane(32, 32)
	for i := range h.Data {
		h.Data[i] = 0.6
	}
	for y := 14; y < 18; y++ {
		for x := 14; x < 18; x++ {
			h.Set(x, y, 0.1)
		}
	}
	out := Derive(h, FromPreset(material.Generic.AO()))
	if out.At(16, 16) >= out.At(2, 2) {
		t.Fatalf("expected the cavity to be darker than a flat region: cavity=%v flat=%v",
			out.At(16, 16), out.At(2, 2))
	}
}

func TestDeriveRespectsMinAOFloor(t *testing.T) {
	h := imagebuf.NewPlane(16, 16)
	for i := range h.Data {
		h.Data[i] = 0.0
	}
	p := FromPreset(material.Stone.AO())
	p.MinAO = 0.2
	out := Derive(h, p)
	for _, v := range out.Data {
		if v < p.MinAO-1e-5 {
			t.Fatalf("expected every ao value to respect the min_ao floor of %v, got %v", p.MinAO, v)
		}
	}
}

func TestDeriveFabricWeaveOverlayStaysInRange(t *testing.T) {
	h := imagebuf.NewPlane(16, 16)
	for i := range h.Data {
		h.Data[i] = 0.5
	}
	out := Derive(h, FromPreset(material.Fabric.AO()))
	for _, v := range out.Data {
		if v < 0 || v > 1 {
			t.Fatalf("ao value out of range with weave overlay: %v", v)
		}
	}
}
