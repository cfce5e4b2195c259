package kernel

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

func TestGaussianBlurPreservesFlatField(t *testing.T) {
	p := imagebuf.NewPlane(8, 8)
	for i := range p.Data {
		p.Data[i] = 0.5
	}
	out := GaussianBlur(p, 2)
	for i, v := range out.Data {
		if math.Abs(float64(v-0.5)) > 1e-5 {
			t.Fatalf("flat field should be unchanged by blur, got %v at %d", v, i)
		}
	}
}

func TestGaussianBlurZeroSigmaNoop(t *testing.T) {
	p := imagebuf.NewPlane(4, 4)
	p.Set(1, 1, 0.9)
	out := GaussianBlur(p, 0)
	if out.At(1, 1) != 0.9 {
		t.Fatalf("expected zero-sigma to be a no-op")
	}
}

func TestSobelFlatFieldIsZero(t *testing.T) {
	p := imagebuf.NewPlane(6, 6)
	for i := range p.Data {
		p.Data[i] = 0.4
	}
	g := Sobel(p)
	mag := g.Magnitude()
	for _, v := range mag.Data {
		if v > 1e-5 {
			t.Fatalf("flat field should have zero gradient, got %v", v)
		}
	}
}

func TestSobelDetectsVerticalEdge(t *testing.T) {
	p := imagebuf.NewPlane(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x >= 4 {
				p.Set(x, y, 1)
			}
		}
	}
	g := Sobel(p)
	mag := g.Magnitude()
	if mag.At(4, 4) <= mag.At(1, 4) {
		t.Fatalf("expected larger gradient at the edge than in a flat region")
	}
}

func TestOpenRemovesSinglePixelSpeckle(t *testing.T) {
	p := imagebuf.NewPlane(5, 5)
	p.Set(2, 2, 1)
	out := Open(p, 1)
	for _, v := range out.Data {
		if v != 0 {
			t.Fatalf("expected single-pixel speckle to be removed, got %v", v)
		}
	}
}

func TestFFTRoundTrip(t *testing.T) {
	p := imagebuf.NewPlane(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.Set(x, y, float32((x+y)%3)/2.0)
		}
	}
	spec := FFT2(p)
	back := IFFT2(spec)
	for i := range p.Data {
		if math.Abs(float64(p.Data[i]-back.Data[i])) > 1e-4 {
			t.Fatalf("round trip mismatch at %d: %v vs %v", i, p.Data[i], back.Data[i])
		}
	}
}

func TestFFTDCTermIsSum(t *testing.T) {
	p := imagebuf.NewPlane(4, 4)
	var sum float32
	for i := range p.Data {
		p.Data[i] = float32(i)
		sum += p.Data[i]
	}
	spec := FFT2(p)
	dc := spec.At(0, 0)
	expected := float64(sum)
	if math.Abs(real(dc)-expected) > 1e-6 {
		t.Fatalf("DC term should equal sum of inputs, got %v want %v", real(dc), expected)
	}
}
