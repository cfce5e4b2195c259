package provider

import (
	"context"
	"testing"
	"time"
)

func TestProceduralProviderDeterministic(t *testing.T) {
	p := NewProceduralProvider(Perlin, 42)
	a, err := p.Generate(context.Background(), "a mossy stone wall", 32, 32, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Generate(context.Background(), "a mossy stone wall", 32, 32, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("expected deterministic output at (%d,%d)", x, y)
			}
		}
	}
}

func TestProceduralProviderDifferentPromptsDiffer(t *testing.T) {
	p := NewProceduralProvider(Flat, 0)
	a, _ := p.Generate(context.Background(), "red brick", 4, 4, 0)
	b, _ := p.Generate(context.Background(), "blue fabric", 4, 4, 0)
	if a.At(0, 0) == b.At(0, 0) {
		t.Fatalf("expected different prompts to produce different flat colors")
	}
}

func TestProceduralProviderRespectsDimensions(t *testing.T) {
	p := NewProceduralProvider(Checkerboard, 7)
	img, err := p.Generate(context.Background(), "x", 48, 32, 0)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 48 || b.Dy() != 32 {
		t.Fatalf("expected 48x32, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProceduralProviderRespectsCancellation(t *testing.T) {
	p := NewProceduralProvider(Flat, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, "x", 4, 4, 0)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
