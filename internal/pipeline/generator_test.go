package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/material"
	"github.com/MeKo-Tech/pbrforge/internal/provider"
	"github.com/MeKo-Tech/pbrforge/internal/tessellate"
)

func testRequest() Request {
	return Request{
		Prompt:     "weathered stone wall",
		Material:   material.Stone,
		Resolution: imagebuf.Resolution{Width: 32, Height: 32},
		Timeout:    time.Second,
	}
}

func TestGenerateProducesAllMaps(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Perlin, 1))
	result, err := gen.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range AllMapKinds {
		img, ok := result.Maps[kind]
		if !ok {
			t.Errorf("missing map %v", kind)
			continue
		}
		b := img.Bounds()
		if b.Dx() != 32 || b.Dy() != 32 {
			t.Errorf("map %v has wrong dimensions: %dx%d", kind, b.Dx(), b.Dy())
		}
	}
}

func TestGenerateRespectsRequestedSubset(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Flat, 2))
	req := testRequest()
	req.Maps = []MapKind{Diffuse, Normal}
	result, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Maps) != 2 {
		t.Fatalf("expected exactly 2 maps, got %d", len(result.Maps))
	}
	if _, ok := result.Maps[Roughness]; ok {
		t.Fatal("did not request roughness but got it")
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Flat, 1))
	req := testRequest()
	req.Prompt = ""
	_, err := gen.Generate(context.Background(), req)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGenerateRejectsInvalidResolution(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Flat, 1))
	req := testRequest()
	req.Resolution = imagebuf.Resolution{Width: 0, Height: 32}
	_, err := gen.Generate(context.Background(), req)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGenerateRespectsCancellation(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Flat, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gen.Generate(ctx, testRequest())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestGenerateWithFrequencyTessellation(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Perlin, 3))
	req := testRequest()
	req.Tessellation = tessellate.Params{Algorithm: tessellate.Frequency}
	req.Maps = []MapKind{Diffuse}
	_, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
}

func TestGenerateIsDeterministicForProceduralInput(t *testing.T) {
	gen := NewGenerator(provider.NewProceduralProvider(provider.Perlin, 9))
	req := testRequest()
	req.Maps = []MapKind{Diffuse}

	r1, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	img1 := r1.Maps[Diffuse]
	img2 := r2.Maps[Diffuse]
	b := img1.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img1.At(x, y) != img2.At(x, y) {
				t.Fatalf("expected deterministic output at (%d,%d)", x, y)
			}
		}
	}
}
