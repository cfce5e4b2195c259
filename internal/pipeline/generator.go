package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"runtime"
	"time"

	"github.com/MeKo-Tech/pbrforge/internal/cache"
	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/pbr/ao"
	"github.com/MeKo-Tech/pbrforge/internal/pbr/diffuse"
	"github.com/MeKo-Tech/pbrforge/internal/pbr/height"
	"github.com/MeKo-Tech/pbrforge/internal/pbr/metallic"
	"github.com/MeKo-Tech/pbrforge/internal/pbr/normal"
	"github.com/MeKo-Tech/pbrforge/internal/pbr/roughness"
	"github.com/MeKo-Tech/pbrforge/internal/provider"
	"github.com/MeKo-Tech/pbrforge/internal/tessellate"
	"github.com/MeKo-Tech/pbrforge/internal/worker"
)

// Generator orchestrates a full texture-set generation: Init (validate) ->
// Intake (call the image provider) -> Normalize (resize/color-correct) ->
// Tessellate (make the diffuse seamless) -> SharedHeight (derive the height
// plane once) -> Fanout (derive the remaining requested maps in parallel)
// -> Seal (assemble the Result). The stages run in sequence, and the one
// intermediate they share is the height plane.
type Generator struct {
	Provider provider.ImageProvider

	// OnProgress, if set, is invoked after each fanout map finishes deriving.
	OnProgress worker.ProgressFunc

	// Cache, if set, is consulted on Intake (a hit skips the provider call
	// and every derivation stage entirely) and written back to after a
	// successful generation. Nil disables caching.
	Cache *cache.Store
}

// NewGenerator builds a Generator around the given image provider.
func NewGenerator(p provider.ImageProvider) *Generator {
	return &Generator{Provider: p}
}

// Generate runs a Request to completion. A failure inside one map's
// derivation is recorded as a warning rather than aborting the whole
// pipeline (see DerivationError); only a failure in Init, Intake,
// Normalize, Tessellate, or SharedHeight aborts the request outright, since
// every later stage depends on their output.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	diag := NewDiagnostics()

	if err := validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCancelled, err)
	}

	maps := req.Maps
	if len(maps) == 0 {
		maps = AllMapKinds
	}

	var cacheKey cache.Key
	if g.Cache != nil {
		cacheKey = req.CacheKey()
		if entries, ok, err := g.Cache.Get(cacheKey); err == nil && ok {
			if result, ok := resultFromCacheEntries(entries, maps); ok {
				return result, nil
			}
		}
	}

	// Intake.
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	raw, err := g.Provider.Generate(ctx, req.Prompt, req.Resolution.Width, req.Resolution.Height, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamImage, err)
	}
	if raw == nil || raw.Bounds().Dx() == 0 || raw.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: provider returned an empty image", ErrUpstreamImage)
	}

	// Normalize.
	src := imagebuf.FromNRGBA(raw)
	diffuseMaster, err := diffuse.Normalize(src, diffuse.DefaultParams(req.Resolution))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, err)
	}

	// Tessellate.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCancelled, err)
	}
	tessellated, err := tessellate.Tessellate(ctx, diffuseMaster, req.Tessellation)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, err)
	}

	// SharedHeight.
	heightParams := height.FromPreset(req.Material.Height())
	heightPlane := height.Derive(tessellated, heightParams)
	heightPlane, err = tessellate.TessellatePlane(ctx, heightPlane, req.Tessellation)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, err)
	}

	result := &Result{Maps: make(map[MapKind]image.Image, len(maps))}
	if wantsKind(maps, Diffuse) {
		result.Maps[Diffuse] = imagebuf.ToNRGBA(tessellated)
	}

	// Fanout: derive every other requested map in parallel.
	fanoutKinds := make([]MapKind, 0, len(maps))
	for _, k := range maps {
		if k != Diffuse {
			fanoutKinds = append(fanoutKinds, k)
		}
	}

	if len(fanoutKinds) > 0 {
		workers := len(fanoutKinds)
		if cores := runtime.NumCPU(); cores < workers {
			workers = cores
		}
		pool := worker.New(worker.Config{Workers: workers, OnProgress: g.OnProgress})

		tasks := make([]worker.Task, 0, len(fanoutKinds))
		for _, kind := range fanoutKinds {
			kind := kind
			tasks = append(tasks, worker.Task{
				Key: kind,
				Run: func(ctx context.Context) (interface{}, error) {
					img, warnings, err := deriveMap(kind, tessellated, heightPlane, req)
					for _, w := range warnings {
						diag.Warn(w)
					}
					return img, err
				},
			})
		}

		results := pool.Run(ctx, tasks)
		for _, r := range results {
			kind := r.Key.(MapKind)
			if r.Err != nil {
				diag.Warn(fmt.Sprintf("derivation failed for %s: %s", kind, r.Err))
				continue
			}
			result.Maps[kind] = r.Value.(image.Image)
		}
	}

	// Seal.
	result.Warnings = diag.Warnings()

	if g.Cache != nil {
		if entries, err := cacheEntriesFromResult(result); err == nil {
			_ = g.Cache.Put(cacheKey, entries)
		}
	}

	return result, nil
}

// CacheKey builds the cache.Key that identifies this request's output, so a
// repeated request with identical inputs can be served from the store
// without re-calling the provider or re-running any derivation.
func (req Request) CacheKey() cache.Key {
	return cache.Key{
		Prompt:         req.Prompt,
		MaterialClass:  req.Material.String(),
		Width:          req.Resolution.Width,
		Height:         req.Resolution.Height,
		Seed:           req.Seed,
		Algorithm:      req.Tessellation.Algorithm.String(),
		BlendWidth:     req.Tessellation.BlendWidth,
		CutoffFraction: float64(req.Tessellation.CutoffFraction),
	}
}

// cacheEntriesFromResult PNG-encodes every map in a Result for storage.
func cacheEntriesFromResult(result *Result) ([]cache.Entry, error) {
	entries := make([]cache.Entry, 0, len(result.Maps))
	for kind, img := range result.Maps {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode %s for cache: %w", kind, err)
		}
		entries = append(entries, cache.Entry{Kind: kind.String(), PNG: buf.Bytes()})
	}
	return entries, nil
}

// resultFromCacheEntries decodes cached PNG payloads back into a Result,
// failing closed (ok=false) if any requested map is missing from the cache
// entry or fails to decode, so the caller falls through to a live
// regeneration rather than serve a partial or corrupt cache hit.
func resultFromCacheEntries(entries []cache.Entry, wantMaps []MapKind) (*Result, bool) {
	byKind := make(map[string][]byte, len(entries))
	for _, e := range entries {
		byKind[e.Kind] = e.PNG
	}

	maps := make(map[MapKind]image.Image, len(wantMaps))
	for _, kind := range wantMaps {
		data, ok := byKind[kind.String()]
		if !ok {
			return nil, false
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, false
		}
		maps[kind] = img
	}

	return &Result{Maps: maps}, true
}

func wantsKind(maps []MapKind, want MapKind) bool {
	for _, k := range maps {
		if k == want {
			return true
		}
	}
	return false
}

func deriveMap(kind MapKind, diffuseImg *imagebuf.Image, heightPlane *imagebuf.Plane, req Request) (image.Image, []string, error) {
	switch kind {
	case Normal:
		strength := req.Derivation.NormalStrength
		if strength == 0 {
			strength = normal.DefaultParams().Strength
		}
		img, warnings := normal.Derive(heightPlane, normal.Params{
			Strength:     strength,
			BlurRadius:   req.Derivation.NormalBlurRadius,
			InvertHeight: req.Derivation.InvertHeight,
		})
		return imagebuf.ToNRGBA(img), warnings, nil
	case Roughness:
		p := roughness.FromPreset(req.Material, req.Material.Roughness())
		p.Directional = req.Derivation.RoughnessDirectional
		p.DirectionAngleDeg = req.Derivation.RoughnessDirectionAngleDeg
		p.Seed = req.Seed
		return imagebuf.PlaneToGray(roughness.Derive(diffuseImg, p)), nil, nil
	case Metallic:
		p := metallic.FromPreset(req.Material.Metallic())
		return imagebuf.PlaneToGray(metallic.Derive(diffuseImg, p)), nil, nil
	case Height:
		if req.Derivation.HeightBitDepth == 16 {
			return imagebuf.PlaneToGray16(heightPlane), nil, nil
		}
		return imagebuf.PlaneToGray(heightPlane), nil, nil
	case AO:
		p := ao.FromPreset(req.Material.AO())
		if req.Derivation.MinAO != 0 {
			p.MinAO = req.Derivation.MinAO
		}
		return imagebuf.PlaneToGray(ao.Derive(heightPlane, p)), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown map kind %v", kind)
	}
}

func validate(req Request) error {
	if req.Prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if !req.Resolution.Valid() {
		return fmt.Errorf("invalid resolution %v", req.Resolution)
	}
	for _, k := range req.Maps {
		switch k {
		case Diffuse, Normal, Roughness, Metallic, Height, AO:
		default:
			return fmt.Errorf("unknown map kind %v", k)
		}
	}
	return nil
}
