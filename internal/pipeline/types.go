// Package pipeline implements the orchestrator that turns a single text
// prompt into a full PBR texture set: it calls the AI image provider once,
// tessellates the result, derives a shared height plane, and fans out the
// remaining per-map derivations across a worker pool.
package pipeline

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/material"
	"github.com/MeKo-Tech/pbrforge/internal/tessellate"
)

// MapKind identifies one of the six texture maps a Request can ask for.
type MapKind int

const (
	Diffuse MapKind = iota
	Normal
	Roughness
	Metallic
	Height
	AO
)

func (k MapKind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Normal:
		return "normal"
	case Roughness:
		return "roughness"
	case Metallic:
		return "metallic"
	case Height:
		return "height"
	case AO:
		return "ao"
	default:
		return "unknown"
	}
}

// AllMapKinds is the full default set of maps a Request asks for when none
// is specified.
var AllMapKinds = []MapKind{Diffuse, Normal, Roughness, Metallic, Height, AO}

// ParseMapKind maps a config/CLI string to a MapKind.
func ParseMapKind(name string) (MapKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diffuse":
		return Diffuse, nil
	case "normal":
		return Normal, nil
	case "roughness":
		return Roughness, nil
	case "metallic":
		return Metallic, nil
	case "height":
		return Height, nil
	case "ao":
		return AO, nil
	default:
		return 0, fmt.Errorf("unrecognized texture type %q", name)
	}
}

// DerivationParams bundles the per-map tuning knobs that aren't already
// implied by the material preset table, so a caller can override a single
// map's parameters without having to respecify the whole preset.
type DerivationParams struct {
	NormalStrength   float32
	NormalBlurRadius float32
	InvertHeight     bool
	HeightBitDepth   int // 8 or 16; 0 selects 8

	// RoughnessDirectional and RoughnessDirectionAngleDeg are request-level
	// overrides for the metal directional streak overlay; unlike the other
	// roughness knobs these are never baked into a material preset.
	RoughnessDirectional       bool
	RoughnessDirectionAngleDeg float32

	// MinAO floors the ambient-occlusion map so no pixel reads as fully
	// occluded; 0 falls back to the material preset's MinAO.
	MinAO float32
}

// Request describes one texture-set generation.
type Request struct {
	Prompt       string
	Material     material.Class
	Resolution   imagebuf.Resolution
	Maps         []MapKind
	Tessellation tessellate.Params
	Derivation   DerivationParams
	Seed         int64
	Timeout      time.Duration
}

// Result is the outcome of a successful Request.
type Result struct {
	Maps     map[MapKind]image.Image
	Warnings []string
}
