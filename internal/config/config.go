// Package config loads the nested configuration structure described in the
// external interfaces contract: texture resolution/types, material class,
// tessellation overrides, generation (AI collaborator) settings, and output
// writer settings. It follows the viper-backed layered-config pattern: flags
// bind into viper and viper reads an optional config file and PBRFORGE_
// environment variables; an explicitly set flag wins over the environment,
// which wins over the config file.
package config

import (
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pbrforge/internal/material"
	"github.com/MeKo-Tech/pbrforge/internal/pipeline"
	"github.com/MeKo-Tech/pbrforge/internal/tessellate"
)

// Textures holds the requested output shape.
type Textures struct {
	Width    int
	Height   int
	Types    []string
	Seamless bool
}

// MaterialConfig holds the material class and any property overrides.
type MaterialConfig struct {
	BaseMaterial   string
	RoughnessRange [2]float64
	MetallicValue  float64
	NormalStrength float64
}

// TessellationConfig overrides tessellation defaults.
type TessellationConfig struct {
	Method      string
	BlendWidth  int
	CornerBlend bool
}

// GenerationConfig configures the AI collaborator, opaque to the core.
type GenerationConfig struct {
	Model     string
	APIKeyRef string
	BaseURL   string
	Provider  string
	Seed      int64
}

// OutputConfig configures the out-of-core file writer.
type OutputConfig struct {
	Directory     string
	Prefix        string
	CreatePreview bool
}

// Config is the fully resolved, recognized configuration. Unrecognized
// keys present in the source are preserved in Unrecognized and ignored by
// the core, per the external interfaces contract.
type Config struct {
	Textures     Textures
	Material     MaterialConfig
	Tessellation TessellationConfig
	Generation   GenerationConfig
	Output       OutputConfig
	Unrecognized []string
}

var recognizedKeys = map[string]bool{
	"textures.resolution.width":           true,
	"textures.resolution.height":          true,
	"textures.types":                      true,
	"textures.seamless":                   true,
	"material.base_material":              true,
	"material.properties.roughness_range": true,
	"material.properties.metallic_value":  true,
	"material.properties.normal_strength": true,
	"tessellation.method":                 true,
	"tessellation.blend_width":            true,
	"tessellation.corner_blend":           true,
	"generation.model":                    true,
	"generation.api_key_ref":              true,
	"generation.base_url":                 true,
	"generation.provider":                 true,
	"generation.seed":                     true,
	"output.directory":                    true,
	"output.prefix":                       true,
	"output.create_preview":               true,
}

// Load reads configuration from the given viper instance, already populated
// via file/env/flag bindings by the caller, and returns the recognized
// structure plus a list of unrecognized keys (full dotted key paths).
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Textures: Textures{
			Width:    v.GetInt("textures.resolution.width"),
			Height:   v.GetInt("textures.resolution.height"),
			Types:    v.GetStringSlice("textures.types"),
			Seamless: v.GetBool("textures.seamless"),
		},
		Material: MaterialConfig{
			BaseMaterial:   v.GetString("material.base_material"),
			MetallicValue:  v.GetFloat64("material.properties.metallic_value"),
			NormalStrength: v.GetFloat64("material.properties.normal_strength"),
		},
		Tessellation: TessellationConfig{
			Method:      v.GetString("tessellation.method"),
			BlendWidth:  v.GetInt("tessellation.blend_width"),
			CornerBlend: v.GetBool("tessellation.corner_blend"),
		},
		Generation: GenerationConfig{
			Model:     v.GetString("generation.model"),
			APIKeyRef: v.GetString("generation.api_key_ref"),
			BaseURL:   v.GetString("generation.base_url"),
			Provider:  v.GetString("generation.provider"),
			Seed:      v.GetInt64("generation.seed"),
		},
		Output: OutputConfig{
			Directory:     v.GetString("output.directory"),
			Prefix:        v.GetString("output.prefix"),
			CreatePreview: v.GetBool("output.create_preview"),
		},
	}

	if cfg.Material.BaseMaterial == "" {
		cfg.Material.BaseMaterial = "generic"
	}
	if rr := v.GetFloatSlice("material.properties.roughness_range"); len(rr) == 2 {
		cfg.Material.RoughnessRange = [2]float64{rr[0], rr[1]}
	}

	for _, k := range allSettingKeys(v) {
		if !recognizedKeys[k] {
			cfg.Unrecognized = append(cfg.Unrecognized, k)
		}
	}

	return cfg, nil
}

// allSettingKeys walks viper's flattened settings map and returns every
// dotted key present, so Load can flag anything it doesn't recognize.
func allSettingKeys(v *viper.Viper) []string {
	var keys []string
	var walk func(prefix string, m map[string]interface{})
	walk = func(prefix string, m map[string]interface{}) {
		for k, val := range m {
			full := k
			if prefix != "" {
				full = prefix + "." + k
			}
			if nested, ok := val.(map[string]interface{}); ok {
				walk(full, nested)
				continue
			}
			keys = append(keys, full)
		}
	}
	walk("", v.AllSettings())
	return keys
}

// MaterialClass resolves the configured base material string to a
// material.Class via case-insensitive prefix match.
func (c *Config) MaterialClass() material.Class {
	return material.Parse(c.Material.BaseMaterial)
}

// TessellationParams builds tessellate.Params from the configured
// overrides, falling back to tessellate's own defaults for zero values.
func (c *Config) TessellationParams() tessellate.Params {
	algo, err := tessellate.ParseAlgorithm(c.Tessellation.Method)
	if err != nil {
		algo = tessellate.Offset
	}
	return tessellate.Params{
		Algorithm:      algo,
		BlendWidth:     c.Tessellation.BlendWidth,
		CutoffFraction: tessellate.DefaultCutoffFraction,
	}
}

// MapKinds resolves the configured texture type names to pipeline.MapKind
// values, returning an error naming any it doesn't recognize.
func (c *Config) MapKinds() ([]pipeline.MapKind, error) {
	if len(c.Textures.Types) == 0 {
		return pipeline.AllMapKinds, nil
	}
	kinds := make([]pipeline.MapKind, 0, len(c.Textures.Types))
	for _, name := range c.Textures.Types {
		kind, err := pipeline.ParseMapKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
