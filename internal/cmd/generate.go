package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pbrforge/internal/cache"
	"github.com/MeKo-Tech/pbrforge/internal/config"
	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/output"
	"github.com/MeKo-Tech/pbrforge/internal/pipeline"
	"github.com/MeKo-Tech/pbrforge/internal/provider"
	"github.com/MeKo-Tech/pbrforge/internal/tessellate"
	"github.com/MeKo-Tech/pbrforge/internal/worker"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single PBR texture set from a prompt",
	Long:  "Generate diffuse, normal, roughness, metallic, height, and ambient occlusion maps from a text prompt.",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("prompt", "", "Description of the surface to generate (required)")
	generateCmd.Flags().String("material", "generic", "Base material class (generic, stone, brick, wood, metal, fabric, concrete)")
	generateCmd.Flags().Int("width", 1024, "Texture width in pixels")
	generateCmd.Flags().Int("height", 1024, "Texture height in pixels")
	generateCmd.Flags().StringSlice("types", nil, "Subset of maps to produce (default: all)")
	generateCmd.Flags().Bool("seamless", true, "Apply the configured tessellation settings; false resets them to the offset defaults (the tessellation pass always runs)")
	generateCmd.Flags().String("tessellation-method", "offset", "Tessellation algorithm (offset, mirror, frequency)")
	generateCmd.Flags().Int("tessellation-blend-width", 0, "Seam blend band width in pixels (0 selects the default, max(16, min(w,h)/32))")
	generateCmd.Flags().Float64("normal-strength", 0, "Override the material preset's normal strength (0 uses the preset)")
	generateCmd.Flags().Int64("seed", 0, "Deterministic seed, used by the procedural provider")
	generateCmd.Flags().Bool("preview", false, "Write a 2x2 tiled preview of the diffuse map")
	generateCmd.Flags().String("prefix", "texture", "Output filename prefix")
	generateCmd.Flags().Bool("progress", false, "Print a progress bar while maps are derived")
	generateCmd.Flags().Bool("cache", true, "Consult and populate the on-disk generation cache")
	generateCmd.Flags().String("cache-path", "./pbrforge-cache.db", "Path to the generation cache database")

	// These bind onto the same nested keys internal/config.Load reads, so a
	// config file or PBRFORGE_ environment variable and an explicit flag
	// resolve through one layered precedence instead of two disjoint ones.
	nestedBinds := map[string]string{
		"material.base_material":              "material",
		"textures.resolution.width":           "width",
		"textures.resolution.height":          "height",
		"textures.types":                      "types",
		"textures.seamless":                   "seamless",
		"tessellation.method":                 "tessellation-method",
		"tessellation.blend_width":            "tessellation-blend-width",
		"material.properties.normal_strength": "normal-strength",
		"generation.seed":                     "seed",
		"output.create_preview":               "preview",
		"output.prefix":                       "prefix",
	}
	for key, flag := range nestedBinds {
		if err := viper.BindPFlag(key, generateCmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}

	flatBinds := []string{"prompt", "progress", "cache", "cache-path"}
	for _, name := range flatBinds {
		if err := viper.BindPFlag(name, generateCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	prompt := viper.GetString("prompt")
	if prompt == "" {
		return fmt.Errorf("--prompt is required")
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	for _, k := range cfg.Unrecognized {
		if k == "prompt" || k == "progress" || k == "cache" || k == "cache-path" {
			continue
		}
		logger.Warn("unrecognized config key", "key", k)
	}

	maps, err := cfg.MapKinds()
	if err != nil {
		return err
	}

	tessParams := cfg.TessellationParams()
	if !cfg.Textures.Seamless {
		tessParams = tessellate.Params{}
	}

	req := pipeline.Request{
		Prompt:       prompt,
		Material:     cfg.MaterialClass(),
		Resolution:   imagebuf.Resolution{Width: cfg.Textures.Width, Height: cfg.Textures.Height},
		Tessellation: tessParams,
		Maps:         maps,
		Seed:         cfg.Generation.Seed,
		Timeout:      60 * time.Second,
	}
	if cfg.Material.NormalStrength != 0 {
		req.Derivation.NormalStrength = float32(cfg.Material.NormalStrength)
	}

	prov, err := buildProvider()
	if err != nil {
		return err
	}

	gen := pipeline.NewGenerator(prov)
	if viper.GetBool("cache") {
		store, err := cache.Open(viper.GetString("cache-path"))
		if err != nil {
			return err
		}
		defer store.Close()
		gen.Cache = store
	}
	if viper.GetBool("progress") {
		total := 0
		for _, k := range req.Maps {
			if k != pipeline.Diffuse { // diffuse is not part of the fanout
				total++
			}
		}
		if len(req.Maps) == 0 {
			total = len(pipeline.AllMapKinds) - 1 // diffuse is not part of the fanout
		}
		tracker := worker.NewProgress(total, true)
		gen.OnProgress = tracker.Callback()
		defer tracker.Done()
	}

	result, err := gen.Generate(context.Background(), req)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	outDir := viper.GetString("output-dir")
	paths, err := output.Write(result, output.Options{
		Directory:     outDir,
		Prefix:        cfg.Output.Prefix,
		CreatePreview: cfg.Output.CreatePreview,
	})
	if err != nil {
		return err
	}

	logger.Info("texture set generated", "dir", outDir, "files", len(paths), "warnings", len(result.Warnings))
	return nil
}

func buildProvider() (provider.ImageProvider, error) {
	switch viper.GetString("provider") {
	case "", "procedural":
		return provider.NewProceduralProvider(provider.Perlin, viper.GetInt64("generation.seed")), nil
	case "http":
		return provider.NewHTTPProvider(provider.HTTPConfig{
			BaseURL: viper.GetString("generation.base_url"),
			APIKey:  viper.GetString("generation.api_key_ref"),
			Model:   viper.GetString("generation.model"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", viper.GetString("provider"))
	}
}
