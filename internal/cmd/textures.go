package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
	"github.com/MeKo-Tech/pbrforge/internal/material"
	"github.com/MeKo-Tech/pbrforge/internal/output"
	"github.com/MeKo-Tech/pbrforge/internal/pipeline"
)

var texturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Generate the default set of material texture sets",
	Long:  "Generate one texture set per entry in the default material preset list, for quickly populating an asset library.",
	RunE:  runTextures,
}

// defaultPresets pairs a material class with a representative prompt, used
// to batch-generate a starter library in one command.
var defaultPresets = []struct {
	Class  material.Class
	Prompt string
}{
	{material.Stone, "weathered grey granite block"},
	{material.Brick, "reclaimed red clay brick wall"},
	{material.Wood, "reclaimed oak plank flooring"},
	{material.Metal, "brushed stainless steel panel"},
	{material.Fabric, "woven cotton canvas"},
	{material.Concrete, "poured concrete with form lines"},
}

func init() {
	rootCmd.AddCommand(texturesCmd)

	texturesCmd.Flags().Int("size", 1024, "Texture size in pixels (square)")
	texturesCmd.Flags().Int64("seed", 1337, "Deterministic seed for texture generation")
	texturesCmd.Flags().Bool("force", false, "Overwrite texture sets that already exist")
	texturesCmd.Flags().Bool("preview", false, "Write a 2x2 tiled preview alongside each set")

	binds := []string{"size", "seed", "force", "preview"}
	for _, name := range binds {
		key := "textures-batch." + name
		if err := viper.BindPFlag(key, texturesCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}
}

func runTextures(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	size := viper.GetInt("textures-batch.size")
	seed := viper.GetInt64("textures-batch.seed")
	force := viper.GetBool("textures-batch.force")
	preview := viper.GetBool("textures-batch.preview")
	outDir := viper.GetString("output-dir")

	if size <= 0 {
		return fmt.Errorf("size must be positive")
	}

	prov, err := buildProvider()
	if err != nil {
		return err
	}
	gen := pipeline.NewGenerator(prov)

	var written, skipped int
	for i, preset := range defaultPresets {
		prefix := strings.ToLower(preset.Class.String())

		if !force {
			if existing, _ := output.ExistingSet(outDir, prefix, size, size); existing {
				skipped++
				continue
			}
		}

		req := pipeline.Request{
			Prompt:     preset.Prompt,
			Material:   preset.Class,
			Resolution: imagebuf.Resolution{Width: size, Height: size},
			Seed:       seed + int64(i)*1000,
			Timeout:    60 * time.Second,
		}

		result, err := gen.Generate(context.Background(), req)
		if err != nil {
			return fmt.Errorf("generate %s: %w", prefix, err)
		}
		for _, warning := range result.Warnings {
			logger.Warn(warning, "material", prefix)
		}

		if _, err := output.Write(result, output.Options{
			Directory:     outDir,
			Prefix:        prefix,
			CreatePreview: preview,
		}); err != nil {
			return fmt.Errorf("write %s: %w", prefix, err)
		}
		written++
	}

	logger.Info("texture batch complete", "written", written, "skipped", skipped, "dir", outDir)
	return nil
}
