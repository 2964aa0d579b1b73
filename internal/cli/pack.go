package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tqdev/spritepack/pkg/config"
	"github.com/tqdev/spritepack/pkg/loader"
	"github.com/tqdev/spritepack/pkg/pipeline"
)

// Output file names written by the pack command.
const (
	atlasFileName      = "sprite.png"
	stylesheetFileName = "sprite.css"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	configPath string // config file path ("" uses spritepack.toml when present)
	output     string // output directory for sprite.png and sprite.css
	maxWidth   int    // atlas maximum row width in pixels
	noCache    bool   // disable caching
	refresh    bool   // recompute even when cached results exist
	clean      bool   // remove the sprite directory after a successful pack
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack [sprite-dir]",
		Short: "Pack a directory of images into a sprite sheet",
		Long: `Pack a directory of images into a sprite sheet.

The pack command reads every PNG and BMP image in the sprite directory,
groups them by size, packs them into rows of a fixed-width atlas, and
writes sprite.png along with a sprite.css stylesheet whose class names
match the image file names.

Output is deterministic: the same inputs always produce byte-identical
files. Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			spriteDir := cfg.SpriteDir
			if len(args) == 1 {
				spriteDir = args[0]
			}
			if opts.output == "" {
				opts.output = cfg.OutputDir
			}
			if opts.maxWidth == 0 {
				opts.maxWidth = cfg.MaxWidth
			}

			return c.runPack(cmd.Context(), spriteDir, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default spritepack.toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory for sprite.png and sprite.css")
	cmd.Flags().IntVar(&opts.maxWidth, "max-width", 0, "atlas maximum row width in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "remove the sprite directory after a successful pack")

	return cmd
}

// runPack executes the pipeline and writes the artifacts.
func (c *CLI) runPack(ctx context.Context, spriteDir string, cfg config.Config, opts packOpts) error {
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %s...", spriteDir))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		SpriteDir: spriteDir,
		MaxWidth:  opts.maxWidth,
		Refresh:   opts.refresh,
		Logger:    loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError("Packing failed")
		return fmt.Errorf("pack: %w", err)
	}
	spinner.Stop()

	if result.Skipped {
		printWarning("No images found in %s, nothing to pack", spriteDir)
		return nil
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outputs := map[string]string{
		pipeline.FormatPNG: filepath.Join(opts.output, atlasFileName),
		pipeline.FormatCSS: filepath.Join(opts.output, stylesheetFileName),
	}
	for format, path := range outputs {
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Packed %d sprites", result.Stats.PlacementCount)
	printStats(result.Stats.ImageCount, result.Stats.AtlasWidth, result.Stats.AtlasHeight, result.CacheInfo.EncodeHit)
	printFile(outputs[pipeline.FormatPNG])
	printFile(outputs[pipeline.FormatCSS])

	if opts.clean {
		if err := loader.Cleanup(spriteDir); err != nil {
			return fmt.Errorf("clean sprite dir: %w", err)
		}
		printDetail("Removed %s", spriteDir)
	}

	return nil
}
