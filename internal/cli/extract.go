package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tqdev/spritepack/pkg/config"
	"github.com/tqdev/spritepack/pkg/texture"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	configPath string // config file path
	manifest   string // item manifest (TOML) describing tags and classifications
	graphics   string // output directory for converted bitmaps
	binary     string // converter executable
	noCache    bool   // disable conversion caching
	plain      bool   // line-based progress instead of the interactive view
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [texture-dir]",
		Short: "Convert game texture files into bitmaps",
		Long: `Convert game texture files into bitmaps ready for packing.

The extract command invokes the external texture converter once per
texture file and writes the resulting bitmaps into the graphics
directory, named after each item's tag.

Items are discovered by scanning the texture directory, or described
explicitly by a TOML manifest (--manifest) when tags, types, and
classifications differ from the file names. Conversion results are
cached by source-file content, so unchanged textures are not converted
twice.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.graphics == "" {
				opts.graphics = cfg.GraphicsDir
			}
			if opts.binary == "" {
				opts.binary = cfg.Converter.Binary
			}

			items, err := collectItems(args, opts.manifest)
			if err != nil {
				return err
			}
			return c.runExtract(cmd.Context(), cfg, items, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default spritepack.toml)")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "TOML manifest describing items to extract")
	cmd.Flags().StringVarP(&opts.graphics, "graphics", "g", "", "output directory for converted bitmaps")
	cmd.Flags().StringVar(&opts.binary, "binary", "", "texture converter executable")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable conversion caching")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "line-based progress output")

	return cmd
}

// itemManifest is the TOML shape of --manifest files.
type itemManifest struct {
	Items []manifestItem `toml:"item"`
}

type manifestItem struct {
	Tag            string `toml:"tag"`
	Type           string `toml:"type"`
	Classification string `toml:"classification"`
	Texture        string `toml:"texture"`
}

// collectItems builds the extraction work list from a manifest file or by
// scanning a texture directory for .tex files.
func collectItems(args []string, manifest string) ([]texture.Item, error) {
	if manifest != "" {
		var m itemManifest
		if _, err := toml.DecodeFile(manifest, &m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", manifest, err)
		}
		items := make([]texture.Item, 0, len(m.Items))
		for _, it := range m.Items {
			items = append(items, texture.Item{
				Tag:            it.Tag,
				Type:           it.Type,
				Classification: it.Classification,
				TexturePath:    it.Texture,
			})
		}
		return items, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("a texture directory or --manifest is required")
	}
	return scanTextures(args[0])
}

// scanTextures lists .tex files under dir, deriving each item's tag from the
// file name before the first dot.
func scanTextures(dir string) ([]texture.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read texture dir: %w", err)
	}

	var items []texture.Item
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".tex") {
			continue
		}
		tag := entry.Name()
		if i := strings.IndexByte(tag, '.'); i >= 0 {
			tag = tag[:i]
		}
		items = append(items, texture.Item{
			Tag:         tag,
			TexturePath: filepath.Join(dir, entry.Name()),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Tag < items[j].Tag })
	return items, nil
}

// runExtract converts all items, showing either the interactive progress
// view or plain log lines.
func (c *CLI) runExtract(ctx context.Context, cfg config.Config, items []texture.Item, opts extractOpts) error {
	if len(items) == 0 {
		printWarning("No textures to extract")
		return nil
	}

	store, err := c.newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	extractor := texture.New(opts.binary, opts.graphics, store, nil, loggerFromContext(ctx))
	if err := extractor.EnsureOutputDir(); err != nil {
		return err
	}

	if opts.plain {
		return c.runExtractPlain(ctx, extractor, items)
	}
	return c.runExtractTUI(ctx, extractor, items)
}

// runExtractPlain converts items with one log line per texture.
func (c *CLI) runExtractPlain(ctx context.Context, extractor *texture.Extractor, items []texture.Item) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	stats, err := extractor.ExtractAll(ctx, items, func(done int, item texture.Item, res texture.Result) {
		switch {
		case res.Skipped:
			logger.Debug("skipped", "tag", item.Tag, "reason", res.Reason)
		case res.Cached:
			logger.Debug("restored from cache", "tag", res.Tag, "path", res.Path)
		default:
			logger.Info("converted", "tag", res.Tag, "path", res.Path)
		}
	})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	prog.done(fmt.Sprintf("Extracted %d bitmaps (%d cached, %d skipped)",
		stats.Converted+stats.Cached, stats.Cached, stats.Skipped))
	return nil
}

// runExtractTUI converts items behind the interactive bubbletea progress view.
// Quitting the view cancels the batch; the worker goroutine is drained before
// returning so no conversion is killed mid-write by process exit.
func (c *CLI) runExtractTUI(ctx context.Context, extractor *texture.Extractor, items []texture.Item) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newExtractModel(len(items)))

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		stats, err := extractor.ExtractAll(ctx, items, func(done int, item texture.Item, res texture.Result) {
			p.Send(extractProgressMsg{done: done, item: item, result: res})
		})
		p.Send(extractDoneMsg{stats: stats, err: err})
	}()

	final, err := p.Run()
	cancel()
	<-workerDone
	if err != nil {
		return fmt.Errorf("progress view: %w", err)
	}

	m, ok := final.(extractModel)
	if !ok {
		return nil
	}
	return reportExtractOutcome(m)
}

// reportExtractOutcome translates the final progress model into the command
// result. A model that never saw the batch finish means the view was quit
// early, which is reported as an interruption rather than success.
func reportExtractOutcome(m extractModel) error {
	if m.err != nil {
		printError("Extraction failed: %v", m.err)
		return m.err
	}
	if !m.finished {
		printWarning("Extraction interrupted after %d of %d textures", m.done, m.total)
		return fmt.Errorf("extraction interrupted after %d of %d textures", m.done, m.total)
	}
	printSuccess("Extracted %d bitmaps (%d cached, %d skipped)",
		m.stats.Converted+m.stats.Cached, m.stats.Cached, m.stats.Skipped)
	return nil
}
