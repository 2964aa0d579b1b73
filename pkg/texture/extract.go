// Package texture extracts loadable bitmaps from proprietary game texture
// files by driving an external converter binary.
//
// The converter is treated as an opaque tool invoked once per texture as
// `binary <source> <destination.png>`. Conversion output is cached by the
// hash of the source texture, so unchanged textures never hit the binary
// twice. The extracted bitmaps land in a graphics directory from which the
// loader package later builds the sprite sheet.
package texture

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tqdev/spritepack/pkg/cache"
	"github.com/tqdev/spritepack/pkg/errors"
	"github.com/tqdev/spritepack/pkg/observability"
)

// Classifications that collapse an artifact formula's tag. Formula items
// share one bitmap per classification instead of one per tag.
const typeArtifactFormula = "ItemArtifactFormula"

// Item describes one game item whose texture should be extracted.
type Item struct {
	// Tag is the item's identifier, used as the output file basename.
	Tag string

	// Type is the item's database record type.
	Type string

	// Classification is the item rarity ("Rare", "Lesser", ...).
	Classification string

	// TexturePath is the proprietary texture file to convert.
	TexturePath string
}

// Result reports the outcome of extracting a single item.
type Result struct {
	// Tag is the effective output identifier after normalization.
	Tag string

	// Path is the written bitmap, empty when skipped.
	Path string

	// Skipped is set when the item produced no conversion: a missing tag
	// or texture, or a non-unique bitmap that already exists.
	Skipped bool

	// Reason explains a skip.
	Reason string

	// Cached is set when the bitmap came from the conversion cache.
	Cached bool
}

// Stats summarizes a batch extraction.
type Stats struct {
	Converted int
	Cached    int
	Skipped   int
}

// Extractor converts textures into bitmaps under an output directory.
type Extractor struct {
	// Binary is the external converter executable.
	Binary string

	// OutDir receives the converted bitmaps, one <tag>.png per item.
	OutDir string

	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// New creates an extractor. A nil cache disables conversion caching; a nil
// keyer selects the default key scheme.
func New(binary, outDir string, c cache.Cache, k cache.Keyer, logger *log.Logger) *Extractor {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{
		Binary: binary,
		OutDir: outDir,
		Cache:  c,
		Keyer:  k,
		Logger: logger,
	}
}

// EnsureOutputDir creates the graphics output directory if needed. This is
// an explicit step rather than package initialization so callers control
// when the filesystem is touched.
func (e *Extractor) EnsureOutputDir() error {
	if err := errors.ValidatePath(e.OutDir); err != nil {
		return err
	}
	if err := os.MkdirAll(e.OutDir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output directory %s", e.OutDir)
	}
	return nil
}

// Extract converts one item's texture into <OutDir>/<tag>.png.
//
// Normalization mirrors the game database's quirks:
//   - Artifact formulas share a bitmap per classification (lesser,
//     greater, divine), so their tag collapses to the classification.
//   - For any other non-Rare item whose bitmap already exists, the
//     existing file wins and the conversion is skipped; only Rare items
//     (monster infrequents) legitimately share tags across records.
func (e *Extractor) Extract(ctx context.Context, item Item) (Result, error) {
	tag := item.Tag

	if tag == "" || item.TexturePath == "" {
		e.Logger.Warn("missing tag or texture", "tag", tag, "texture", item.TexturePath)
		return Result{Tag: tag, Skipped: true, Reason: "missing tag or texture"}, nil
	}
	if _, err := os.Stat(item.TexturePath); err != nil {
		e.Logger.Warn("texture file not found", "tag", tag, "texture", item.TexturePath)
		return Result{Tag: tag, Skipped: true, Reason: "texture file not found"}, nil
	}

	if item.Type == typeArtifactFormula {
		tag = strings.ToLower(item.Classification)
	}

	dst := filepath.Join(e.OutDir, tag+".png")
	if item.Classification != "Rare" {
		if _, err := os.Stat(dst); err == nil {
			return Result{Tag: tag, Path: dst, Skipped: true, Reason: "bitmap already exists"}, nil
		}
	}

	cached, err := e.fromCache(ctx, item.TexturePath, dst)
	if err != nil {
		return Result{}, err
	}
	if cached {
		return Result{Tag: tag, Path: dst, Cached: true}, nil
	}

	if err := e.convert(ctx, item.TexturePath, dst); err != nil {
		return Result{}, err
	}
	e.toCache(ctx, item.TexturePath, dst)

	return Result{Tag: tag, Path: dst}, nil
}

// ExtractAll converts a batch of items, invoking progress (if non-nil)
// after each item. The batch stops at the first conversion error; skips
// are not errors.
func (e *Extractor) ExtractAll(ctx context.Context, items []Item, progress func(done int, item Item, res Result)) (Stats, error) {
	var stats Stats

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		res, err := e.Extract(ctx, item)
		if err != nil {
			return stats, err
		}

		switch {
		case res.Skipped:
			stats.Skipped++
		case res.Cached:
			stats.Cached++
		default:
			stats.Converted++
		}

		if progress != nil {
			progress(i+1, item, res)
		}
	}

	return stats, nil
}

// convert shells out to the converter binary.
func (e *Extractor) convert(ctx context.Context, src, dst string) error {
	if _, err := exec.LookPath(e.Binary); err != nil {
		return errors.Wrap(errors.ErrCodeConverterNotFound, err, "converter binary %s", e.Binary)
	}

	observability.Converter().OnConvert(ctx, src)
	start := time.Now()

	cmd := exec.CommandContext(ctx, e.Binary, src, dst)
	out, err := cmd.CombinedOutput()
	observability.Converter().OnConvertComplete(ctx, src, time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConverterFailed, err,
			"convert %s: %s", src, strings.TrimSpace(string(out)))
	}

	e.Logger.Debug("converted texture", "source", src, "destination", dst)
	return nil
}

// fromCache writes a previously converted bitmap to dst on a cache hit.
func (e *Extractor) fromCache(ctx context.Context, src, dst string) (bool, error) {
	key, ok := e.sourceKey(src)
	if !ok {
		return false, nil
	}

	data, hit, err := e.Cache.Get(ctx, key)
	if err != nil || !hit {
		return false, nil
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "write %s", dst)
	}
	return true, nil
}

// toCache stores the converted bitmap. Cache failures degrade to a cold
// cache and are not surfaced.
func (e *Extractor) toCache(ctx context.Context, src, dst string) {
	key, ok := e.sourceKey(src)
	if !ok {
		return
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		return
	}
	_ = e.Cache.Set(ctx, key, data, cache.TTLBitmap)
}

// sourceKey computes the conversion cache key from the source file bytes.
func (e *Extractor) sourceKey(src string) (string, bool) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", false
	}
	return e.Keyer.BitmapKey(cache.Hash(data)), true
}
