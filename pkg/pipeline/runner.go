package pipeline

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tqdev/spritepack/pkg/cache"
	"github.com/tqdev/spritepack/pkg/loader"
	"github.com/tqdev/spritepack/pkg/observability"
	"github.com/tqdev/spritepack/pkg/sprite"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → pack → encode pipeline with caching.
//
// An empty sprite directory is not an error: the run returns a Result with
// Skipped set and no artifacts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run_id", result.RunID)

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.SpriteDir)
	sources, err := loader.Load(opts.SpriteDir)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.SpriteDir, len(sources), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.ImageCount = len(sources)

	if len(sources) == 0 {
		logger.Warn("no source images found, skipping", "dir", opts.SpriteDir)
		result.Skipped = true
		return result, nil
	}

	logger.Info("loaded sources",
		"images", len(sources),
		"duration", result.Stats.LoadTime)

	result.InputHash = InputHash(sources)

	// Stage 2: Pack
	packStart := time.Now()
	observability.Pipeline().OnPackStart(ctx, len(sources))
	sheet, sheetHit, err := r.PackWithCacheInfo(ctx, sources, result.InputHash, opts)
	result.Stats.PackTime = time.Since(packStart)
	observability.Pipeline().OnPackComplete(ctx, placementCount(sheet), result.Stats.PackTime, err)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Sheet = sheet
	result.Stats.PlacementCount = len(sheet.Placements)
	result.Stats.AtlasWidth = sheet.MaxWidth
	result.Stats.AtlasHeight = sheet.Height
	result.CacheInfo.SheetHit = sheetHit

	logger.Info("packed atlas",
		"placements", len(sheet.Placements),
		"height", sheet.Height,
		"duration", result.Stats.PackTime)

	// Stage 3: Encode
	encodeStart := time.Now()
	observability.Pipeline().OnEncodeStart(ctx, opts.Formats)
	artifacts, encodeHit, err := r.EncodeWithCacheInfo(ctx, sheet, opts)
	result.Stats.EncodeTime = time.Since(encodeStart)
	observability.Pipeline().OnEncodeComplete(ctx, opts.Formats, result.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.EncodeHit = encodeHit

	logger.Info("encoded artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// Load reads and decodes source images from the sprite directory.
func (r *Runner) Load(ctx context.Context, opts Options) ([]sprite.Source, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return loader.Load(opts.SpriteDir)
}

// sheetManifest is the cached representation of a packed layout.
type sheetManifest struct {
	MaxWidth   int                `json:"max_width"`
	Height     int                `json:"height"`
	Placements []sprite.Placement `json:"placements"`
}

// PackWithCacheInfo packs sources into a sheet with caching and returns cache hit info.
//
// On a cache hit the placement layout is restored from the manifest and only
// the atlas image is recomposed from the sources; the packing computation is
// skipped entirely.
func (r *Runner) PackWithCacheInfo(ctx context.Context, sources []sprite.Source, inputHash string, opts Options) (*sprite.Sheet, bool, error) {
	if err := opts.ValidateForPack(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.SheetKey(inputHash, opts.SheetKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "sheet")
			var m sheetManifest
			if err := json.Unmarshal(data, &m); err == nil {
				sheet, err := composeFromManifest(sources, m)
				if err == nil {
					return sheet, true, nil // Cache hit
				}
			}
			// If restoration fails, fall through to repack
		} else {
			observability.Cache().OnCacheMiss(ctx, "sheet")
		}
	}

	// Pack
	sheet, err := sprite.Pack(sources, sprite.WithMaxWidth(opts.MaxWidth))
	if err != nil {
		return nil, false, err
	}

	// Cache the layout
	if data, err := json.Marshal(sheetManifest{
		MaxWidth:   sheet.MaxWidth,
		Height:     sheet.Height,
		Placements: sheet.Placements,
	}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSheet)
		observability.Cache().OnCacheSet(ctx, "sheet", len(data))
	}

	return sheet, false, nil // Cache miss
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards the cache hit info.
func (r *Runner) Pack(ctx context.Context, sources []sprite.Source, opts Options) (*sprite.Sheet, error) {
	sheet, _, err := r.PackWithCacheInfo(ctx, sources, InputHash(sources), opts)
	return sheet, err
}

// EncodeWithCacheInfo encodes artifacts with caching and returns cache hit info.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, sheet *sprite.Sheet, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForEncode(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the placement layout
	manifestData, err := json.Marshal(sheetManifest{
		MaxWidth:   sheet.MaxWidth,
		Height:     sheet.Height,
		Placements: sheet.Placements,
	})
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	sheetHash := cache.Hash(manifestData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sheetHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Encode all formats
	rendered, err := encode(sheet, opts.Formats)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sheetHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}

	return rendered, false, nil // Cache miss
}

// Encode is a convenience wrapper that calls EncodeWithCacheInfo and discards the cache hit info.
func (r *Runner) Encode(ctx context.Context, sheet *sprite.Sheet, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.EncodeWithCacheInfo(ctx, sheet, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Helpers
// =============================================================================

// InputHash computes the content hash of a set of source images.
// The hash covers identifiers, dimensions, and pixel data, so any change to
// the inputs produces a different hash. Sources must be sorted by identifier
// for the hash to be stable; loader.Load returns them that way.
func InputHash(sources []sprite.Source) string {
	var buf bytes.Buffer
	dims := make([]byte, 8)
	for _, src := range sources {
		buf.WriteString(src.ID)
		buf.WriteByte(0)
		b := src.Image.Bounds()
		binary.BigEndian.PutUint32(dims[0:4], uint32(b.Dx()))
		binary.BigEndian.PutUint32(dims[4:8], uint32(b.Dy()))
		buf.Write(dims)

		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src.Image, b.Min, draw.Src)
		buf.Write(rgba.Pix)
	}
	return cache.Hash(buf.Bytes())
}

// composeFromManifest rebuilds a sheet from a cached layout by drawing each
// source at its recorded placement. Every placement must match a source with
// the same identifier and dimensions, otherwise the manifest is stale.
func composeFromManifest(sources []sprite.Source, m sheetManifest) (*sprite.Sheet, error) {
	byID := make(map[string]sprite.Source, len(sources))
	for _, src := range sources {
		byID[src.ID] = src
	}
	if len(m.Placements) != len(sources) {
		return nil, fmt.Errorf("stale layout: %d placements for %d sources", len(m.Placements), len(sources))
	}

	atlas := image.NewRGBA(image.Rect(0, 0, m.MaxWidth, m.Height))
	for _, p := range m.Placements {
		src, ok := byID[p.ID]
		if !ok {
			return nil, fmt.Errorf("stale layout: no source for %q", p.ID)
		}
		if src.Width() != p.Width || src.Height() != p.Height {
			return nil, fmt.Errorf("stale layout: %q is %dx%d, placed as %dx%d",
				p.ID, src.Width(), src.Height(), p.Width, p.Height)
		}
		dst := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.Draw(atlas, dst, src.Image, src.Image.Bounds().Min, draw.Src)
	}

	placements := make([]sprite.Placement, len(m.Placements))
	copy(placements, m.Placements)
	sprite.SortPlacements(placements)

	return &sprite.Sheet{
		Image:      atlas,
		Placements: placements,
		MaxWidth:   m.MaxWidth,
		Height:     m.Height,
	}, nil
}

// encode renders the requested artifact formats from a packed sheet.
func encode(sheet *sprite.Sheet, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case FormatPNG:
			var buf bytes.Buffer
			if err := png.Encode(&buf, sheet.Image); err != nil {
				return nil, fmt.Errorf("encode png: %w", err)
			}
			artifacts[FormatPNG] = buf.Bytes()
		case FormatCSS:
			artifacts[FormatCSS] = []byte(sheet.Stylesheet())
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

func placementCount(sheet *sprite.Sheet) int {
	if sheet == nil {
		return 0
	}
	return len(sheet.Placements)
}
