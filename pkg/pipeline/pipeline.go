// Package pipeline provides the core sprite-sheet pipeline for spritepack.
//
// This package implements the complete load → pack → encode pipeline that
// can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and decode source images from the sprite directory
//  2. Pack: Group images by size and compute atlas placements
//  3. Encode: Produce the atlas PNG and the CSS stylesheet
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SpriteDir: "output/sprites",
//	    MaxWidth:  768,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//	css := result.Artifacts["css"]
//
// Run individual stages:
//
//	// Load only
//	sources, err := runner.Load(ctx, opts)
//
//	// Pack existing sources
//	sheet, err := runner.Pack(ctx, sources, opts)
//
//	// Encode an existing sheet
//	artifacts, err := runner.Encode(ctx, sheet, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tqdev/spritepack/pkg/cache"
	"github.com/tqdev/spritepack/pkg/errors"
	"github.com/tqdev/spritepack/pkg/sprite"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultMaxWidth is the default atlas width in pixels.
const DefaultMaxWidth = sprite.DefaultMaxWidth

// Format constants for output artifacts.
const (
	FormatPNG = "png"
	FormatCSS = "css"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatCSS: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the sprite pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	SpriteDir string `json:"sprite_dir"`

	// Pack options
	MaxWidth int `json:"max_width,omitempty"`

	// Encode options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cached results and recomputes every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Sheet is the packed sprite sheet, nil when Skipped is true.
	Sheet *sprite.Sheet

	// InputHash is the content hash of the loaded source images.
	InputHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo

	// Skipped is true when the sprite directory held no images and the
	// run completed as a no-op.
	Skipped bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ImageCount     int
	PlacementCount int
	AtlasWidth     int
	AtlasHeight    int
	LoadTime       time.Duration
	PackTime       time.Duration
	EncodeTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SheetHit  bool // Whether the placement layout came from cache
	EncodeHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: png, css)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}
	o.SetEncodeDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.SpriteDir == "" {
		return fmt.Errorf("sprite_dir is required")
	}
	if err := errors.ValidatePath(o.SpriteDir); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForPack validates and sets defaults for packing.
func (o *Options) ValidateForPack() error {
	if o.MaxWidth == 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidateMaxWidth(o.MaxWidth)
}

// SetEncodeDefaults sets default values for encoding.
func (o *Options) SetEncodeDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG, FormatCSS}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForEncode validates and sets defaults for encoding.
func (o *Options) ValidateForEncode() error {
	o.SetEncodeDefaults()
	return ValidateFormats(o.Formats)
}

// SheetKeyOpts returns cache key options for the packed layout.
func (o *Options) SheetKeyOpts() cache.SheetKeyOpts {
	return cache.SheetKeyOpts{
		MaxWidth: o.MaxWidth,
	}
}

// ArtifactKeyOpts returns cache key options for an encoded artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
	}
}
