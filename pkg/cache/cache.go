// Package cache provides pluggable caching for spritepack.
//
// Texture conversion is by far the slowest stage of a full run: every item
// bitmap is produced by shelling out to an external converter. Conversion
// results, packed placement lists and encoded artifacts are all cached
// behind the [Cache] interface so repeated runs only redo what changed.
//
// Backends:
//   - [FileCache]: JSON entries under a directory, for local CLI use
//   - [RedisCache]: shared cache for CI runners
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so all consumers agree on the key scheme,
// and can be namespaced with [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached value kinds. Converted bitmaps are
// content-addressed by source hash and effectively immutable, so they keep
// a long TTL; packed sheets and encoded artifacts are cheap to rebuild.
const (
	TTLBitmap   = 30 * 24 * time.Hour
	TTLSheet    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry TTLs.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SheetKeyOpts are the packing options that affect sheet identity.
type SheetKeyOpts struct {
	MaxWidth int `json:"max_width"`
}

// ArtifactKeyOpts are the encoding options that affect artifact identity.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // "png" or "css"
}

// Keyer generates cache keys for the different value kinds.
type Keyer interface {
	// BitmapKey generates a key for a converted texture, addressed by
	// the hash of the source texture file.
	BitmapKey(sourceHash string) string

	// SheetKey generates a key for a packed placement list, addressed by
	// the hash of the input image set.
	SheetKey(inputHash string, opts SheetKeyOpts) string

	// ArtifactKey generates a key for an encoded output, addressed by
	// the hash of the packed sheet.
	ArtifactKey(sheetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// BitmapKey generates a key for a converted texture.
func (k *DefaultKeyer) BitmapKey(sourceHash string) string {
	return "bitmap:" + sourceHash
}

// SheetKey generates a key for a packed placement list.
func (k *DefaultKeyer) SheetKey(inputHash string, opts SheetKeyOpts) string {
	return hashKey("sheet", inputHash, opts)
}

// ArtifactKey generates a key for an encoded output.
func (k *DefaultKeyer) ArtifactKey(sheetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sheetHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
