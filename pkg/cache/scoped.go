package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple projects (or mod
// variants of the same game database) can share one cache backend without
// key collisions.
//
// Example usage:
//
//	// Keys for an expansion's sprite set
//	modKeyer := NewScopedKeyer(NewDefaultKeyer(), "atlantis:")
//
//	// Keys for the base game
//	baseKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// BitmapKey generates a prefixed key for a converted texture.
func (k *ScopedKeyer) BitmapKey(sourceHash string) string {
	return k.prefix + k.inner.BitmapKey(sourceHash)
}

// SheetKey generates a prefixed key for a packed placement list.
func (k *ScopedKeyer) SheetKey(inputHash string, opts SheetKeyOpts) string {
	return k.prefix + k.inner.SheetKey(inputHash, opts)
}

// ArtifactKey generates a prefixed key for an encoded output.
func (k *ScopedKeyer) ArtifactKey(sheetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sheetHash, opts)
}
