// Package loader enumerates and decodes the per-item bitmaps consumed by
// the sprite packer.
//
// The loader is the boundary between the filesystem and the pure packing
// core: it yields [sprite.Source] values with stable identifiers derived
// from file basenames, and owns the destructive cleanup of the source
// directory once a sheet has been written.
package loader

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Registered decoders for the formats converters emit.
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/tqdev/spritepack/pkg/errors"
	"github.com/tqdev/spritepack/pkg/sprite"
)

// extensions lists the file extensions considered loadable, lowercase.
var extensions = map[string]bool{
	".png": true,
	".bmp": true,
}

// Load reads all loadable images from dir and returns them as packing
// sources, ordered by identifier.
//
// The identifier is the file basename up to the first dot, so
// "helmet.png" becomes "helmet". Identifiers must be CSS-class safe and
// unique within the directory; a violation fails the whole load rather
// than producing a sheet with missing entries.
//
// An existing but empty directory yields an empty slice and no error:
// having nothing to pack is a valid no-op for callers.
func Load(dir string) ([]sprite.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "sprite directory not found: %s", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read sprite directory %s", dir)
	}

	seen := make(map[string]string)
	var sources []sprite.Source

	for _, entry := range entries {
		if entry.IsDir() || !extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		id := identifier(entry.Name())
		if err := errors.ValidateIdentifier(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidIdentifier, err, "file %s", entry.Name())
		}
		if prev, ok := seen[id]; ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"duplicate identifier %q from %s and %s", id, prev, entry.Name())
		}
		seen[id] = entry.Name()

		img, err := decode(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sources = append(sources, sprite.Source{ID: id, Image: img})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources, nil
}

// Cleanup removes the source directory and everything in it. This is the
// destructive post-packing step; it is never invoked implicitly.
func Cleanup(dir string) error {
	if err := errors.ValidatePath(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove sprite directory %s", dir)
	}
	return nil
}

// identifier derives the sprite identifier from a file name: the basename
// up to the first dot.
func identifier(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// decode opens and decodes a single image file.
func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode %s", path)
	}
	return img, nil
}
