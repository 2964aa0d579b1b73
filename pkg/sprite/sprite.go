package sprite

import (
	"image"

	"github.com/tqdev/spritepack/pkg/errors"
)

// DefaultMaxWidth is the default maximum atlas row width in pixels.
// Existing stylesheet consumers depend on this value; override it only
// deliberately via [WithMaxWidth].
const DefaultMaxWidth = 768

// Source is one input image to the packer. The pixel data is borrowed
// read-only for the duration of packing; a Source is never mutated.
type Source struct {
	// ID is the stable unique identifier, used as sort and lookup key
	// and emitted as the CSS class name.
	ID string

	// Image holds the pixel data. Its bounds determine the source's
	// width and height.
	Image image.Image
}

// Width returns the pixel width of the source image.
func (s Source) Width() int { return s.Image.Bounds().Dx() }

// Height returns the pixel height of the source image.
func (s Source) Height() int { return s.Image.Bounds().Dy() }

// Placement locates one source image within the final atlas.
// X and Y are pixel coordinates of the image's top-left corner; the CSS
// rendering negates them into background-position offsets.
type Placement struct {
	ID     string
	X      int
	Y      int
	Width  int
	Height int
}

// Sheet is the final output of a packing run: the composed atlas and the
// full placement list, ordered by formatted rule text.
type Sheet struct {
	// Image is the composed atlas: MaxWidth wide, transparent where no
	// source image was placed.
	Image *image.RGBA

	// Placements holds one record per source image, sorted for
	// reproducible stylesheet output.
	Placements []Placement

	// MaxWidth is the atlas width the sheet was packed against.
	MaxWidth int

	// Height is the total atlas height, the sum of all sealed canvas
	// heights.
	Height int
}

// Option configures a packing run.
type Option func(*options)

type options struct {
	maxWidth int
}

// WithMaxWidth overrides the maximum atlas row width.
func WithMaxWidth(w int) Option {
	return func(o *options) { o.maxWidth = w }
}

// Pack runs the full pipeline: validation, grouping, row packing and
// composition. It returns a typed error and no sheet when the input is
// empty, an image has non-positive dimensions, or an image is as wide as
// the atlas itself; there is no partial output.
func Pack(images []Source, opts ...Option) (*Sheet, error) {
	o := options{maxWidth: DefaultMaxWidth}
	for _, opt := range opts {
		opt(&o)
	}
	if err := errors.ValidateMaxWidth(o.maxWidth); err != nil {
		return nil, err
	}

	if err := validateSources(images, o.maxWidth); err != nil {
		return nil, err
	}

	groups, err := GroupBySize(images)
	if err != nil {
		return nil, err
	}

	layout := PackGroups(groups, o.maxWidth)
	atlas := Compose(layout, o.maxWidth)

	placements := append([]Placement(nil), layout.Placements...)
	SortPlacements(placements)

	return &Sheet{
		Image:      atlas,
		Placements: placements,
		MaxWidth:   o.maxWidth,
		Height:     layout.Height,
	}, nil
}

// validateSources rejects images the row packer cannot place: non-positive
// dimensions corrupt offsets, and an image at least as wide as the atlas
// can never strictly fit a row.
func validateSources(images []Source, maxWidth int) error {
	for _, src := range images {
		if src.Image == nil {
			return errors.New(errors.ErrCodeInvalidImage, "image %q has no pixel data", src.ID)
		}
		w, h := src.Width(), src.Height()
		if w <= 0 || h <= 0 {
			return errors.New(errors.ErrCodeInvalidImage,
				"image %q has invalid dimensions %dx%d", src.ID, w, h)
		}
		if w >= maxWidth {
			return errors.New(errors.ErrCodeOversizedImage,
				"image %q is %dpx wide, atlas maximum is %dpx", src.ID, w, maxWidth)
		}
	}
	return nil
}
