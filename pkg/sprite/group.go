package sprite

import (
	"sort"

	"github.com/tqdev/spritepack/pkg/errors"
)

// SizeGroup is an ordered set of source images sharing exact pixel
// dimensions. Images are ordered by identifier ascending.
type SizeGroup struct {
	Width  int
	Height int
	Images []Source
}

// GroupBySize partitions images into size-homogeneous groups.
//
// The partition key is the exact (width, height) pair. Within a group,
// images are ordered by identifier ascending regardless of input order.
// Groups are ordered by height ascending; groups of equal height keep the
// order in which their sizes are first encountered in the identifier-sorted
// image list, so the result is fully determined by the input set.
//
// Returns an EMPTY_INPUT error when no images are supplied. Callers should
// treat that as a signal to skip packing, not as a fatal condition.
func GroupBySize(images []Source) ([]SizeGroup, error) {
	if len(images) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no images to pack")
	}

	sorted := append([]Source(nil), images...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	type key struct{ w, h int }
	index := make(map[key]int)
	var groups []SizeGroup

	for _, src := range sorted {
		k := key{src.Width(), src.Height()}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, SizeGroup{Width: k.w, Height: k.h})
		}
		groups[i].Images = append(groups[i].Images, src)
	}

	// Stable: equal heights preserve first-encounter order.
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Height < groups[j].Height })

	return groups, nil
}
