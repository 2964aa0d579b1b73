// Package sprite implements deterministic sprite-sheet packing.
//
// # Overview
//
// The packer takes independently sized raster images and produces a single
// composite atlas no wider than a fixed maximum, plus one placement record
// per image locating it within the atlas. Placements are expressed in CSS
// background-position convention: offsets are the negated pixel coordinates
// of the image inside the atlas.
//
// The pipeline is strictly linear:
//
//  1. [GroupBySize] partitions images into groups keyed by exact
//     (width, height) and orders them for reproducible layout.
//  2. [PackGroups] lays each group's images left-to-right into fixed-width
//     rows ("canvases"), wrapping to a new canvas on overflow.
//  3. [Compose] stacks the sealed canvases vertically into the final
//     RGBA atlas.
//
// [Pack] runs all three stages and returns a [Sheet].
//
// # Determinism
//
// The same set of images always produces byte-identical output, independent
// of input order: images are ordered by identifier within a group, groups
// are ordered by height (ascending, stable), and the emitted stylesheet
// rules are sorted by their formatted text. Output is intended to be
// diffable across runs.
//
// # Layout quirks
//
// The row-fill strategy is a single greedy left-to-right pass with two
// long-standing behaviors that downstream stylesheets depend on and that
// this package preserves:
//
//   - Group order is ascending by height, although the stacking was
//     originally described as descending.
//   - An exact-fit image that is not the last of its group leaves the row
//     cursor at the maximum width instead of starting a new row, so the
//     next image always opens a fresh canvas.
//
// The packer is pure computation over in-memory buffers: no I/O, no
// logging, no filesystem access. Loading images and persisting the atlas
// and stylesheet belong to the loader and pipeline packages.
package sprite
