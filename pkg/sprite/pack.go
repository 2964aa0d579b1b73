package sprite

// Canvas is one fixed-width row segment of the atlas, sized to the height
// of the group it was built from. A canvas is sealed once appended to the
// layout and never accepts further placements.
type Canvas struct {
	// Height is the pixel height, equal to the height of every image
	// placed on the canvas.
	Height int

	slots []slot
}

// slot records one image placed on a canvas at a horizontal offset.
type slot struct {
	src Source
	x   int
}

// Layout is the result of row packing: the sealed canvases in seal order,
// one placement per image in emission order, and the total stacked height.
type Layout struct {
	Canvases   []*Canvas
	Placements []Placement

	// Height is the final vertical cursor value, the sum of all sealed
	// canvas heights.
	Height int
}

// packState carries the row packer's mutable cursors through the fold over
// groups and images.
type packState struct {
	maxWidth   int
	x          int // horizontal cursor within the open canvas
	vertical   int // cumulative height of all sealed canvases
	open       *Canvas
	canvases   []*Canvas
	placements []Placement
}

// PackGroups greedily lays each group's images left-to-right into rows of
// at most maxWidth pixels, wrapping to a new canvas of the group's height
// on overflow. The vertical cursor is never reset between groups, so
// canvases from different groups stack continuously.
//
// Callers must pass groups produced by [GroupBySize] over validated
// sources; every image is assumed narrower than maxWidth.
func PackGroups(groups []SizeGroup, maxWidth int) *Layout {
	st := packState{maxWidth: maxWidth}

	for _, group := range groups {
		st.packGroup(group)
	}

	return &Layout{
		Canvases:   st.canvases,
		Placements: st.placements,
		Height:     st.vertical,
	}
}

// packGroup places one size group, sealing canvases as rows fill up.
func (st *packState) packGroup(group SizeGroup) {
	st.open = &Canvas{Height: group.Height}
	st.x = 0

	for i, src := range group.Images {
		w := src.Width()
		last := i == len(group.Images)-1

		switch {
		case st.x+w < st.maxWidth:
			// Strictly fits on the current row.
			st.place(src, st.x)
			st.x += w

		case st.x+w == st.maxWidth:
			// Exact fit. Only a final image seals the canvas here; a
			// non-final one leaves the cursor at maxWidth, forcing the
			// next image into the overflow case whatever its width.
			// Long-standing behavior, kept for output compatibility.
			st.place(src, st.x)
			if last {
				st.seal()
				st.x = 0
			} else {
				st.x += w
			}

		default:
			// Overflow: seal the current canvas and advance the vertical
			// cursor before placing on a fresh one.
			st.seal()
			st.open = &Canvas{Height: group.Height}
			st.place(src, 0)
			st.x = w
		}
	}

	// A partially filled trailing row was never sealed above.
	if st.x > 0 && st.x < st.maxWidth {
		st.seal()
	}
}

// place records the image on the open canvas and emits its placement using
// the current cursors.
func (st *packState) place(src Source, x int) {
	st.open.slots = append(st.open.slots, slot{src: src, x: x})
	st.placements = append(st.placements, Placement{
		ID:     src.ID,
		X:      x,
		Y:      st.vertical,
		Width:  src.Width(),
		Height: src.Height(),
	})
}

// seal appends the open canvas to the output list and advances the
// vertical cursor by its height.
func (st *packState) seal() {
	st.canvases = append(st.canvases, st.open)
	st.vertical += st.open.Height
}
