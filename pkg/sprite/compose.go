package sprite

import (
	"image"
	"image/draw"
)

// Compose stacks the layout's sealed canvases vertically into one RGBA
// atlas of width maxWidth. Each canvas is blitted at the cumulative height
// of the canvases sealed before it, in seal order; regions no image covers
// stay fully transparent.
//
// The source pixel buffers are read, never owned: the returned atlas is
// the only allocation.
func Compose(layout *Layout, maxWidth int) *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, maxWidth, layout.Height))

	y := 0
	for _, canvas := range layout.Canvases {
		for _, s := range canvas.slots {
			bounds := s.src.Image.Bounds()
			dst := image.Rect(s.x, y, s.x+bounds.Dx(), y+bounds.Dy())
			draw.Draw(atlas, dst, s.src.Image, bounds.Min, draw.Src)
		}
		y += canvas.Height
	}

	return atlas
}
