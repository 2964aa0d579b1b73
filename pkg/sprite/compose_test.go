package sprite

import (
	"image"
	"image/color"
	"testing"
)

func TestComposeBlitsAtPlacementOffsets(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	sheet, err := Pack([]Source{
		newSource("a", 700, 50, red),
		newSource("b", 700, 50, blue),
	})
	if err != nil {
		t.Fatal(err)
	}

	// "a" on the first canvas, "b" on the second.
	if got := sheet.Image.RGBAAt(10, 10); got != red {
		t.Errorf("pixel inside a = %v, want %v", got, red)
	}
	if got := sheet.Image.RGBAAt(10, 60); got != blue {
		t.Errorf("pixel inside b = %v, want %v", got, blue)
	}
}

func TestComposeUnsetRegionsTransparent(t *testing.T) {
	sheet, err := Pack([]Source{src("a", 100, 50)})
	if err != nil {
		t.Fatal(err)
	}

	// To the right of the placed image nothing was drawn.
	if got := sheet.Image.RGBAAt(500, 25); got != (color.RGBA{}) {
		t.Errorf("unset pixel = %v, want fully transparent", got)
	}
}

func TestComposeRespectsSourceBoundsOffset(t *testing.T) {
	// A source whose bounds do not start at the origin must still be
	// blitted from its own Min corner.
	green := color.RGBA{G: 255, A: 255}
	img := image.NewRGBA(image.Rect(5, 5, 25, 25))
	for y := 5; y < 25; y++ {
		for x := 5; x < 25; x++ {
			img.SetRGBA(x, y, green)
		}
	}

	sheet, err := Pack([]Source{{ID: "off", Image: img}})
	if err != nil {
		t.Fatal(err)
	}
	if got := sheet.Image.RGBAAt(0, 0); got != green {
		t.Errorf("pixel at origin = %v, want %v", got, green)
	}
	if got := sheet.Image.RGBAAt(19, 19); got != green {
		t.Errorf("pixel at corner = %v, want %v", got, green)
	}
}
