package sprite

import (
	"fmt"
	"sort"
	"strings"
)

// Rule renders the placement as a stylesheet rule:
//
//	.helmet {
//	  background-position: -100px -50px;
//	  width: 32px;
//	  height: 32px;
//	}
//
// Offsets are the negated pixel coordinates; a zero offset is rendered as a
// bare 0 with no unit suffix.
func (p Placement) Rule() string {
	return fmt.Sprintf(".%s {\n  background-position: %s %s;\n  width: %s;\n  height: %s;\n}\n",
		p.ID,
		formatOffset(p.X),
		formatOffset(p.Y),
		formatSize(p.Width),
		formatSize(p.Height))
}

// SortPlacements orders placements by their formatted rule text, matching
// the stylesheet emission order. The identifier leads each rule, so this is
// effectively identifier order.
func SortPlacements(placements []Placement) {
	sort.Slice(placements, func(i, j int) bool {
		return placements[i].Rule() < placements[j].Rule()
	})
}

// Stylesheet renders all placements as one stylesheet, one blank line
// between rules, in the sheet's stored order.
func (s *Sheet) Stylesheet() string {
	var b strings.Builder
	for _, p := range s.Placements {
		b.WriteString(p.Rule())
		b.WriteByte('\n')
	}
	return b.String()
}

// formatOffset renders a background-position component: the negated pixel
// coordinate with a px suffix, or a bare 0.
func formatOffset(px int) string {
	if px == 0 {
		return "0"
	}
	return fmt.Sprintf("%dpx", -px)
}

// formatSize renders a width or height value with a px suffix.
func formatSize(px int) string {
	return fmt.Sprintf("%dpx", px)
}
