package sprite

import (
	"strings"
	"testing"
)

func TestPlacementRule(t *testing.T) {
	tests := []struct {
		name string
		p    Placement
		want string
	}{
		{
			name: "origin offsets render bare zero",
			p:    Placement{ID: "helmet", X: 0, Y: 0, Width: 32, Height: 48},
			want: ".helmet {\n  background-position: 0 0;\n  width: 32px;\n  height: 48px;\n}\n",
		},
		{
			name: "nonzero offsets are negated with px suffix",
			p:    Placement{ID: "ring", X: 100, Y: 50, Width: 16, Height: 16},
			want: ".ring {\n  background-position: -100px -50px;\n  width: 16px;\n  height: 16px;\n}\n",
		},
		{
			name: "mixed zero and nonzero",
			p:    Placement{ID: "amulet", X: 0, Y: 250, Width: 24, Height: 24},
			want: ".amulet {\n  background-position: 0 -250px;\n  width: 24px;\n  height: 24px;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Rule(); got != tt.want {
				t.Errorf("Rule() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortPlacements(t *testing.T) {
	placements := []Placement{
		{ID: "zeta", Width: 1, Height: 1},
		{ID: "alpha", Width: 1, Height: 1},
		{ID: "mid", Width: 1, Height: 1},
	}
	SortPlacements(placements)

	want := []string{"alpha", "mid", "zeta"}
	for i, p := range placements {
		if p.ID != want[i] {
			t.Errorf("placements[%d].ID = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestStylesheet(t *testing.T) {
	sheet, err := Pack([]Source{src("b", 100, 50), src("a", 100, 50)})
	if err != nil {
		t.Fatal(err)
	}

	css := sheet.Stylesheet()

	// Rules appear in identifier order regardless of packing order.
	ia := strings.Index(css, ".a {")
	ib := strings.Index(css, ".b {")
	if ia < 0 || ib < 0 {
		t.Fatalf("stylesheet missing rules:\n%s", css)
	}
	if ia > ib {
		t.Error("rules not sorted by identifier")
	}

	// One blank line between rules.
	if !strings.Contains(css, "}\n\n.") {
		t.Errorf("rules not separated by blank line:\n%s", css)
	}

	// a at x=0, b follows at x=100 on the same row.
	if !strings.Contains(css, ".a {\n  background-position: 0 0;") {
		t.Errorf("unexpected rule for a:\n%s", css)
	}
	if !strings.Contains(css, ".b {\n  background-position: -100px 0;") {
		t.Errorf("unexpected rule for b:\n%s", css)
	}
}
