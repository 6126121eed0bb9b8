package grid

import "testing"

func newTestTransform(t *testing.T, w, h int, pxW, pxH float64) *Transform {
	t.Helper()
	tr, err := NewTransform(
		Axis{DomainMin: 0, DomainMax: w, RangeMin: 0, RangeMax: pxW},
		Axis{DomainMin: 0, DomainMax: h, RangeMin: 0, RangeMax: pxH},
	)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}
	return tr
}

// TestNormalizeWrapInvariant checks that arbitrary out-of-domain values fold
// back into [min, max) and that normalization is idempotent once inside.
func TestNormalizeWrapInvariant(t *testing.T) {
	tr := newTestTransform(t, 20, 15, 640, 480)

	for x := -100; x <= 100; x++ {
		for _, y := range []int{-31, -1, 0, 14, 15, 44} {
			nx, ny := tr.Normalize(x, y)
			if nx < 0 || nx >= 20 {
				t.Fatalf("Normalize(%d,%d) x=%d outside [0,20)", x, y, nx)
			}
			if ny < 0 || ny >= 15 {
				t.Fatalf("Normalize(%d,%d) y=%d outside [0,15)", x, y, ny)
			}

			// Already-normalized values must map to themselves.
			nx2, ny2 := tr.Normalize(nx, ny)
			if nx2 != nx || ny2 != ny {
				t.Fatalf("Normalize not idempotent: (%d,%d) -> (%d,%d)", nx, ny, nx2, ny2)
			}
		}
	}
}

// TestNormalizeNonZeroMin covers domains that do not start at zero.
func TestNormalizeNonZeroMin(t *testing.T) {
	tr, err := NewTransform(
		Axis{DomainMin: 5, DomainMax: 15, RangeMin: 100, RangeMax: 300},
		Axis{DomainMin: -3, DomainMax: 3, RangeMin: 0, RangeMax: 60},
	)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	tests := []struct {
		x, y   int
		wx, wy int
	}{
		{5, -3, 5, -3},
		{15, 3, 5, -3},
		{4, -4, 14, 2},
		{25, 9, 5, -3},
		{-6, 0, 14, 0},
	}
	for _, tc := range tests {
		nx, ny := tr.Normalize(tc.x, tc.y)
		if nx != tc.wx || ny != tc.wy {
			t.Errorf("Normalize(%d,%d) = (%d,%d), want (%d,%d)", tc.x, tc.y, nx, ny, tc.wx, tc.wy)
		}
	}
}

// TestToPixelsAffine checks the pixel map is affine in the normalized
// coordinate: same normalized input, same pixel output.
func TestToPixelsAffine(t *testing.T) {
	tr := newTestTransform(t, 20, 20, 640, 480)
	csx, csy := tr.CellSize()

	if csx != 32 || csy != 24 {
		t.Fatalf("cell size = (%g,%g), want (32,24)", csx, csy)
	}

	for _, raw := range [][2]int{{3, 7}, {23, 27}, {-17, -13}, {43, 47}} {
		nx, ny := tr.Normalize(raw[0], raw[1])
		px, py := tr.ToPixels(nx, ny)
		wantX := float64(nx) * 32
		wantY := float64(ny) * 24
		if px != wantX || py != wantY {
			t.Errorf("ToPixels(%d,%d) = (%g,%g), want (%g,%g)", nx, ny, px, py, wantX, wantY)
		}
	}

	// All raw coordinates congruent to (3,7) share one pixel rectangle.
	base := tr.Cell(3, 7)
	bx, by := base.Pixels()
	for _, raw := range [][2]int{{23, 27}, {-17, -13}, {43, 47}} {
		p := tr.Cell(raw[0], raw[1])
		px, py := p.Pixels()
		if px != bx || py != by {
			t.Errorf("Cell(%d,%d) pixels (%g,%g) != base (%g,%g)", raw[0], raw[1], px, py, bx, by)
		}
	}
}

// TestNewTransformRejectsEmptyAxes checks construction-time invariants.
func TestNewTransformRejectsEmptyAxes(t *testing.T) {
	bad := []struct {
		name string
		x, y Axis
	}{
		{"zero x domain", Axis{0, 0, 0, 100}, Axis{0, 10, 0, 100}},
		{"inverted y domain", Axis{0, 10, 0, 100}, Axis{5, 2, 0, 100}},
		{"zero x range", Axis{0, 10, 50, 50}, Axis{0, 10, 0, 100}},
		{"inverted y range", Axis{0, 10, 0, 100}, Axis{0, 10, 100, 0}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTransform(tc.x, tc.y); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

// TestLinearIndexBijection checks Index maps the cells one-to-one onto
// [0, width*height) and CellAt inverts it.
func TestLinearIndexBijection(t *testing.T) {
	tr, err := NewTransform(
		Axis{DomainMin: 2, DomainMax: 9, RangeMin: 0, RangeMax: 70},
		Axis{DomainMin: -1, DomainMax: 4, RangeMin: 0, RangeMax: 50},
	)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	seen := make(map[int]bool)
	for y := -1; y < 4; y++ {
		for x := 2; x < 9; x++ {
			idx := tr.Cell(x, y).Index()
			if idx < 0 || idx >= tr.Cells() {
				t.Fatalf("Index(%d,%d) = %d outside [0,%d)", x, y, idx, tr.Cells())
			}
			if seen[idx] {
				t.Fatalf("Index(%d,%d) = %d already used", x, y, idx)
			}
			seen[idx] = true

			back := tr.CellAt(idx)
			if !back.EqualXY(x, y) {
				t.Fatalf("CellAt(%d) = %v, want (%d,%d)", idx, back, x, y)
			}
		}
	}
	if len(seen) != tr.Cells() {
		t.Errorf("covered %d indices, want %d", len(seen), tr.Cells())
	}
}

func TestPositionEqual(t *testing.T) {
	tr := newTestTransform(t, 10, 10, 100, 100)

	a := tr.Cell(3, 4)
	b := tr.Cell(13, -6) // wraps to (3,4)
	if !a.Equal(b) {
		t.Errorf("%v should equal %v after wrapping", a, b)
	}
	if !a.EqualXY(3, 4) {
		t.Errorf("%v should equal raw pair (3,4)", a)
	}
	if a.EqualXY(4, 3) {
		t.Errorf("%v should not equal (4,3)", a)
	}

	c := a.Offset(1, 0)
	if a.Equal(c) {
		t.Errorf("Offset must produce a new position, got %v == %v", a, c)
	}
	if !a.EqualXY(3, 4) {
		t.Errorf("Offset mutated the receiver: %v", a)
	}
}
