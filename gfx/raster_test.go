package gfx

import (
	"image"
	"testing"

	"github.com/lcd12864/st7920/image1bit"
)

func newBuffer() *image1bit.HorizontalMSB {
	return image1bit.NewHorizontalMSB(image.Rect(0, 0, 128, 64))
}

func onPixels(img *image1bit.HorizontalMSB) map[image.Point]bool {
	set := map[image.Point]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.BitAt(x, y) == image1bit.On {
				set[image.Point{X: x, Y: y}] = true
			}
		}
	}
	return set
}

func samePixels(t *testing.T, a, b map[image.Point]bool) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("pixel count %d != %d", len(a), len(b))
	}
	for pt := range a {
		if !b[pt] {
			t.Fatalf("pixel %v set in one buffer but not the other", pt)
		}
	}
}

func TestLineEndpointOrderIndependent(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"horizontal", 3, 10, 40, 10},
		{"vertical", 12, 3, 12, 50},
		{"shallow", 0, 0, 60, 20},
		{"steep", 5, 2, 15, 55},
		{"negative slope", 50, 40, 10, 5},
		{"single point", 7, 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd := newBuffer()
			Line(fwd, tt.x0, tt.y0, tt.x1, tt.y1, image1bit.On, image1bit.Set)
			rev := newBuffer()
			Line(rev, tt.x1, tt.y1, tt.x0, tt.y0, image1bit.On, image1bit.Set)
			samePixels(t, onPixels(fwd), onPixels(rev))
		})
	}
}

func TestLineEndpointsInclusive(t *testing.T) {
	img := newBuffer()
	Line(img, 4, 6, 30, 22, image1bit.On, image1bit.Set)
	if img.BitAt(4, 6) != image1bit.On {
		t.Error("start endpoint not drawn")
	}
	if img.BitAt(30, 22) != image1bit.On {
		t.Error("end endpoint not drawn")
	}
}

func TestLineXORTouchesEachPixelOnce(t *testing.T) {
	// If any pixel were visited twice, XOR would toggle it back off.
	img := newBuffer()
	Line(img, 2, 3, 61, 40, image1bit.On, image1bit.XOR)
	ref := newBuffer()
	Line(ref, 2, 3, 61, 40, image1bit.On, image1bit.Set)
	samePixels(t, onPixels(img), onPixels(ref))
}

func TestFillRectPixelCount(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"normal order", 5, 5, 20, 12},
		{"swapped x", 20, 5, 5, 12},
		{"swapped y", 5, 12, 20, 5},
		{"both swapped", 20, 12, 5, 5},
		{"single pixel", 9, 9, 9, 9},
		{"single row", 3, 7, 40, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newBuffer()
			FillRect(img, tt.x0, tt.y0, tt.x1, tt.y1, image1bit.On, image1bit.Set)

			x0, x1 := minMax(tt.x0, tt.x1)
			y0, y1 := minMax(tt.y0, tt.y1)
			want := (x1 - x0 + 1) * (y1 - y0 + 1)
			if got := len(onPixels(img)); got != want {
				t.Errorf("filled rect set %d pixels, want %d", got, want)
			}
		})
	}
}

func TestRectOutlineMatchesFilledBorder(t *testing.T) {
	outline := newBuffer()
	Rect(outline, 10, 10, 30, 25, image1bit.On, image1bit.Set)

	// The outline must be exactly the filled rect minus the filled interior.
	want := newBuffer()
	FillRect(want, 10, 10, 30, 25, image1bit.On, image1bit.Set)
	FillRect(want, 11, 11, 29, 24, image1bit.Off, image1bit.Set)

	samePixels(t, onPixels(outline), onPixels(want))
}

func TestRectOutlineXORStable(t *testing.T) {
	// Outline edges share corners only once each; XOR must not toggle them off.
	img := newBuffer()
	Rect(img, 10, 10, 30, 25, image1bit.On, image1bit.XOR)
	for _, pt := range []image.Point{{10, 10}, {30, 10}, {10, 25}, {30, 25}} {
		if img.BitAt(pt.X, pt.Y) != image1bit.On {
			t.Errorf("corner %v toggled off under XOR", pt)
		}
	}
}

func TestCircleEightWaySymmetry(t *testing.T) {
	for _, r := range []int{1, 2, 5, 13, 20} {
		img := newBuffer()
		cx, cy := 64, 32
		Circle(img, cx, cy, r, image1bit.On, image1bit.Set)
		for pt := range onPixels(img) {
			dx, dy := pt.X-cx, pt.Y-cy
			mirrors := [8]image.Point{
				{cx + dx, cy + dy}, {cx - dx, cy + dy},
				{cx + dx, cy - dy}, {cx - dx, cy - dy},
				{cx + dy, cy + dx}, {cx - dy, cy + dx},
				{cx + dy, cy - dx}, {cx - dy, cy - dx},
			}
			for _, m := range mirrors {
				if img.BitAt(m.X, m.Y) != image1bit.On {
					t.Fatalf("r=%d: pixel %v set but mirror %v is not", r, pt, m)
				}
			}
		}
	}
}

func TestFillCircleRadiusZero(t *testing.T) {
	img := newBuffer()
	FillCircle(img, 10, 10, 0, image1bit.On, image1bit.Set)
	set := onPixels(img)
	if len(set) != 1 || !set[image.Point{X: 10, Y: 10}] {
		t.Errorf("filled radius-0 circle set %v, want exactly (10,10)", set)
	}
}

func TestCircleNegativeRadiusClamped(t *testing.T) {
	img := newBuffer()
	Circle(img, 20, 20, -5, image1bit.On, image1bit.Set)
	set := onPixels(img)
	if len(set) != 1 || !set[image.Point{X: 20, Y: 20}] {
		t.Errorf("negative radius circle set %v, want exactly (20,20)", set)
	}
}

func TestCircleOutlineXORStable(t *testing.T) {
	img := newBuffer()
	Circle(img, 64, 32, 9, image1bit.On, image1bit.XOR)
	ref := newBuffer()
	Circle(ref, 64, 32, 9, image1bit.On, image1bit.Set)
	samePixels(t, onPixels(img), onPixels(ref))
}

func TestFillCircleContainsOutline(t *testing.T) {
	outline := newBuffer()
	Circle(outline, 64, 32, 12, image1bit.On, image1bit.Set)
	filled := newBuffer()
	FillCircle(filled, 64, 32, 12, image1bit.On, image1bit.Set)

	for pt := range onPixels(outline) {
		if filled.BitAt(pt.X, pt.Y) != image1bit.On {
			t.Fatalf("outline pixel %v missing from filled circle", pt)
		}
	}
	// Interior has no gaps: every pixel strictly inside r-1 must be set.
	for y := -10; y <= 10; y++ {
		for x := -10; x <= 10; x++ {
			if x*x+y*y <= 100 && filled.BitAt(64+x, 32+y) != image1bit.On {
				t.Fatalf("interior pixel (%d,%d) not filled", 64+x, 32+y)
			}
		}
	}
}

func TestFillTriangle(t *testing.T) {
	filled := newBuffer()
	FillTriangle(filled, 10, 5, 50, 10, 25, 40, image1bit.On, image1bit.Set)

	// Vertices always land.
	for _, pt := range []image.Point{{10, 5}, {50, 10}, {25, 40}} {
		if filled.BitAt(pt.X, pt.Y) != image1bit.On {
			t.Errorf("vertex %v not filled", pt)
		}
	}
	// Every scanline between yMin and yMax contributes a contiguous span.
	for y := 5; y <= 40; y++ {
		first, last := -1, -1
		for x := 0; x < 128; x++ {
			if filled.BitAt(x, y) == image1bit.On {
				if first == -1 {
					first = x
				}
				last = x
			}
		}
		if first == -1 {
			t.Fatalf("scanline y=%d has no pixels", y)
		}
		for x := first; x <= last; x++ {
			if filled.BitAt(x, y) != image1bit.On {
				t.Fatalf("gap at (%d,%d) inside span [%d,%d]", x, y, first, last)
			}
		}
	}
	// The interior is covered.
	if filled.BitAt(28, 18) != image1bit.On {
		t.Error("triangle interior not filled")
	}
}

func TestFillTriangleCollinear(t *testing.T) {
	// Collinear vertices reduce to the longest edge.
	img := newBuffer()
	FillTriangle(img, 10, 10, 20, 10, 40, 10, image1bit.On, image1bit.Set)

	want := newBuffer()
	Line(want, 10, 10, 40, 10, image1bit.On, image1bit.Set)
	samePixels(t, onPixels(img), onPixels(want))
}

func TestFillTriangleDegeneratePoint(t *testing.T) {
	img := newBuffer()
	FillTriangle(img, 15, 15, 15, 15, 15, 15, image1bit.On, image1bit.Set)
	set := onPixels(img)
	if len(set) != 1 || !set[image.Point{X: 15, Y: 15}] {
		t.Errorf("point triangle set %v, want exactly (15,15)", set)
	}
}

func TestShapesClipAtBorder(t *testing.T) {
	// Shapes crossing the border must clip, never corrupt.
	img := newBuffer()
	Line(img, -20, -20, 150, 90, image1bit.On, image1bit.Set)
	Circle(img, 0, 0, 30, image1bit.On, image1bit.Set)
	FillCircle(img, 127, 63, 10, image1bit.On, image1bit.Set)
	FillRect(img, 120, 60, 200, 90, image1bit.On, image1bit.Set)
	FillTriangle(img, -10, 30, 30, -10, 10, 10, image1bit.On, image1bit.Set)

	for pt := range onPixels(img) {
		if pt.X < 0 || pt.X > 127 || pt.Y < 0 || pt.Y > 63 {
			t.Fatalf("pixel %v outside buffer bounds", pt)
		}
	}
}
