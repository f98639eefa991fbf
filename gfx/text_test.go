package gfx

import (
	"image"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/lcd12864/st7920/image1bit"
)

// fakeSource is a deterministic GlyphSource for tests. Every known rune
// renders as a 3x3 block whose coverage is the value stored in the map,
// positioned directly above the baseline.
type fakeSource struct {
	coverage map[rune]uint8
}

func (f *fakeSource) Glyph(r rune) (*image.Alpha, image.Point, int, bool) {
	cov, ok := f.coverage[r]
	if !ok {
		return nil, image.Point{}, 2, false
	}
	mask := image.NewAlpha(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			mask.Pix[y*mask.Stride+x] = cov
		}
	}
	return mask, image.Point{X: 0, Y: -3}, 4, true
}

func (f *fakeSource) Ascent() int {
	return 3
}

func TestDrawStringThreshold(t *testing.T) {
	src := &fakeSource{coverage: map[rune]uint8{'a': 0xFF, 'b': 0x10}}

	tests := []struct {
		name      string
		text      string
		threshold uint8
		wantOn    int
	}{
		{"full coverage passes default threshold", "a", 0, 9},
		{"low coverage fails default threshold", "b", 0, 0},
		{"low threshold admits low coverage", "b", 0x10, 9},
		{"two glyphs", "aa", 0, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := image1bit.NewHorizontalMSB(image.Rect(0, 0, 64, 16))
			DrawString(dst, image.Point{X: 0, Y: 0}, src, tt.text, tt.threshold, image1bit.Set)
			count := 0
			for y := 0; y < 16; y++ {
				for x := 0; x < 64; x++ {
					if dst.BitAt(x, y) == image1bit.On {
						count++
					}
				}
			}
			if count != tt.wantOn {
				t.Errorf("DrawString set %d pixels, want %d", count, tt.wantOn)
			}
		})
	}
}

func TestDrawStringAdvance(t *testing.T) {
	src := &fakeSource{coverage: map[rune]uint8{'a': 0xFF}}
	dst := image1bit.NewHorizontalMSB(image.Rect(0, 0, 64, 16))

	end := DrawString(dst, image.Point{X: 5, Y: 0}, src, "aa", 0, image1bit.Set)
	if end != 5+8 {
		t.Errorf("cursor after two glyphs = %d, want %d", end, 13)
	}

	// Second glyph starts at the first glyph's advance, not at its width.
	if dst.BitAt(9, 2) != image1bit.On {
		t.Error("second glyph not positioned by cumulative advance")
	}
}

func TestDrawStringMissingGlyphSkipped(t *testing.T) {
	src := &fakeSource{coverage: map[rune]uint8{'a': 0xFF}}
	dst := image1bit.NewHorizontalMSB(image.Rect(0, 0, 64, 16))

	// 'x' has no glyph: skipped with fallback advance 2, no pixels drawn.
	end := DrawString(dst, image.Point{X: 0, Y: 0}, src, "xa", 0, image1bit.Set)
	if end != 2+4 {
		t.Errorf("cursor = %d, want %d", end, 6)
	}
	if dst.BitAt(2, 2) != image1bit.On {
		t.Error("glyph after missing character misplaced")
	}
}

func TestDrawStringStaysInBoundingBoxes(t *testing.T) {
	src := &fakeSource{coverage: map[rune]uint8{'a': 0xFF}}
	dst := image1bit.NewHorizontalMSB(image.Rect(0, 0, 64, 16))
	dst.Clear(image1bit.On)

	// With blend Set and full coverage, only the glyph boxes may change;
	// everything else must stay On.
	DrawString(dst, image.Point{X: 10, Y: 4}, src, "a", 0, image1bit.Set)
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			if dst.BitAt(x, y) != image1bit.On {
				t.Fatalf("pixel (%d,%d) modified outside glyph bounding box", x, y)
			}
		}
	}
}

func TestStringWidth(t *testing.T) {
	src := &fakeSource{coverage: map[rune]uint8{'a': 0xFF}}
	if w := StringWidth(src, "aaxa"); w != 4+4+2+4 {
		t.Errorf("StringWidth = %d, want 14", w)
	}
}

func TestFaceSourceBasicfont(t *testing.T) {
	src := &FaceSource{Face: basicfont.Face7x13}

	mask, _, adv, ok := src.Glyph('A')
	if !ok {
		t.Fatal("basicfont should render 'A'")
	}
	if adv != 7 {
		t.Errorf("advance = %d, want 7", adv)
	}
	if mask.Bounds().Empty() {
		t.Error("glyph mask is empty")
	}

	covered := false
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !covered; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A > 0 {
				covered = true
				break
			}
		}
	}
	if !covered {
		t.Error("glyph mask has no coverage")
	}

	if src.Ascent() <= 0 {
		t.Errorf("Ascent = %d, want > 0", src.Ascent())
	}

	dst := image1bit.NewHorizontalMSB(image.Rect(0, 0, 128, 16))
	end := DrawString(dst, image.Point{}, src, "OK", 0, image1bit.Set)
	if end != 14 {
		t.Errorf("cursor = %d, want 14", end)
	}
	count := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 128; x++ {
			if dst.BitAt(x, y) == image1bit.On {
				count++
			}
		}
	}
	if count == 0 {
		t.Error("rendering \"OK\" set no pixels")
	}
}
