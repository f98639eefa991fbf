package gfx

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/lcd12864/st7920/image1bit"
)

// DefaultThreshold is the coverage threshold used when callers pass 0 to
// DrawString. Coverage is 8-bit, so 0x80 splits the range in half.
const DefaultThreshold = 0x80

// GlyphSource produces coverage bitmaps for single characters. It is the
// injection point for font rasterization so the text renderer can be tested
// with a deterministic fake.
type GlyphSource interface {
	// Glyph returns the 8-bit coverage bitmap of r's bounding box, the
	// bitmap's offset relative to a cursor sitting on the text baseline,
	// and the cursor advance in pixels. ok is false when the source has no
	// renderable glyph for r; the returned advance is then the source's
	// fallback advance.
	Glyph(r rune) (mask *image.Alpha, offset image.Point, advance int, ok bool)

	// Ascent returns the distance in pixels from the top of a line of text
	// to its baseline.
	Ascent() int
}

// FaceSource adapts a font.Face (e.g. an opentype face or
// basicfont.Face7x13) to the GlyphSource interface.
type FaceSource struct {
	Face font.Face

	// MissingAdvance is the cursor advance used for characters the face
	// cannot render. If zero, half the face height is used.
	MissingAdvance int
}

// Glyph rasterizes r through the underlying face and copies the covered
// bounding box into a standalone coverage bitmap.
func (f *FaceSource) Glyph(r rune) (*image.Alpha, image.Point, int, bool) {
	dr, maskImg, maskp, adv, ok := f.Face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, image.Point{}, f.missingAdvance(), false
	}

	mask := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			c := color.AlphaModel.Convert(maskImg.At(maskp.X+x, maskp.Y+y)).(color.Alpha)
			mask.SetAlpha(x, y, c)
		}
	}
	return mask, dr.Min, adv.Round(), true
}

// Ascent returns the face's ascent in pixels.
func (f *FaceSource) Ascent() int {
	return f.Face.Metrics().Ascent.Round()
}

func (f *FaceSource) missingAdvance() int {
	if f.MissingAdvance > 0 {
		return f.MissingAdvance
	}
	return f.Face.Metrics().Height.Round() / 2
}

// DrawString renders a single line of text into dst with the top-left
// corner of the line at p. Each glyph's coverage is thresholded (coverage
// >= threshold turns the pixel on) and composited with the given blend
// operator; pixels outside a glyph's bounding box, and pixels under the
// threshold, are never modified. Characters without a renderable glyph are
// skipped and the cursor advances by the source's fallback advance.
//
// threshold 0 selects DefaultThreshold. The return value is the x
// coordinate of the cursor after the last glyph, useful for measuring.
func DrawString(dst *image1bit.HorizontalMSB, p image.Point, src GlyphSource, s string, threshold uint8, bl image1bit.Blend) int {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	x := p.X
	baseline := p.Y + src.Ascent()
	for _, r := range s {
		mask, off, adv, ok := src.Glyph(r)
		if !ok {
			x += adv
			continue
		}
		b := mask.Bounds()
		for my := b.Min.Y; my < b.Max.Y; my++ {
			for mx := b.Min.X; mx < b.Max.X; mx++ {
				if mask.AlphaAt(mx, my).A >= threshold {
					dst.SetBlend(x+off.X+mx-b.Min.X, baseline+off.Y+my-b.Min.Y, image1bit.On, bl)
				}
			}
		}
		x += adv
	}
	return x
}

// StringWidth returns the width in pixels of s as DrawString would render
// it: the sum of the glyph advances.
func StringWidth(src GlyphSource, s string) int {
	w := 0
	for _, r := range s {
		_, _, adv, _ := src.Glyph(r)
		w += adv
	}
	return w
}
