// Package image1bit provides a 1-bit monochrome image format optimized for the ST7920 LCD.
//
// The ST7920 consumes pixel data as 16-bit words with the most significant bit
// on the left, so pixels are packed 8 per byte, MSB-first.
// This package provides the Bit color type and HorizontalMSB image implementation.
package image1bit

import (
	"image"
	"image/color"
)

// Bit represents a single on/off pixel.
type Bit bool

// Possible bit values.
const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA.
// On maps to white, Off maps to black.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// String returns "On" or "Off".
func (c Bit) String() string {
	if c {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Standard grayscale conversion: 0.299R + 0.587G + 0.114B,
	// thresholded at mid-scale.
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Blend is the boolean operator combining an incoming pixel value with the
// buffer's existing value.
//
// The set of operators is closed; combine() holds the full truth table.
type Blend uint8

const (
	// Set overwrites the existing pixel with the incoming value.
	Set Blend = iota
	// Clear turns the pixel off wherever the incoming value is on.
	Clear
	// XOR toggles the pixel wherever the incoming value is on.
	XOR
	// And keeps the pixel on only where both values are on.
	And
)

// String returns the blend operator name.
func (bl Blend) String() string {
	switch bl {
	case Set:
		return "Set"
	case Clear:
		return "Clear"
	case XOR:
		return "XOR"
	case And:
		return "And"
	default:
		return "Unknown"
	}
}

// combine applies the blend operator to an existing and an incoming bit.
func (bl Blend) combine(dst, src Bit) Bit {
	switch bl {
	case Set:
		return src
	case Clear:
		return dst && !src
	case XOR:
		return dst != src
	case And:
		return dst && src
	default:
		return src
	}
}

// HorizontalMSB is a 1-bit image where 8 horizontally consecutive pixels are
// packed into one byte, most significant bit on the left.
type HorizontalMSB struct {
	Pix    []byte          // Pixel data (8 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewHorizontalMSB creates a new HorizontalMSB image with the specified bounds.
// The width must be a multiple of 8 (since 8 pixels per byte).
func NewHorizontalMSB(r image.Rectangle) *HorizontalMSB {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &HorizontalMSB{Rect: r}
	}
	if w%8 != 0 {
		panic("image1bit: width must be a multiple of 8")
	}

	stride := w / 8
	return &HorizontalMSB{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *HorizontalMSB) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *HorizontalMSB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *HorizontalMSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit at (x, y).
// Out-of-range coordinates return Off.
func (p *HorizontalMSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, mask := p.pixOffset(x, y)
	return Bit(p.Pix[offset]&mask != 0)
}

// Set sets the color of the pixel at (x, y).
// It implements the draw.Image interface.
func (p *HorizontalMSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit at (x, y).
// Out-of-range coordinates are silently clipped; drawing near the border
// never needs special-casing by callers.
func (p *HorizontalMSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// SetBlend combines an incoming pixel with the existing pixel at (x, y)
// using the given blend operator. Out-of-range coordinates are silently
// clipped, like SetBit.
func (p *HorizontalMSB) SetBlend(x, y int, b Bit, bl Blend) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if bl.combine(Bit(p.Pix[offset]&mask != 0), b) {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Clear sets every pixel to b.
func (p *HorizontalMSB) Clear(b Bit) {
	fill := byte(0x00)
	if b {
		fill = 0xFF
	}
	for i := range p.Pix {
		p.Pix[i] = fill
	}
}

// Invert toggles every pixel.
func (p *HorizontalMSB) Invert() {
	for i := range p.Pix {
		p.Pix[i] ^= 0xFF
	}
}

// Blit composites src onto p with its top-left corner at sp, combining
// pixels with the given blend operator. The source is clipped to the
// destination bounds.
func (p *HorizontalMSB) Blit(src *HorizontalMSB, sp image.Point, bl Blend) {
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.SetBlend(sp.X+x-b.Min.X, sp.Y+y-b.Min.Y, src.BitAt(x, y), bl)
		}
	}
}

// Row returns the packed bytes of row y, leftmost pixel in the high bit of
// the first byte. The slice aliases the image's pixel storage; callers must
// not retain it across mutations. Out-of-range rows return nil.
func (p *HorizontalMSB) Row(y int) []byte {
	if y < p.Rect.Min.Y || y >= p.Rect.Max.Y {
		return nil
	}
	start := (y - p.Rect.Min.Y) * p.Stride
	return p.Pix[start : start+p.Stride]
}

// Words returns row y as big-endian 16-bit words, the granularity at which
// the ST7920 accepts GDRAM writes. Out-of-range rows return nil.
func (p *HorizontalMSB) Words(y int) []uint16 {
	row := p.Row(y)
	if row == nil {
		return nil
	}
	words := make([]uint16, len(row)/2)
	for i := range words {
		words[i] = uint16(row[2*i])<<8 | uint16(row[2*i+1])
	}
	return words
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
// Memory layout: each byte contains 8 pixels horizontally, MSB leftmost.
func (p *HorizontalMSB) pixOffset(x, y int) (offset int, mask byte) {
	offset = (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)/8
	mask = 0x80 >> uint((x-p.Rect.Min.X)&7)
	return
}
