// Package gfx draws 1-bit shapes and text into an image1bit buffer.
//
// All functions are stateless: they take the destination buffer, the shape
// parameters, the pixel value to draw with and the blend operator used to
// combine it with the buffer's existing pixels. Coordinates outside the
// buffer are clipped by the buffer itself, so shapes may safely cross the
// border.
package gfx

import (
	"math"
	"sort"

	"github.com/lcd12864/st7920/image1bit"
)

// Line draws the 8-connected Bresenham path between (x0, y0) and (x1, y1),
// endpoints inclusive. Every pixel on the path is touched exactly once and
// the result does not depend on endpoint order.
func Line(dst *image1bit.HorizontalMSB, x0, y0, x1, y1 int, b image1bit.Bit, bl image1bit.Blend) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		dst.SetBlend(x0, y0, b, bl)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// HLine draws the horizontal span [x0, x1] on row y.
func HLine(dst *image1bit.HorizontalMSB, x0, x1, y int, b image1bit.Bit, bl image1bit.Blend) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		dst.SetBlend(x, y, b, bl)
	}
}

// Rect draws the outline of the rectangle spanned by the two corners
// (x0, y0) and (x1, y1), both inclusive. Corner order does not matter.
func Rect(dst *image1bit.HorizontalMSB, x0, y0, x1, y1 int, b image1bit.Bit, bl image1bit.Blend) {
	x0, x1 = minMax(x0, x1)
	y0, y1 = minMax(y0, y1)
	Line(dst, x0, y0, x1, y0, b, bl)
	if y1 > y0 {
		Line(dst, x0, y1, x1, y1, b, bl)
	}
	if y1 > y0+1 {
		Line(dst, x0, y0+1, x0, y1-1, b, bl)
		if x1 > x0 {
			Line(dst, x1, y0+1, x1, y1-1, b, bl)
		}
	}
}

// FillRect draws every pixel with x0 <= x <= x1 and y0 <= y <= y1 after
// normalizing the corner order.
func FillRect(dst *image1bit.HorizontalMSB, x0, y0, x1, y1 int, b image1bit.Bit, bl image1bit.Blend) {
	x0, x1 = minMax(x0, x1)
	y0, y1 = minMax(y0, y1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetBlend(x, y, b, bl)
		}
	}
}

// Circle draws the midpoint-algorithm outline of the circle centered at
// (cx, cy) with radius r. One octant is generated and mirrored into the
// remaining seven. A negative radius is clamped to zero; radius zero draws
// the single center pixel.
func Circle(dst *image1bit.HorizontalMSB, cx, cy, r int, b image1bit.Bit, bl image1bit.Blend) {
	circle(dst, cx, cy, r, false, b, bl)
}

// FillCircle draws the filled circle centered at (cx, cy) with radius r,
// connecting each mirrored octant pair with a horizontal span so the disc
// has no gaps. Spans overlap near the axes, so a pixel may be touched more
// than once; the XOR blend is only stable with Circle, not FillCircle.
func FillCircle(dst *image1bit.HorizontalMSB, cx, cy, r int, b image1bit.Bit, bl image1bit.Blend) {
	circle(dst, cx, cy, r, true, b, bl)
}

func circle(dst *image1bit.HorizontalMSB, cx, cy, r int, fill bool, b image1bit.Bit, bl image1bit.Blend) {
	if r < 0 {
		r = 0
	}
	x, y := 0, r
	d := 1 - r
	for x <= y {
		if fill {
			HLine(dst, cx-x, cx+x, cy+y, b, bl)
			if y != 0 {
				HLine(dst, cx-x, cx+x, cy-y, b, bl)
			}
			if x != y {
				HLine(dst, cx-y, cx+y, cy+x, b, bl)
				if x != 0 {
					HLine(dst, cx-y, cx+y, cy-x, b, bl)
				}
			}
		} else {
			plot8(dst, cx, cy, x, y, b, bl)
		}
		if d < 0 {
			d += 2*x + 3
		} else {
			d += 2*(x-y) + 5
			y--
		}
		x++
	}
}

// plot8 mirrors one octant point into all eight octants. Points that
// coincide on the axes or the diagonal are emitted once.
func plot8(dst *image1bit.HorizontalMSB, cx, cy, x, y int, b image1bit.Bit, bl image1bit.Blend) {
	dst.SetBlend(cx+x, cy+y, b, bl)
	if x != 0 {
		dst.SetBlend(cx-x, cy+y, b, bl)
	}
	if y != 0 {
		dst.SetBlend(cx+x, cy-y, b, bl)
		if x != 0 {
			dst.SetBlend(cx-x, cy-y, b, bl)
		}
	}
	if x != y {
		dst.SetBlend(cx+y, cy+x, b, bl)
		if y != 0 {
			dst.SetBlend(cx-y, cy+x, b, bl)
		}
		if x != 0 {
			dst.SetBlend(cx+y, cy-x, b, bl)
			if y != 0 {
				dst.SetBlend(cx-y, cy-x, b, bl)
			}
		}
	}
}

// Triangle draws the outline of the triangle with the given vertices by
// drawing its three edges.
func Triangle(dst *image1bit.HorizontalMSB, x0, y0, x1, y1, x2, y2 int, b image1bit.Bit, bl image1bit.Blend) {
	Line(dst, x0, y0, x1, y1, b, bl)
	Line(dst, x1, y1, x2, y2, b, bl)
	Line(dst, x2, y2, x0, y0, b, bl)
}

// FillTriangle draws the filled triangle with the given vertices using a
// scanline fill. Each scanline's left and right edge intersections are
// rounded to the nearest pixel and the span between them is drawn
// inclusively. A degenerate (zero area) triangle falls back to its outline,
// which reduces to the longest edge.
func FillTriangle(dst *image1bit.HorizontalMSB, x0, y0, x1, y1, x2, y2 int, b image1bit.Bit, bl image1bit.Blend) {
	// Twice the signed area; zero means the vertices are collinear.
	if (x1-x0)*(y2-y0)-(x2-x0)*(y1-y0) == 0 {
		Triangle(dst, x0, y0, x1, y1, x2, y2, b, bl)
		return
	}

	yMin := min3(y0, y1, y2)
	yMax := max3(y0, y1, y2)
	edges := [3][4]int{
		{x0, y0, x1, y1},
		{x1, y1, x2, y2},
		{x2, y2, x0, y0},
	}
	for y := yMin; y <= yMax; y++ {
		var xs []float64
		for _, e := range edges {
			ex0, ey0, ex1, ey1 := e[0], e[1], e[2], e[3]
			if ey0 == ey1 {
				continue
			}
			lo, hi := minMax(ey0, ey1)
			if y < lo || y > hi {
				continue
			}
			t := float64(y-ey0) / float64(ey1-ey0)
			xs = append(xs, float64(ex0)+t*float64(ex1-ex0))
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		xL := int(math.Round(xs[0]))
		xR := int(math.Round(xs[1]))
		HLine(dst, xL, xR, y, b, bl)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
