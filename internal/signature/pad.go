// Package signature implements the proof-of-delivery stroke recorder: a
// fixed-size bitmap that freehand pointer/touch strokes are committed to.
package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Point in pixels. Raw input points are in screen coordinates and are
// normalized against the surface offset before drawing.
type Point struct {
	X int
	Y int
}

var ink = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}

// Pad records freehand strokes onto a fixed-size bitmap. Not safe for
// concurrent use; the owning session serializes access.
type Pad struct {
	width   int
	height  int
	offsetX int
	offsetY int

	img    *image.RGBA
	active bool
	drawn  bool
	last   Point
}

func NewPad(width, height int) *Pad {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// white surface
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return &Pad{width: width, height: height, img: img}
}

// SetOffset records the surface's on-screen position so that raw input
// coordinates can be translated to surface-local ones.
func (p *Pad) SetOffset(x, y int) {
	p.offsetX = x
	p.offsetY = y
}

func (p *Pad) normalize(pt Point) Point {
	return Point{X: pt.X - p.offsetX, Y: pt.Y - p.offsetY}
}

// BeginStroke starts a new path at pt.
func (p *Pad) BeginStroke(pt Point) {
	p.last = p.normalize(pt)
	p.active = true
}

// ExtendStroke appends a line segment from the last point to pt and commits
// it to the bitmap. No-op unless a stroke is active.
func (p *Pad) ExtendStroke(pt Point) {
	if !p.active {
		return
	}
	next := p.normalize(pt)
	p.drawLine(p.last, next)
	p.last = next
}

// EndStroke deactivates drawing. Further ExtendStroke calls are ignored
// until the next BeginStroke.
func (p *Pad) EndStroke() {
	p.active = false
}

// Empty reports whether no ink has been committed yet.
func (p *Pad) Empty() bool { return !p.drawn }

// EncodePNG returns the captured bitmap as the proof-of-delivery artifact.
func (p *Pad) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLine rasterizes the segment a->b with Bresenham's algorithm.
// Out-of-bounds pixels are clipped, not an error.
func (p *Pad) drawLine(a, b Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)

	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}

	x, y := a.X, a.Y
	err := dx + dy
	for {
		p.set(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (p *Pad) set(x, y int) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	p.img.SetRGBA(x, y, ink)
	p.drawn = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
