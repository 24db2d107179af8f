// Package viz renders the particle field in the terminal: a braille
// canvas for the projected particle cloud and a bubbletea live view
// with run statistics.
package viz

import (
	"strings"

	"fluidlab/internal/vec"
)

// Braille cells pack 2x4 dots per character, so an W x H character
// canvas has W*2 x H*4 addressable pixels. Unicode braille starts at
// 0x2800 with one bit per dot.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width  int
	Height int
	grid   [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for y := range c.grid {
		for x := range c.grid[y] {
			c.grid[y][x] = 0x2800
		}
	}
}

// Set lights the pixel at sub-pixel coordinates (x, y). Out-of-range
// coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= dotBits[y%4][x%2]
}

// Plot projects particle positions onto the canvas: world X maps to
// horizontal, world Y to vertical with the Y axis pointing up.
func (c *Canvas) Plot(pos []vec.Vec3, bounds vec.Bounds) {
	size := bounds.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	pw := float64(c.Width * 2)
	ph := float64(c.Height * 4)

	for _, p := range pos {
		px := (p.X - bounds.Min.X) / size.X * (pw - 1)
		py := (1 - (p.Y-bounds.Min.Y)/size.Y) * (ph - 1)
		c.Set(int(px), int(py))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width + 1))
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
