package viz

import (
	"strings"
	"testing"

	"fluidlab/internal/vec"
)

func TestCanvasEmptyIsBlankBraille(t *testing.T) {
	c := NewCanvas(4, 2)
	out := c.String()
	for _, r := range out {
		if r != 0x2800 && r != '\n' {
			t.Fatalf("unexpected rune %q in empty canvas", r)
		}
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected 2 rows, got %d", strings.Count(out, "\n"))
	}
}

func TestCanvasSetLightsDot(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	if c.grid[0][0] == 0x2800 {
		t.Fatal("dot (0,0) not set")
	}
	if c.grid[0][1] != 0x2800 {
		t.Fatal("neighboring cell modified")
	}
}

func TestCanvasSetOutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -3)
	c.Set(100, 0)
	c.Set(0, 100)
	for _, row := range c.grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-range Set modified the canvas")
			}
		}
	}
}

func TestCanvasPlotCorners(t *testing.T) {
	c := NewCanvas(10, 5)
	bounds := vec.Bounds{Min: vec.Vec3{X: -1, Y: 0, Z: -1}, Max: vec.Vec3{X: 1, Y: 2, Z: 1}}
	c.Plot([]vec.Vec3{
		{X: -1, Y: 2, Z: 0}, // top-left
		{X: 1, Y: 0, Z: 0},  // bottom-right
	}, bounds)

	if c.grid[0][0] == 0x2800 {
		t.Fatal("top-left corner not plotted")
	}
	if c.grid[4][9] == 0x2800 {
		t.Fatal("bottom-right corner not plotted")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(1, 1)
	c.Clear()
	for _, row := range c.grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("Clear left dots behind")
			}
		}
	}
}
