package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 2)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %#x", c.Grid[0][0])
	}

	c.Set(1, 0)
	if c.Grid[0][0] != 0x2809 {
		t.Errorf("expected dots 1+4, got %#x", c.Grid[0][0])
	}

	// Sub-pixel (3, 7) lands in the bottom-right cell.
	c.Set(3, 7)
	if c.Grid[1][1] == 0x2800 {
		t.Error("bottom-right cell untouched")
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)

	c.Set(-1, 0)
	c.Set(0, -3)
	c.Set(4, 0)
	c.Set(0, 8)

	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Fatalf("out-of-bounds set modified the canvas: %#x", cell)
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.DrawDisc(3, 6, 2)

	c.Clear()
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Fatal("clear left dots behind")
			}
		}
	}
}

func TestCanvasDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 19, 39)

	if c.Grid[0][0] == 0x2800 {
		t.Error("line start not drawn")
	}
	if c.Grid[9][9] == 0x2800 {
		t.Error("line end not drawn")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(4, 3)
	out := c.Render()

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 4 {
			t.Errorf("row %d: expected 4 cells, got %d", i, got)
		}
	}
}
