package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetAndUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	if c.DotWidth() != 4 || c.DotHeight() != 4 {
		t.Fatalf("dot size = %dx%d", c.DotWidth(), c.DotHeight())
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != brailleBlank|0x1|0x80 {
		t.Errorf("cell = %U", got)
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	if got := c.Grid[0][0]; got != brailleBlank|0x80 {
		t.Errorf("after unset cell = %U", got)
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(2, 0)
	c.Set(0, 4)
	if c.Grid[0][0] != brailleBlank {
		t.Errorf("out of range dots should be dropped, got %U", c.Grid[0][0])
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 2)
	c.DrawLine(0, 5, 19, 5)
	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 5) {
			t.Fatalf("dot (%d, 5) not set", x)
		}
	}

	c.Clear()
	c.DrawLine(3, 0, 3, 7)
	for y := 0; y < 8; y++ {
		if !c.IsSet(3, y) {
			t.Fatalf("dot (3, %d) not set", y)
		}
	}
}

func TestCircles(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 4)
	for _, p := range [][2]int{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("outline missing %v", p)
		}
	}
	if c.IsSet(10, 10) {
		t.Error("outline should not fill the centre")
	}

	c.Clear()
	c.FillCircle(10, 10, 3)
	if !c.IsSet(10, 10) || !c.IsSet(12, 11) {
		t.Error("filled circle has holes")
	}
	if c.IsSet(13, 13) {
		t.Error("filled circle leaks past its radius")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, l := range lines {
		if l != strings.Repeat(string(rune(brailleBlank)), 3) {
			t.Errorf("unexpected row %q", l)
		}
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes) {
		t.Fatalf("names = %v", names)
	}
	if GetTheme("ocean").Name != "ocean" {
		t.Error("lookup by name failed")
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if NextTheme(names[len(names)-1]).Name != names[0] {
		t.Error("NextTheme should wrap around")
	}
}
