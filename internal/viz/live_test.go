package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dropsim/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	d, err := sim.New(sim.InteractiveConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	return NewModel(d, nil)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tickN(m Model, n int) Model {
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	return m
}

func TestTickSteps(t *testing.T) {
	m := newTestModel(t)
	if m.stepsPerFrame != 2 {
		t.Fatalf("steps per frame = %d, want 2 for dt 0.01", m.stepsPerFrame)
	}

	m = tickN(m, 5)
	if m.last.Step != 10 {
		t.Errorf("step = %d, want 10", m.last.Step)
	}
	if len(m.heights) != 10 || len(m.history) != 10 {
		t.Errorf("history sizes %d/%d", len(m.heights), len(m.history))
	}
	if m.last.Height() >= m.driver.Config().StartHeight {
		t.Error("sphere should be falling")
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	m := press(newTestModel(t), " ")
	m = tickN(m, 3)
	if m.last.Step != 0 {
		t.Fatalf("paused model stepped to %d", m.last.Step)
	}

	m = press(m, "s")
	if m.last.Step != 1 {
		t.Errorf("single step reached %d", m.last.Step)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should report the pause")
	}
}

func TestReset(t *testing.T) {
	m := tickN(newTestModel(t), 20)
	m = press(m, "r")
	if m.last.Step != 0 || m.last.Height() != m.driver.Config().StartHeight {
		t.Errorf("reset left %+v", m.last)
	}
	if len(m.history) != 0 || !m.running {
		t.Error("reset should clear history and resume")
	}
}

func TestSpeed(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 10; i++ {
		m = press(m, "+")
	}
	if m.stepsPerFrame != maxSpeed {
		t.Errorf("speed = %d, want cap %d", m.stepsPerFrame, maxSpeed)
	}
	for i := 0; i < 10; i++ {
		m = press(m, "-")
	}
	if m.stepsPerFrame != 1 {
		t.Errorf("speed = %d, want 1", m.stepsPerFrame)
	}
}

func TestScrub(t *testing.T) {
	m := tickN(newTestModel(t), 4)
	live := m.last

	m = press(m, "[")
	m = press(m, "[")
	if m.running || m.playHead != len(m.history)-3 {
		t.Fatalf("playHead = %d running = %v", m.playHead, m.running)
	}
	if m.current().Step != live.Step-2 {
		t.Errorf("scrubbed to step %d", m.current().Step)
	}

	for i := 0; i < 3; i++ {
		m = press(m, "]")
	}
	if m.playHead != -1 || m.current() != live {
		t.Error("scrubbing forward past the end should return to live")
	}
}

func TestThemeCycle(t *testing.T) {
	m := newTestModel(t)
	first := m.theme.Name
	m = press(m, "t")
	if m.theme.Name == first {
		t.Error("theme did not change")
	}
	if !strings.Contains(m.View(), m.theme.Name) {
		t.Error("view should name the theme")
	}
}

func TestQuit(t *testing.T) {
	_, cmd := newTestModel(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewDrawsBallAndGround(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"DROPSIM", "RUNNING", "Height", "10.0000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	groundY := m.canvas.DotHeight() - 3
	for x := 0; x < m.canvas.DotWidth(); x++ {
		if !m.canvas.IsSet(x, groundY) {
			t.Fatalf("ground dot %d missing", x)
		}
	}
	cx, upper := m.canvas.DotWidth()/2, false
	for y := 0; y < groundY/2; y++ {
		upper = upper || m.canvas.IsSet(cx, y)
	}
	if !upper {
		t.Error("ball at the start height should be drawn in the upper half")
	}
}
