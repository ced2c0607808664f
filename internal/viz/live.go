package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/dropsim/internal/scene"
	"github.com/san-kum/dropsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
	frameRate       = 60
	maxSpeed        = 64
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a driver on every tick and keeps a bounded history of the
// samples it produced for the graphs and for scrubbing.
type Model struct {
	driver *sim.Driver
	log    *zap.Logger
	canvas *Canvas
	theme  Theme
	styles styles

	running       bool
	stepsPerFrame int
	last          sim.Sample
	startEnergy   float64
	heights       []float64
	contacts      []float64
	history       []sim.Sample
	playHead      int
	showHelp      bool
	err           error
}

// NewModel wraps a driver that is ready to step. The model does not close it.
func NewModel(d *sim.Driver, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := d.Config()
	perFrame := int(1/(frameRate*cfg.Dt) + 0.5)

	m := Model{
		driver:        d,
		log:           log,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		theme:         Themes[0],
		styles:        newStyles(Themes[0]),
		running:       true,
		stepsPerFrame: max(perFrame, 1),
		heights:       make([]float64, 0, historyCapacity),
		contacts:      make([]float64, 0, historyCapacity),
		history:       make([]sim.Sample, 0, historyCapacity),
		playHead:      -1,
	}
	m.last = d.Sample()
	m.startEnergy = sim.Energy(cfg, m.last)
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

// Err is the simulation error that stopped the model, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "s":
			if !m.running && m.err == nil {
				m.playHead = -1
				m.advance(1)
			}
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxSpeed)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.advance(m.stepsPerFrame)
			} else {
				m.scrub(1)
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		s, err := m.driver.Step()
		if err != nil {
			m.err = err
			m.running = false
			m.log.Error("live view stopped", zap.Error(err))
			return
		}
		m.record(s)
	}
}

func (m *Model) record(s sim.Sample) {
	m.last = s
	m.heights = appendBounded(m.heights, s.Height())
	m.contacts = appendBounded(m.contacts, float64(s.Contacts))
	m.history = append(m.history, s)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendBounded(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyCapacity {
		values = values[1:]
	}
	return values
}

// scrub moves the playback position through the history. Moving past the
// newest frame returns to live stepping.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 || dir > 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(m.playHead+dir, 0)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.driver.Reset()
	m.last = m.driver.Sample()
	m.heights = m.heights[:0]
	m.contacts = m.contacts[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.err = nil
	m.running = true
	m.log.Debug("live view reset")
}

func (m Model) current() sim.Sample {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.last
}

// draw projects the ground, the reference sphere at the origin and the ball
// onto the canvas. The vertical scale fits the start height.
func (m Model) draw(s sim.Sample) {
	cfg := m.driver.Config()
	c := m.canvas
	c.Clear()

	groundY := c.DotHeight() - 3
	top := max(cfg.StartHeight, s.Height()) + 2*cfg.Radius
	scale := float64(groundY-2) / top
	cx := c.DotWidth() / 2

	project := func(sp scene.Sphere) (int, int, int) {
		x := cx + int(float64(sp.Center.X())*scale)
		y := groundY - int(float64(sp.Center.Y())*scale+0.5)
		r := max(int(float64(sp.Radius)*scale+0.5), 1)
		return x, y, r
	}

	f := scene.Layout(s.Position, cfg.Radius)
	c.DrawLine(0, groundY, c.DotWidth()-1, groundY)
	x, y, r := project(f.Reference)
	c.DrawCircle(x, y, r)
	x, y, r = project(f.Ball)
	c.FillCircle(x, y, r)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.failed.Render("STOPPED: " + m.err.Error())
	case m.playHead >= 0:
		back := m.history[m.playHead].Time - m.last.Time
		if m.running {
			return m.styles.paused.Render(fmt.Sprintf("REPLAYING (%.2fs)", back))
		}
		return m.styles.paused.Render(fmt.Sprintf("REPLAY PAUSED (%.2fs)", back))
	case !m.running:
		return m.styles.paused.Render("PAUSED")
	}
	return m.styles.running.Render("RUNNING")
}

func (m Model) View() string {
	s := m.current()
	m.draw(s)
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	row := func(label, value string) string {
		return st.label.Render(label) + st.value.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(st.header.Render("DROPSIM") + "\n")
	b.WriteString(m.status() + "\n\n")
	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("Height"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	b.WriteString(row("Time", fmt.Sprintf("%.3fs", s.Time)))
	b.WriteString(row("Height", fmt.Sprintf("%.4f", s.Height())))
	b.WriteString(row("Velocity", fmt.Sprintf("%+.4f", s.Velocity.Y())))
	b.WriteString(row("Contacts", fmt.Sprintf("%d", s.Contacts)))
	energy := sim.Energy(m.driver.Config(), s)
	b.WriteString(row("Energy", fmt.Sprintf("%.3f", energy)))
	if m.startEnergy > 0 {
		b.WriteString(st.label.Render("") + st.Bar(energy/m.startEnergy, 20) + "\n")
	}
	b.WriteString(row("Speed", fmt.Sprintf("x%d", m.stepsPerFrame)))
	b.WriteString(row("Theme", m.theme.Name))
	b.WriteString("\n" + st.label.Render("Contact") + st.Sparkline(m.contacts, 24) + "\n")

	b.WriteString(st.help.Render("SP:Pause S:Step R:Reset Q:Quit\nT:Theme +/-:Speed [ ]:Scrub ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(b.String()))
	if m.showHelp {
		return helpBox(st) + "\n" + mainView
	}
	return mainView
}

func helpBox(st styles) string {
	lines := []string{
		"Space  pause / resume",
		"S      single step while paused",
		"R      reset the sphere",
		"T      cycle themes",
		"+ / -  double / halve steps per frame",
		"[ / ]  scrub recent frames",
		"?      toggle this help",
		"Q      quit",
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.header.GetForeground()).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// Run drives cfg in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, cfg sim.Config, log *zap.Logger) error {
	d, err := sim.New(cfg, sim.WithLogger(log))
	if err != nil {
		return err
	}
	defer d.Close()

	p := tea.NewProgram(NewModel(d, log), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
