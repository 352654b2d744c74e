// Package viz is the interactive terminal front end: a bubbletea program
// that animates a pendulum run and plots a chosen output series. It only
// consumes what the runner computes; the animation speed key changes
// playback pacing, never the physics.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/avollmer/pendlab/internal/integrators"
	"github.com/avollmer/pendlab/internal/metrics"
	"github.com/avollmer/pendlab/internal/ode"
	"github.com/avollmer/pendlab/internal/runner"
)

const (
	canvasWidth     = 56
	canvasHeight    = 20
	historyCapacity = 600
	framesPerSecond = 30
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the bubbletea state: the in-flight trajectory, the current frame
// and the UI context. It owns the animation state; the simulation core
// never does.
type Model struct {
	params runner.Params

	dyn   ode.System
	integ *integrators.RK4
	rep   runner.Representation

	state ode.State
	t     float64

	running bool
	speed   float64
	trail   [][3]float64

	canvas    *Canvas
	history   []float64
	paramKeys []string
	selected  int

	err error
}

// NewModel builds the initial simulation state from run parameters.
func NewModel(p runner.Params) (Model, error) {
	dyn, x0, rep, err := runner.Build(p)
	if err != nil {
		return Model{}, err
	}

	keys := make([]string, 0)
	if cfg, ok := dyn.(ode.Configurable); ok {
		for k := range cfg.GetParams() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return Model{
		params:    p,
		dyn:       dyn,
		integ:     integrators.NewRK4(),
		rep:       rep,
		state:     x0,
		running:   true,
		speed:     1.0,
		trail:     make([][3]float64, 0, historyCapacity),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		history:   make([]float64, 0, historyCapacity),
		paramKeys: keys,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "+", "=":
			if m.speed < 8 {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 0.25 {
				m.speed /= 2
			}
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}

	return m, nil
}

// advance steps the integrator enough times to cover one frame of wall
// time at the current playback speed.
func (m *Model) advance() {
	steps := int(m.speed / (framesPerSecond * m.params.StepSize))
	if steps < 1 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		next := m.integ.Step(m.dyn, m.state, m.t, m.params.StepSize)
		if !next.IsFinite() {
			m.running = false
			m.err = fmt.Errorf("%w at t=%.3f", ode.ErrDiverged, m.t)
			return
		}
		m.state = next
		m.t += m.params.StepSize
	}

	if obs, ok := m.dyn.(metrics.AngularObservable); ok {
		m.history = append(m.history, obs.Angle(m.state))
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}

	if pos, ok := m.dyn.(ode.Positioned); ok {
		px, py, pz := pos.Position(m.state)
		m.trail = append(m.trail, [3]float64{px, py, pz})
		if len(m.trail) > historyCapacity {
			m.trail = m.trail[1:]
		}
	}
}

func (m *Model) reset() {
	dyn, x0, rep, err := runner.Build(m.params)
	if err != nil {
		m.err = err
		return
	}
	m.dyn = dyn
	m.state = x0
	m.rep = rep
	m.t = 0
	m.err = nil
	m.running = true
	m.history = m.history[:0]
	m.trail = m.trail[:0]
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	cfg, ok := m.dyn.(ode.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.selected]
	val := cfg.GetParams()[key]
	if val == 0 {
		val = 0.01
	} else {
		val *= factor
	}
	_ = cfg.SetParam(key, val)
}

func (m Model) View() string {
	m.drawScene()

	left := canvasStyle.Render(m.canvas.Render())
	right := statsStyle.Render(m.statsPanel())
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var graph string
	if len(m.history) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.history,
			asciigraph.Height(7),
			asciigraph.Width(canvasWidth+40),
			asciigraph.Caption("theta (rad)"),
		))
	}

	help := helpStyle.Render("space pause · r reset · tab select param · ↑/↓ adjust · +/- speed · q quit")

	header := headerStyle.Render(fmt.Sprintf("pendlab · %s · %s", m.params.Model, m.rep))

	return lipgloss.JoinVertical(lipgloss.Left, header, top, graph, help)
}

// drawScene renders the wall-plane view (x-z) of the rod and bob with a
// fading trail of recent positions.
func (m Model) drawScene() {
	m.canvas.Clear()

	pos, ok := m.dyn.(ode.Positioned)
	if !ok {
		return
	}

	subW := canvasWidth * 2
	subH := canvasHeight * 4
	pivotX, pivotY := subW/2, subH/3
	// Fit 2.2 lengths into the shorter canvas direction.
	scale := float64(subH) / (2.2 * m.params.Length)

	toPixel := func(px, pz float64) (int, int) {
		return pivotX + int(px*scale), pivotY + int(-pz*scale)
	}

	for _, p := range m.trail {
		x, y := toPixel(p[0], p[2])
		m.canvas.Set(x, y)
	}

	bx, _, bz := pos.Position(m.state)
	x, y := toPixel(bx, bz)
	m.canvas.DrawLine(pivotX, pivotY, x, y)
	m.canvas.DrawDisc(x, y, 2)
	m.canvas.Set(pivotX, pivotY)
}

func (m Model) statsPanel() string {
	var sb strings.Builder

	status := "running"
	if !m.running {
		status = "paused"
	}
	if m.err != nil {
		status = m.err.Error()
	}

	row := func(label, value string, active bool) {
		l := labelStyle.Render(label)
		v := valueStyle.Render(value)
		if active {
			v = activeStyle.Render(value)
		}
		sb.WriteString(l + v + "\n")
	}

	row("status", status, false)
	row("t", fmt.Sprintf("%.2f s", m.t), false)
	row("speed", fmt.Sprintf("%.2gx", m.speed), false)

	if obs, ok := m.dyn.(metrics.AngularObservable); ok {
		row("theta", fmt.Sprintf("%.4f rad", obs.Angle(m.state)), false)
		row("omega", fmt.Sprintf("%.4f rad/s", obs.AngularVelocity(m.state)), false)
	}
	row("energy", fmt.Sprintf("%.5f J", metrics.Total(m.dyn, m.state)), false)

	if cfg, ok := m.dyn.(ode.Configurable); ok {
		sb.WriteString("\n")
		params := cfg.GetParams()
		for i, key := range m.paramKeys {
			row(key, fmt.Sprintf("%.4g", params[key]), i == m.selected)
		}
	}

	return sb.String()
}
