package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"fluidlab/internal/fluid"
	"fluidlab/internal/metrics"
	"fluidlab/internal/vec"
)

const (
	canvasWidth     = 72
	canvasHeight    = 22
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the live terminal view: it owns the simulator and steps
// it on every animation tick.
type Model struct {
	sim           *fluid.Simulator
	dt            float64
	stepsPerFrame int
	canvas        *Canvas
	scene         string
	running       bool
	err           error

	energy        *metrics.KineticEnergy
	momentum      *metrics.Momentum
	energyHistory []float64

	resetSeed string
}

// NewModel wraps a simulator for interactive viewing. stepsPerFrame
// trades smoothness against simulated time per wall-clock second.
func NewModel(sim *fluid.Simulator, scene string, dt float64, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	en := metrics.NewKineticEnergy()
	mom := metrics.NewMomentum()
	sim.AddObserver(en)
	sim.AddObserver(mom)

	seed, _ := sim.ToSeed()

	return Model{
		sim:           sim,
		dt:            dt,
		stepsPerFrame: stepsPerFrame,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		scene:         scene,
		running:       true,
		energy:        en,
		momentum:      mom,
		energyHistory: make([]float64, 0, historyCapacity),
		resetSeed:     seed,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
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
		case "f":
			m.splash()
		case "+", "=":
			m.stepsPerFrame++
		case "-", "_":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame--
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerFrame; i++ {
				if err := m.sim.Step(m.dt); err != nil {
					m.err = err
					m.running = false
					break
				}
			}
			m.energyHistory = append(m.energyHistory, m.energy.Value())
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// splash pushes particles outward from the domain center for one step.
func (m *Model) splash() {
	c := m.sim.Config().Bounds.Center()
	size := m.sim.Config().Bounds.Size()
	radius := size.Len() / 4
	m.sim.ApplyForce(c, radius, -40)
}

func (m *Model) reset() {
	if m.resetSeed == "" {
		return
	}
	sim, err := fluid.FromSeed(m.resetSeed)
	if err != nil {
		m.err = err
		return
	}
	m.sim = sim
	m.energy = metrics.NewKineticEnergy()
	m.momentum = metrics.NewMomentum()
	m.sim.AddObserver(m.energy)
	m.sim.AddObserver(m.momentum)
	m.energyHistory = m.energyHistory[:0]
	m.err = nil
	m.running = true
}

// View renders the particle field beside a stats panel.
func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.Plot(m.positions(), m.sim.Config().Bounds)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene)) + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = "ERROR: " + m.err.Error()
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Steps())) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Particles().Count)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/frame", m.stepsPerFrame)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f J", m.energy.Value())) + "\n")
	s.WriteString(labelStyle.Render("|p|") + valueStyle.Render(fmt.Sprintf("%.4f kg·m/s", m.momentum.Value())) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset F:Splash\n+/-:Speed Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m Model) positions() []vec.Vec3 {
	return m.sim.Particles().Pos
}
