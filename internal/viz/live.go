package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pworld/internal/scenario"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120
)

// Visible world region.
const (
	viewMinX, viewMaxX = -10.0, 10.0
	viewMinY, viewMaxY = -1.0, 12.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model steps a scenario runner and renders it.
type Model struct {
	runner   *scenario.Runner
	canvas   *Canvas
	interval time.Duration
	running  bool
	last     scenario.Sample
	contacts []float64
	err      error
}

func NewModel(r *scenario.Runner, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		runner:   r,
		canvas:   NewCanvas(width, height),
		interval: time.Second / time.Duration(fps),
		running:  true,
		contacts: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
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
			m.err = m.runner.Reset()
			m.contacts = m.contacts[:0]
			m.last = scenario.Sample{}
		case "n":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances one frame unless the scenario has failed.
func (m *Model) step() {
	if m.err != nil {
		return
	}
	s, err := m.runner.Step()
	m.last = s
	m.err = err

	m.contacts = append(m.contacts, float64(s.Stats.Contacts))
	if len(m.contacts) > historyCapacity {
		m.contacts = m.contacts[1:]
	}
}

func (m *Model) draw() {
	Render(m.canvas, m.runner.World())
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	cfg := m.runner.Config()
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(cfg.Name)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.err != nil {
		status = warnStyle.Render("STOPPED: " + m.err.Error())
	}
	s.WriteString(status + "\n\n")

	if len(m.contacts) > 1 {
		chart := asciigraph.Plot(m.contacts, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Contacts"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	st := m.last.Stats
	row("Time", fmt.Sprintf("%.2fs", m.runner.Time()))
	row("Frame", fmt.Sprintf("%d", m.runner.Frame()))
	row("Particles", fmt.Sprintf("%d", m.last.Particles))
	row("Effects", fmt.Sprintf("%d", st.Effects))
	row("Contacts", fmt.Sprintf("%d / %d", st.Contacts, cfg.MaxContacts))
	row("Iterations", fmt.Sprintf("%d", st.Iterations))
	row("Penetration", fmt.Sprintf("%.4f", st.MaxPenetration))
	row("Kinetic", fmt.Sprintf("%.2f", m.last.KineticEnergy))
	if st.Truncated {
		s.WriteString(warnStyle.Render("contact budget exhausted") + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause N:Step R:Reset Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
