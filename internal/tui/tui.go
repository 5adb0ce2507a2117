// Package tui implements the terminal version of the posture dashboard
// using BubbleTea.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/posture/internal/chart"
	"github.com/luki/posture/internal/monitor"
)

const tickInterval = 1 * time.Second

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg monitor.Snapshot

// ErrMsg reports a fatal monitor error to the dashboard.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the terminal dashboard.
type Model struct {
	snap    monitor.Snapshot
	hasSnap bool
	err     error
	width   int
	height  int
	now     time.Time
}

func New() Model {
	return Model{now: time.Now()}
}

// ── Program ──────────────────────────────────────────────────────────

// Program runs the dashboard and implements monitor.Renderer.
type Program struct {
	p *tea.Program
}

func NewProgram(opts ...tea.ProgramOption) *Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Program{p: tea.NewProgram(New(), opts...)}
}

// Render forwards a snapshot to the running program.
func (p *Program) Render(s monitor.Snapshot) {
	p.p.Send(snapshotMsg(s))
}

// Fail shows a fatal error until the user quits.
func (p *Program) Fail(err error) {
	p.p.Send(ErrMsg{Err: err})
}

// Run blocks until the user quits or Quit is called.
func (p *Program) Run() error {
	_, err := p.p.Run()
	return err
}

// Quit stops the program.
func (p *Program) Quit() {
	p.p.Quit()
}

// ── Init / Update ────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case snapshotMsg:
		m.snap = monitor.Snapshot(msg)
		m.hasSnap = true

	case ErrMsg:
		m.err = msg.Err
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorHeading  = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err)))
	}

	if !m.hasSnap {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for the sensor..."))
	} else {
		sections = append(sections,
			m.panel("Serial Receive", chart.RenderReadings(readingMap(m.snap)), contentWidth),
			m.panel("Statistics", chart.RenderBars(m.snap.Bars, contentWidth-6), contentWidth),
		)
	}

	sections = append(sections, m.renderFooter(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("🧘 CorrectMyPosture")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	var statusParts []string
	if m.hasSnap {
		statusParts = append(statusParts, dimS.Render(m.snap.Port))
		if !m.snap.StartedAt.IsZero() {
			statusParts = append(statusParts, dimS.Render("up "+fmtDuration(m.now.Sub(m.snap.StartedAt))))
		}
		if !m.snap.UpdatedAt.IsZero() {
			statusParts = append(statusParts, dimS.Render(m.snap.UpdatedAt.Format("15:04:05")))
		}
	}

	sep := dimS.Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) panel(title, body string, width int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(colorHeading).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, heading, body))
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	labelS := lipgloss.NewStyle().Foreground(colorLabel)

	var stats string
	if m.hasSnap {
		stats = dimS.Render("lines ") + labelS.Render(fmt.Sprint(m.snap.Lines)) +
			dimS.Render("  windows ") + labelS.Render(fmt.Sprint(m.snap.Windows))
		if m.snap.Dominant != "" {
			stats += dimS.Render("  last ") + labelS.Render(string(m.snap.Dominant))
		}
	}
	keys := dimS.Render("q") + labelS.Render(":quit")

	gap := width - lipgloss.Width(stats) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(stats + strings.Repeat(" ", gap) + keys)
}

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
