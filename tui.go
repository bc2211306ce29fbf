package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hotlyric/hotkey"
	"hotlyric/tray"
)

// TUI message types
type BindingsMsg struct {
	Rows      []bindingRow
	Installed bool
}
type InvokedMsg struct{ Action string }
type LogMsg struct{ Text string }
type tickMsg time.Time

const flashDuration = 600 * time.Millisecond

type tuiModel struct {
	coord     *hotkey.Coordinator
	rows      []bindingRow
	installed bool
	flash     map[string]time.Time
	lastLog   string
	width     int
	height    int
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	actionStyle   = lipgloss.NewStyle().Width(15)
	comboStyle    = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("249"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unavailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	unsetStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	flashStyle    = lipgloss.NewStyle().Reverse(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func newTUIModel(coord *hotkey.Coordinator) tuiModel {
	return tuiModel{
		coord:     coord,
		rows:      snapshotRows(coord),
		installed: coord.Installed(),
		flash:     make(map[string]time.Time),
	}
}

func NewTUIProgram(coord *hotkey.Coordinator) *tea.Program {
	return tea.NewProgram(newTUIModel(coord), tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

// coordCmd runs a coordinator call off the update loop, then reports the
// resulting state.
func (m tuiModel) coordCmd(fn func() error) tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		if err := fn(); err != nil {
			return LogMsg{Text: err.Error()}
		}
		return BindingsMsg{Rows: snapshotRows(coord), Installed: coord.Installed()}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.coordCmd(func() error {
				m.coord.ResetToDefaults()
				return nil
			})
		case "i":
			// Uninstall emits no event, so the tray is told directly.
			if m.installed {
				return m, m.coordCmd(func() error {
					m.coord.Uninstall()
					tray.SetPaused(true)
					return nil
				})
			}
			return m, m.coordCmd(func() error {
				err := m.coord.Install()
				tray.SetPaused(!m.coord.Installed())
				return err
			})
		}

	case tickMsg:
		now := time.Time(msg)
		for a, t := range m.flash {
			if now.Sub(t) > flashDuration {
				delete(m.flash, a)
			}
		}
		return m, tuiTick()

	case BindingsMsg:
		m.rows = msg.Rows
		m.installed = msg.Installed

	case InvokedMsg:
		m.flash[msg.Action] = time.Now()

	case LogMsg:
		m.lastLog = msg.Text
	}
	return m, nil
}

func stateStyle(state string) lipgloss.Style {
	switch state {
	case "active":
		return activeStyle
	case "unavailable":
		return unavailStyle
	default:
		return unsetStyle
	}
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hotlyric global hotkeys"))
	if !m.installed {
		b.WriteString("  " + pausedStyle.Render("[paused]"))
	}
	b.WriteString("\n\n")

	for _, r := range m.rows {
		action := actionStyle.Render(r.Action)
		if _, ok := m.flash[r.Action]; ok {
			action = flashStyle.Render(action)
		}
		line := action + comboStyle.Render(r.Combo) + stateStyle(r.State).Render(r.State)
		if r.Conflict {
			line += " " + conflictStyle.Render("(shared)")
		}
		b.WriteString(line + "\n")
	}

	if m.lastLog != "" {
		b.WriteString("\n" + unavailStyle.Render(m.lastLog) + "\n")
	}

	toggle := "pause"
	if !m.installed {
		toggle = "resume"
	}
	b.WriteString("\n" + helpStyle.Render(fmt.Sprintf("r reset to defaults · i %s · q quit", toggle)))
	return b.String()
}

// tuiSink forwards coordinator events to the running program.
type tuiSink struct {
	coord *hotkey.Coordinator
}

func (s tuiSink) HotkeyInvoked(b *hotkey.Binding) {
	sendToTUI(InvokedMsg{Action: string(b.Name())})
}

func (s tuiSink) BindingChanged(*hotkey.Binding) {
	sendToTUI(BindingsMsg{Rows: snapshotRows(s.coord), Installed: s.coord.Installed()})
}

func sendToTUI(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func logToTUI(format string, args ...interface{}) {
	sendToTUI(LogMsg{Text: fmt.Sprintf(format, args...)})
}
