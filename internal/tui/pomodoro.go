package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/lowkey/internal/focus"
	"github.com/sadopc/lowkey/internal/session"
)

var modeStyles = map[focus.Mode]lipgloss.Style{
	focus.Pomodoro:   accentStyle,
	focus.ShortBreak: successStyle,
	focus.LongBreak:  lipgloss.NewStyle().Foreground(colorSecondary),
}

type pomodoroModel struct {
	coord  *session.Coordinator
	width  int
	height int
}

func newPomodoroModel(c *session.Coordinator) pomodoroModel {
	return pomodoroModel{coord: c}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case key.Matches(msgKey, keys.Start):
		return p, p.start()
	case key.Matches(msgKey, keys.Pause):
		if p.coord.Session().Running {
			p.coord.PauseTimer()
			return p, nil
		}
		return p, p.start()
	case key.Matches(msgKey, keys.Reset):
		p.coord.ResetTimer()
	case key.Matches(msgKey, keys.Mode):
		p.coord.SwitchMode(nextMode(p.coord.Session().Mode))
	}
	return p, nil
}

// start arms a new tick loop unless one is already running.
func (p pomodoroModel) start() tea.Cmd {
	tok, ok := p.coord.StartTimer()
	if !ok {
		return nil
	}
	return tickCmd(tok)
}

func nextMode(m focus.Mode) focus.Mode {
	for i, mode := range focus.Modes {
		if mode == m {
			return focus.Modes[(i+1)%len(focus.Modes)]
		}
	}
	return focus.Pomodoro
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	v := p.coord.View()
	style := modeStyles[v.Mode]

	var tabs []string
	for _, m := range focus.Modes {
		if m == v.Mode {
			tabs = append(tabs, activeTabStyle.Render(m.Label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.Label()))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	clock := timerStyle.Inherit(style).Width(max(w-6, 5)).Render(v.Clock)

	state := mutedStyle.Render("Paused")
	if v.Running {
		state = style.Bold(true).Render(v.Mode.Label())
	}

	message := ""
	if v.Message != "" {
		message = highlightStyle.Render(v.Message)
	}

	nowPlaying := subtitleStyle.Render("♪ " + v.NowPlaying)

	controls := mutedStyle.Render("s: start  space: start/pause  r: reset  m: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			modeTabs,
			"",
			clock,
			state,
			"",
			renderProgress(v.Counter),
			message,
			"",
			nowPlaying,
			"",
			controls,
		),
	)
}

// renderProgress shows how far the counter is into the current long-break
// cycle.
func renderProgress(counter int) string {
	done := counter % focus.LongBreakEvery
	var parts []string
	for i := 0; i < focus.LongBreakEvery; i++ {
		if i < done {
			parts = append(parts, successStyle.Render("●"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	total := mutedStyle.Render(fmt.Sprintf("  %d completed", counter))
	return strings.Join(parts, " ") + total
}
