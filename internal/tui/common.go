package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/lowkey/internal/focus"
)

// viewState represents the currently active view.
type viewState int

const (
	viewFocus viewState = iota
	viewTasks
	viewChannels
	viewStats
	viewSettings
)

var viewNames = []string{"Focus", "Tasks", "Channels", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg is one elapsed second for the loop armed with token.
type tickMsg struct {
	token focus.Token
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(secs int) string {
	d := time.Duration(secs) * time.Second
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func errStatus(err error) statusMsg {
	return statusMsg{text: err.Error(), isError: true}
}

func statusCmd(msg statusMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
