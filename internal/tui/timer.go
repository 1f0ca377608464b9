package tui

import (
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/lowkey/internal/focus"
)

// tickInterval is one countdown second.
var tickInterval = time.Second

// tickCmd schedules the next tick for the loop identified by tok. The
// coordinator drops it if the loop was cancelled in the meantime.
func tickCmd(tok focus.Token) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{token: tok}
	})
}

// Notifier delivers completion notifications into a running program as
// status messages. It is safe to call from any goroutine.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewNotifier() *Notifier { return &Notifier{} }

// Attach sets the program notifications are sent to.
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	n.program = p
	n.mu.Unlock()
}

func (n *Notifier) Notify(title, body string) error {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p == nil {
		return errors.New("no program attached")
	}
	p.Send(statusMsg{text: title + ": " + body})
	return nil
}
