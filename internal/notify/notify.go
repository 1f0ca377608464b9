// Package notify provides the best-effort collaborators that announce a
// finished countdown.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sadopc/lowkey/internal/log"
	"github.com/sadopc/lowkey/internal/store"
)

// CuePlayer plays the audible cue for a sound theme.
type CuePlayer interface {
	Play(theme store.SoundTheme) error
}

// Notifier shows a user-facing notification.
type Notifier interface {
	Notify(title, body string) error
}

// bell patterns per theme; each rune is written as one terminal bell.
var bellPatterns = map[store.SoundTheme]string{
	store.ThemeDigital: "\a\a\a",
	store.ThemeNature:  "\a\a",
	store.ThemeMinimal: "\a",
}

// Bell plays cues as terminal bells on W.
type Bell struct {
	mu sync.Mutex
	W  io.Writer
}

func NewBell(w io.Writer) *Bell { return &Bell{W: w} }

func (b *Bell) Play(theme store.SoundTheme) error {
	pattern, ok := bellPatterns[theme]
	if !ok {
		pattern = bellPatterns[store.ThemeMinimal]
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.W, pattern); err != nil {
		return fmt.Errorf("play %s cue: %w", theme, err)
	}
	return nil
}

// Writer prints notifications as single lines on W.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{W: w} }

func (n *Writer) Notify(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.W, "%s: %s\n", title, strings.TrimSpace(body))
	return err
}

// LogNotifier sends notifications to the log only.
type LogNotifier struct{}

func (LogNotifier) Notify(title, body string) error {
	log.Info().Str("title", title).Str("body", body).Msg("notification")
	return nil
}

// Nop discards cues and notifications.
type Nop struct{}

func (Nop) Play(store.SoundTheme) error { return nil }
func (Nop) Notify(string, string) error { return nil }
