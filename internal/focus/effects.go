package focus

import "github.com/sadopc/lowkey/internal/store"

// Effect is a side effect requested by a transition. Effects are
// best-effort; failing to perform one never changes engine state.
type Effect interface {
	effect()
}

// PlayCue asks for the audible cue of Theme.
type PlayCue struct {
	Theme store.SoundTheme
}

// Notify asks for a user-facing notification.
type Notify struct {
	Title string
	Body  string
}

// CounterChanged carries the new completed-pomodoro count.
type CounterChanged struct {
	Count int
}

// Completed describes a countdown that reached zero.
type Completed struct {
	Mode    Mode
	Next    Mode
	Seconds int
	Message string
}

func (PlayCue) effect()        {}
func (Notify) effect()         {}
func (CounterChanged) effect() {}
func (Completed) effect()      {}
