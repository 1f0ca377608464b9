// Package focus implements the pomodoro countdown as a pure state machine.
// The engine never touches a clock: callers drive it with Tick and perform
// the returned effects themselves.
package focus

import (
	"fmt"

	"github.com/sadopc/lowkey/internal/store"
)

type Mode int

const (
	Pomodoro Mode = iota
	ShortBreak
	LongBreak
)

var Modes = []Mode{Pomodoro, ShortBreak, LongBreak}

var modeNames = map[Mode]string{
	Pomodoro:   "pomodoro",
	ShortBreak: "shortBreak",
	LongBreak:  "longBreak",
}

var modeLabels = map[Mode]string{
	Pomodoro:   "POMODORO",
	ShortBreak: "SHORT BREAK",
	LongBreak:  "LONG BREAK",
}

func (m Mode) String() string { return modeNames[m] }

// Label is the display form, e.g. "SHORT BREAK".
func (m Mode) Label() string { return modeLabels[m] }

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return Pomodoro, fmt.Errorf("unknown mode %q", s)
}

// LongBreakEvery is the number of completed pomodoros per long break.
const LongBreakEvery = 4

const NotificationTitle = "Lowkey Lofi Timer"

const (
	msgShortBreak = "Pomodoro completed! Take a short break."
	msgLongBreak  = "Great job! Time for a long break."
	msgBreakOver  = "Break is over. Time to focus!"
)

// Session is the in-memory countdown state.
type Session struct {
	Mode      Mode
	Remaining int // whole seconds
	Running   bool
}

// Engine owns a Session. Settings and the completed-pomodoro counter belong
// to the caller and are read through the pointers at call time.
type Engine struct {
	session  Session
	settings *store.Settings
	counter  *int
}

func NewEngine(settings *store.Settings, counter *int) *Engine {
	e := &Engine{settings: settings, counter: counter}
	e.session = Session{Mode: Pomodoro, Remaining: e.Duration(Pomodoro)}
	return e
}

func (e *Engine) Session() Session { return e.session }

// Duration returns the configured length of m in seconds.
func (e *Engine) Duration(m Mode) int {
	switch m {
	case ShortBreak:
		return e.settings.ShortBreakMinutes * 60
	case LongBreak:
		return e.settings.LongBreakMinutes * 60
	default:
		return e.settings.PomodoroMinutes * 60
	}
}

// Start reports whether the engine transitioned to running.
func (e *Engine) Start() bool {
	if e.session.Running {
		return false
	}
	e.session.Running = true
	return true
}

// Pause reports whether the engine was running.
func (e *Engine) Pause() bool {
	if !e.session.Running {
		return false
	}
	e.session.Running = false
	return true
}

func (e *Engine) Reset() {
	e.session.Running = false
	e.session.Remaining = e.Duration(e.session.Mode)
}

// SwitchMode always leaves the engine paused.
func (e *Engine) SwitchMode(m Mode) {
	e.session.Running = false
	e.session.Mode = m
	e.session.Remaining = e.Duration(m)
}

// SettingsChanged re-seeds the countdown unless it is running; a running
// countdown keeps its remaining time until reset or a mode change.
func (e *Engine) SettingsChanged() {
	if e.session.Running {
		return
	}
	e.session.Remaining = e.Duration(e.session.Mode)
}

// Tick advances a running countdown by one second. When it reaches zero the
// engine completes the mode, moves to the next one and stays paused.
func (e *Engine) Tick() []Effect {
	if !e.session.Running {
		return nil
	}
	if e.session.Remaining > 0 {
		e.session.Remaining--
	}
	if e.session.Remaining > 0 {
		return nil
	}
	return e.complete()
}

func (e *Engine) complete() []Effect {
	done := e.session.Mode
	var effects []Effect
	if e.settings.SoundEnabled {
		effects = append(effects, PlayCue{Theme: e.settings.SoundTheme})
	}

	var next Mode
	var msg string
	if done == Pomodoro {
		*e.counter++
		effects = append(effects, CounterChanged{Count: *e.counter})
		if *e.counter%LongBreakEvery == 0 {
			next, msg = LongBreak, msgLongBreak
		} else {
			next, msg = ShortBreak, msgShortBreak
		}
	} else {
		next, msg = Pomodoro, msgBreakOver
	}

	effects = append(effects,
		Notify{Title: NotificationTitle, Body: msg},
		Completed{Mode: done, Next: next, Seconds: e.Duration(done), Message: msg},
	)
	e.SwitchMode(next)
	return effects
}

// FormatClock renders whole seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
