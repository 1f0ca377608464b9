package store

import "fmt"

// SoundTheme selects the audible cue played when a countdown completes.
type SoundTheme string

const (
	ThemeDigital SoundTheme = "digital"
	ThemeNature  SoundTheme = "nature"
	ThemeMinimal SoundTheme = "minimal"
)

var SoundThemes = []SoundTheme{ThemeDigital, ThemeNature, ThemeMinimal}

func (t SoundTheme) Valid() bool {
	switch t {
	case ThemeDigital, ThemeNature, ThemeMinimal:
		return true
	}
	return false
}

// Settings is replaced wholesale on save, never patched.
type Settings struct {
	PomodoroMinutes   int        `json:"pomodoro"`
	ShortBreakMinutes int        `json:"shortBreak"`
	LongBreakMinutes  int        `json:"longBreak"`
	SoundEnabled      bool       `json:"soundEnabled"`
	SoundTheme        SoundTheme `json:"soundTheme"`
}

func DefaultSettings() Settings {
	return Settings{
		PomodoroMinutes:   25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		SoundEnabled:      true,
		SoundTheme:        ThemeMinimal,
	}
}

func (s Settings) Validate() error {
	durations := []struct {
		field string
		value int
	}{
		{"pomodoro", s.PomodoroMinutes},
		{"shortBreak", s.ShortBreakMinutes},
		{"longBreak", s.LongBreakMinutes},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return &ValidationError{Field: d.field, Reason: fmt.Sprintf("must be a positive number of minutes, got %d", d.value)}
		}
	}
	if !s.SoundTheme.Valid() {
		return &ValidationError{Field: "soundTheme", Reason: fmt.Sprintf("unknown theme %q", s.SoundTheme)}
	}
	return nil
}

// Priority levels for a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to exactly one List through ListID.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	DueDate     string   `json:"dueDate"` // YYYY-MM-DD or empty
	DueTime     string   `json:"dueTime"` // HH:MM or empty
	Priority    Priority `json:"priority"`
	ListID      string   `json:"listId"`
}

const DefaultListID = "default"

type List struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func DefaultList() List {
	return List{ID: DefaultListID, Name: "Main List", Color: "#9764c7"}
}

// Filter restricts the visible tasks of the active list.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Selection is the view the UI resumes on.
type Selection struct {
	ActiveListID string
	Filter       Filter
}

func DefaultSelection() Selection {
	return Selection{ActiveListID: DefaultListID, Filter: FilterAll}
}

// DailyFocus aggregates completed focus periods per day and mode.
type DailyFocus struct {
	Date         string
	Mode         string
	Count        int
	TotalSeconds int64
}
