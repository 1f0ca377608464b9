package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/lowkey/internal/session"
	"github.com/sadopc/lowkey/internal/store"
)

type settingsModel struct {
	coord  *session.Coordinator
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	pomodoro     *string
	shortBreak   *string
	longBreak    *string
	soundEnabled *bool
	soundTheme   *store.SoundTheme
}

func newSettingsModel(c *session.Coordinator) settingsModel {
	pw, sb, lb := "", "", ""
	enabled := true
	theme := store.ThemeMinimal
	return settingsModel{
		coord:        c,
		pomodoro:     &pw,
		shortBreak:   &sb,
		longBreak:    &lb,
		soundEnabled: &enabled,
		soundTheme:   &theme,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.coord.Settings()
	*s.pomodoro = strconv.Itoa(cur.PomodoroMinutes)
	*s.shortBreak = strconv.Itoa(cur.ShortBreakMinutes)
	*s.longBreak = strconv.Itoa(cur.LongBreakMinutes)
	*s.soundEnabled = cur.SoundEnabled
	*s.soundTheme = cur.SoundTheme

	themeOptions := make([]huh.Option[store.SoundTheme], len(store.SoundThemes))
	for i, t := range store.SoundThemes {
		themeOptions[i] = huh.NewOption(string(t), t)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pomodoro (min)").Value(s.pomodoro).Validate(positiveMinutes),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreak).Validate(positiveMinutes),
			huh.NewInput().Title("Long break (min)").Value(s.longBreak).Validate(positiveMinutes),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Play sound on completion").Value(s.soundEnabled),
			huh.NewSelect[store.SoundTheme]().Title("Sound theme").
				Options(themeOptions...).Value(s.soundTheme),
		).Title("Sound"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func positiveMinutes(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of minutes")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.coord.SaveSettings(s.formSettings()); err != nil {
			return s, statusCmd(errStatus(err))
		}
		return s, statusCmd(statusMsg{text: "Settings saved"})
	}

	return s, cmd
}

// formSettings converts the form values. Unparseable minutes become zero and
// are rejected by validation.
func (s settingsModel) formSettings() store.Settings {
	atoi := func(v string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return store.Settings{
		PomodoroMinutes:   atoi(*s.pomodoro),
		ShortBreakMinutes: atoi(*s.shortBreak),
		LongBreakMinutes:  atoi(*s.longBreak),
		SoundEnabled:      *s.soundEnabled,
		SoundTheme:        *s.soundTheme,
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cur := s.coord.Settings()
	sound := "off"
	if cur.SoundEnabled {
		sound = "on"
	}
	rows := []string{
		title,
		"",
		settingRow("Pomodoro", fmt.Sprintf("%d min", cur.PomodoroMinutes)),
		settingRow("Short break", fmt.Sprintf("%d min", cur.ShortBreakMinutes)),
		settingRow("Long break", fmt.Sprintf("%d min", cur.LongBreakMinutes)),
		settingRow("Sound", sound),
		settingRow("Sound theme", string(cur.SoundTheme)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(16).Render(label), highlightStyle.Render(value))
}
