package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/lowkey/internal/session"
)

type channelsModel struct {
	coord  *session.Coordinator
	width  int
	height int
	cursor int
}

func newChannelsModel(c *session.Coordinator) channelsModel {
	m := channelsModel{coord: c}
	current := c.View().Channel
	for i, ch := range c.Catalog().All() {
		if ch.ID == current {
			m.cursor = i
		}
	}
	return m
}

func (m *channelsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m channelsModel) update(msg tea.Msg) (channelsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	all := m.coord.Catalog().All()

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(all)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Enter):
		if m.cursor < len(all) {
			ch := all[m.cursor]
			m.coord.ChangeChannel(ch.ID)
			return m, statusCmd(statusMsg{text: "Now playing: " + ch.Title})
		}
	case key.Matches(keyMsg, keys.Play):
		m.coord.SetPlaying(!m.coord.View().Playing)
	}
	return m, nil
}

// visibleRange keeps the cursor on screen for long catalogs.
func (m channelsModel) visibleRange(n int) (int, int) {
	rows := max(m.height-10, 5)
	if n <= rows {
		return 0, n
	}
	start := min(max(m.cursor-rows/2, 0), n-rows)
	return start, start + rows
}

func (m channelsModel) view() string {
	w := m.width - 4
	v := m.coord.View()
	all := m.coord.Catalog().All()

	state := mutedStyle.Render("paused")
	if v.Playing {
		state = successStyle.Render("playing")
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Channels"))
	rows = append(rows, fmt.Sprintf("  ♪ %s  %s", highlightStyle.Render(v.NowPlaying), state))
	rows = append(rows, "")

	start, end := m.visibleRange(len(all))
	for i := start; i < end; i++ {
		ch := all[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := "  "
		if ch.ID == v.Channel {
			marker = accentStyle.Render("♪ ")
		}
		rows = append(rows, style.Render(cursor)+marker+style.Render(ch.Title))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: load channel  p: play/pause"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
