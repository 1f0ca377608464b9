package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/lowkey/internal/focus"
	"github.com/sadopc/lowkey/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	stats  []store.DailyFocus
	offset int // 7-day blocks back from today (0 = current)
	now    func() time.Time

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		now:   time.Now,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type statsDataMsg struct {
	stats []store.DailyFocus
	err   error
}

func (r statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		stats, err := r.store.FocusStats(from, to)
		return statsDataMsg{stats: stats, err: err}
	}
}

// dateRange is the 7 UTC days ending today, shifted back by offset weeks.
func (r statsModel) dateRange() (time.Time, time.Time) {
	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*r.offset)
	return end.AddDate(0, 0, -7), end
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		if msg.err != nil {
			return r, statusCmd(errStatus(msg.err))
		}
		r.stats = msg.stats
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *statsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: r.dayValues(d.Format(time.DateOnly)),
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

// dayValues stacks the minutes spent per mode on one day.
func (r statsModel) dayValues(date string) []barchart.BarValue {
	var values []barchart.BarValue
	for _, m := range focus.Modes {
		for _, s := range r.stats {
			if s.Date != date || s.Mode != m.String() {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  m.Label(),
				Value: float64(s.TotalSeconds) / 60,
				Style: modeStyles[m],
			})
		}
	}
	if len(values) == 0 {
		values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
	}
	return values
}

// totals sums count and seconds for mode across the loaded range.
func (r statsModel) totals(mode focus.Mode) (count, seconds int) {
	for _, s := range r.stats {
		if s.Mode == mode.String() {
			count += s.Count
			seconds += int(s.TotalSeconds)
		}
	}
	return count, seconds
}

func (r statsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Stats"), "  ", dateLabel)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderLegend(), "", r.renderSummary(w), "",
			mutedStyle.Render("  ←/→: navigate weeks"),
		),
	)
}

func (r statsModel) renderLegend() string {
	var items []string
	for _, m := range focus.Modes {
		items = append(items, modeStyles[m].Render("●")+" "+m.Label())
	}
	return "  " + strings.Join(items, "  ")
}

func (r statsModel) renderSummary(w int) string {
	if len(r.stats) == 0 {
		return mutedStyle.Render("  No focus sessions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %8s %10s", "Mode", "Sessions", "Time")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 34))))
	for _, m := range focus.Modes {
		count, secs := r.totals(m)
		rows = append(rows, fmt.Sprintf("  %s %-12s %8d %10s",
			modeStyles[m].Render("●"), m.Label(), count, formatMinutes(secs)))
	}
	return strings.Join(rows, "\n")
}
