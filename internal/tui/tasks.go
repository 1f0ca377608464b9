package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/lowkey/internal/session"
	"github.com/sadopc/lowkey/internal/store"
	"github.com/sadopc/lowkey/internal/tasks"
)

var priorityStyles = map[store.Priority]lipgloss.Style{
	store.PriorityLow:    mutedStyle,
	store.PriorityMedium: warningStyle,
	store.PriorityHigh:   errorStyle,
}

type tasksModel struct {
	coord  *session.Coordinator
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "task", "edit_task", "list"

	// Form field pointers (survive value copies)
	formTitle    *string
	formDesc     *string
	formDueDate  *string
	formDueTime  *string
	formPriority *store.Priority
	formColor    *string

	editingID int64
}

func newTasksModel(c *session.Coordinator) tasksModel {
	title, desc, date, tm, color := "", "", "", "", ""
	prio := store.PriorityMedium
	return tasksModel{
		coord:        c,
		formTitle:    &title,
		formDesc:     &desc,
		formDueDate:  &date,
		formDueTime:  &tm,
		formPriority: &prio,
		formColor:    &color,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	v := m.coord.View()
	m.cursor = clampCursor(m.cursor, len(v.Tasks))

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(v.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Left):
		m.coord.SetActiveList(adjacentList(v.Lists, v.ActiveList.ID, -1))
		m.cursor = 0
	case key.Matches(keyMsg, keys.Right):
		m.coord.SetActiveList(adjacentList(v.Lists, v.ActiveList.ID, 1))
		m.cursor = 0
	case key.Matches(keyMsg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(keyMsg, keys.Edit):
		if len(v.Tasks) > 0 {
			return m.showEditTaskForm(v.Tasks[m.cursor])
		}
	case key.Matches(keyMsg, keys.Toggle):
		if len(v.Tasks) > 0 {
			m.coord.ToggleTask(v.Tasks[m.cursor].ID)
		}
	case key.Matches(keyMsg, keys.Delete):
		if len(v.Tasks) > 0 {
			m.coord.DeleteTask(v.Tasks[m.cursor].ID)
		}
	case key.Matches(keyMsg, keys.Filter):
		if err := m.coord.SetFilter(nextFilter(v.Filter)); err != nil {
			return m, statusCmd(errStatus(err))
		}
		m.cursor = 0
	case key.Matches(keyMsg, keys.Clear):
		n := m.coord.ClearCompleted()
		return m, statusCmd(statusMsg{text: fmt.Sprintf("Cleared %d completed", n)})
	case key.Matches(keyMsg, keys.NewList):
		return m.showNewListForm()
	case key.Matches(keyMsg, keys.DeleteList):
		m.coord.DeleteList(v.ActiveList.ID)
		m.cursor = 0
		return m, statusCmd(statusMsg{text: "Deleted list " + v.ActiveList.Name})
	}
	return m, nil
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(cursor, 0)
}

func adjacentList(lists []store.List, id string, step int) string {
	for i, l := range lists {
		if l.ID == id {
			return lists[(i+step+len(lists))%len(lists)].ID
		}
	}
	return store.DefaultListID
}

func nextFilter(f store.Filter) store.Filter {
	for i, x := range store.Filters {
		if x == f {
			return store.Filters[(i+1)%len(store.Filters)]
		}
	}
	return store.FilterAll
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	m.formType = "task"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(m.formTitle).Validate(notBlank("title")),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showEditTaskForm(t store.Task) (tasksModel, tea.Cmd) {
	*m.formTitle = t.Title
	*m.formDesc = t.Description
	*m.formDueDate = t.DueDate
	*m.formDueTime = t.DueTime
	*m.formPriority = t.Priority
	m.formType = "edit_task"
	m.editingID = t.ID

	prioOptions := make([]huh.Option[store.Priority], len(store.Priorities))
	for i, p := range store.Priorities {
		prioOptions[i] = huh.NewOption(string(p), p)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(notBlank("title")),
			huh.NewText().Title("Description").Value(m.formDesc),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(m.formDueDate),
			huh.NewInput().Title("Due time (HH:MM)").Value(m.formDueTime),
			huh.NewSelect[store.Priority]().Title("Priority").Options(prioOptions...).Value(m.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showNewListForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formColor = tasks.ListColors[0]
	m.formType = "list"

	colorOptions := make([]huh.Option[string], len(tasks.ListColors))
	for i, c := range tasks.ListColors {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, c), c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("List Name").Value(m.formTitle).Validate(notBlank("name")),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.formActive = false
	m.form = nil
	var err error
	switch m.formType {
	case "task":
		_, err = m.coord.AddTask(*m.formTitle)
	case "edit_task":
		err = m.coord.EditTask(m.editingID, tasks.Edit{
			Title:       *m.formTitle,
			Description: *m.formDesc,
			DueDate:     strings.TrimSpace(*m.formDueDate),
			DueTime:     strings.TrimSpace(*m.formDueTime),
			Priority:    *m.formPriority,
		})
	case "list":
		var l store.List
		l, err = m.coord.AddList(*m.formTitle, *m.formColor)
		if err == nil {
			m.coord.SetActiveList(l.ID)
			m.cursor = 0
		}
	}
	if err != nil {
		return m, statusCmd(errStatus(err))
	}
	return m, nil
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		switch m.formType {
		case "edit_task":
			title = titleStyle.Render("Edit Task")
		case "list":
			title = titleStyle.Render("New List")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	v := m.coord.View()
	cursor := clampCursor(m.cursor, len(v.Tasks))

	var rows []string
	rows = append(rows, renderListTabs(v.Lists, v.ActiveList.ID))
	rows = append(rows, renderFilterTabs(v.Filter))
	rows = append(rows, "")

	if len(v.Tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks here. Press n to add one."))
	}
	for i, t := range v.Tasks {
		rows = append(rows, renderTaskRow(t, i == cursor))
	}

	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render("  "+v.ItemsLeftLabel))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  x: done  d: delete  f: filter  c: clear done"))
	rows = append(rows, mutedStyle.Render("  ←/→: switch list  L: new list  D: delete list"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderListTabs(lists []store.List, activeID string) string {
	var tabs []string
	for _, l := range lists {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("●")
		name := inactiveTabStyle.Render(l.Name)
		if l.ID == activeID {
			name = activeTabStyle.Render(l.Name)
		}
		tabs = append(tabs, dot+name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func renderFilterTabs(active store.Filter) string {
	var parts []string
	for _, f := range store.Filters {
		if f == active {
			parts = append(parts, selectedItemStyle.Render(string(f)))
		} else {
			parts = append(parts, mutedStyle.Render(string(f)))
		}
	}
	return "  " + strings.Join(parts, mutedStyle.Render(" · "))
}

func renderTaskRow(t store.Task, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}
	check := "[ ]"
	title := style.Render(t.Title)
	if t.Completed {
		check = "[x]"
		title = doneTaskStyle.Render(t.Title)
	}

	prio := priorityStyles[t.Priority].Render("!")
	due := ""
	if t.DueDate != "" {
		due = mutedStyle.Render(strings.TrimSpace(" " + t.DueDate + " " + t.DueTime))
		due = " " + due
	}
	return fmt.Sprintf("%s%s %s %s%s", style.Render(cursor), style.Render(check), prio, title, due)
}
