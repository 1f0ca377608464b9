// Package tasks manages tasks scoped to lists.
package tasks

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/lowkey/internal/store"
)

var ListColors = []string{"#9764c7", "#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#3498DB"}

// Manager holds the task and list collections. Unknown ids are silent no-ops.
type Manager struct {
	tasks  []store.Task
	lists  []store.List
	now    func() time.Time
	lastID int64
}

type Option func(*Manager)

// WithClock sets the time source used for task ids.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager takes ownership of copies of tasks and lists. A missing default
// list is recreated.
func NewManager(tasks []store.Task, lists []store.List, opts ...Option) *Manager {
	m := &Manager{
		tasks: slices.Clone(tasks),
		lists: slices.Clone(lists),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, t := range m.tasks {
		m.lastID = max(m.lastID, t.ID)
	}
	m.ensureDefault()
	return m
}

func (m *Manager) Tasks() []store.Task { return slices.Clone(m.tasks) }
func (m *Manager) Lists() []store.List { return slices.Clone(m.lists) }

func (m *Manager) List(id string) (store.List, bool) {
	i := m.listIndex(id)
	if i < 0 {
		return store.List{}, false
	}
	return m.lists[i], true
}

func (m *Manager) Task(id int64) (store.Task, bool) {
	i := m.taskIndex(id)
	if i < 0 {
		return store.Task{}, false
	}
	return m.tasks[i], true
}

// nextID is time based and strictly increasing even within one millisecond.
func (m *Manager) nextID() int64 {
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

// AddTask appends a task to listID. The list is not looked up, but it must
// be named.
func (m *Manager) AddTask(title, listID string) (store.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return store.Task{}, &store.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(listID) == "" {
		return store.Task{}, &store.ValidationError{Field: "listId", Reason: "must not be empty"}
	}
	t := store.Task{
		ID:       m.nextID(),
		Title:    title,
		Priority: store.PriorityMedium,
		ListID:   listID,
	}
	m.tasks = append(m.tasks, t)
	return t, nil
}

// Edit replaces the editable fields of a task.
type Edit struct {
	Title       string
	Description string
	DueDate     string
	DueTime     string
	Priority    store.Priority
}

func (e Edit) validate() (Edit, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return e, &store.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if e.DueDate != "" {
		if _, err := time.Parse(time.DateOnly, e.DueDate); err != nil {
			return e, &store.ValidationError{Field: "dueDate", Reason: "expected YYYY-MM-DD"}
		}
	}
	if e.DueTime != "" {
		if _, err := time.Parse("15:04", e.DueTime); err != nil {
			return e, &store.ValidationError{Field: "dueTime", Reason: "expected HH:MM"}
		}
	}
	if e.Priority == "" {
		e.Priority = store.PriorityMedium
	}
	if !e.Priority.Valid() {
		return e, &store.ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	return e, nil
}

// EditTask reports whether a task was changed.
func (m *Manager) EditTask(id int64, e Edit) (bool, error) {
	e, err := e.validate()
	if err != nil {
		return false, err
	}
	i := m.taskIndex(id)
	if i < 0 {
		return false, nil
	}
	t := &m.tasks[i]
	t.Title = e.Title
	t.Description = e.Description
	t.DueDate = e.DueDate
	t.DueTime = e.DueTime
	t.Priority = e.Priority
	return true, nil
}

func (m *Manager) ToggleCompletion(id int64) bool {
	i := m.taskIndex(id)
	if i < 0 {
		return false
	}
	m.tasks[i].Completed = !m.tasks[i].Completed
	return true
}

func (m *Manager) DeleteTask(id int64) bool {
	i := m.taskIndex(id)
	if i < 0 {
		return false
	}
	m.tasks = slices.Delete(m.tasks, i, i+1)
	return true
}

// ClearCompleted removes completed tasks from every list.
func (m *Manager) ClearCompleted() int {
	before := len(m.tasks)
	m.tasks = slices.DeleteFunc(m.tasks, func(t store.Task) bool { return t.Completed })
	return before - len(m.tasks)
}

func (m *Manager) AddList(name, color string) (store.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.List{}, &store.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if color == "" {
		color = ListColors[len(m.lists)%len(ListColors)]
	}
	l := store.List{ID: uuid.NewString(), Name: name, Color: color}
	m.lists = append(m.lists, l)
	return l, nil
}

// DeleteList removes a list and every task it owns. When the list was
// active, sel falls back to the default list. Deleting the default list
// clears it and leaves an empty default in place.
func (m *Manager) DeleteList(id string, sel *store.Selection) bool {
	i := m.listIndex(id)
	if i < 0 {
		return false
	}
	m.lists = slices.Delete(m.lists, i, i+1)
	m.tasks = slices.DeleteFunc(m.tasks, func(t store.Task) bool { return t.ListID == id })
	m.ensureDefault()
	if sel != nil && sel.ActiveListID == id {
		sel.ActiveListID = store.DefaultListID
	}
	return true
}

// FilteredTasks yields the tasks of listID that pass f, in insertion order.
func (m *Manager) FilteredTasks(listID string, f store.Filter) iter.Seq[store.Task] {
	return func(yield func(store.Task) bool) {
		for _, t := range m.tasks {
			if t.ListID != listID {
				continue
			}
			switch f {
			case store.FilterActive:
				if t.Completed {
					continue
				}
			case store.FilterCompleted:
				if !t.Completed {
					continue
				}
			}
			if !yield(t) {
				return
			}
		}
	}
}

// ActiveTaskCount counts the incomplete tasks of listID.
func (m *Manager) ActiveTaskCount(listID string) int {
	n := 0
	for range m.FilteredTasks(listID, store.FilterActive) {
		n++
	}
	return n
}

func (m *Manager) ensureDefault() {
	if m.listIndex(store.DefaultListID) < 0 {
		m.lists = append([]store.List{store.DefaultList()}, m.lists...)
	}
}

func (m *Manager) taskIndex(id int64) int {
	return slices.IndexFunc(m.tasks, func(t store.Task) bool { return t.ID == id })
}

func (m *Manager) listIndex(id string) int {
	return slices.IndexFunc(m.lists, func(l store.List) bool { return l.ID == id })
}
