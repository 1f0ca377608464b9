// Package session wires the focus engine and the task manager to the
// durable store. Every mutating intent persists the slices it touched
// before returning, and the coordinator is the only caller of Save.
package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/sadopc/lowkey/internal/channels"
	"github.com/sadopc/lowkey/internal/focus"
	"github.com/sadopc/lowkey/internal/log"
	"github.com/sadopc/lowkey/internal/notify"
	"github.com/sadopc/lowkey/internal/store"
	"github.com/sadopc/lowkey/internal/tasks"
)

// Deps are the collaborators of a Coordinator. Only Store is required.
type Deps struct {
	Store    *store.Store
	Catalog  *channels.Catalog
	Surface  channels.Surface
	Notifier notify.Notifier
	Cues     notify.CuePlayer
	Channel  string // initial channel, defaults to the catalog default
	Now      func() time.Time
}

type Coordinator struct {
	store    *store.Store
	catalog  *channels.Catalog
	surface  channels.Surface
	notifier notify.Notifier
	cues     notify.CuePlayer
	now      func() time.Time

	settings store.Settings
	counter  int
	sel      store.Selection

	engine   *focus.Engine
	tasks    *tasks.Manager
	schedule focus.Schedule

	channel string
	playing bool
	message string
}

// Open hydrates every slice from the store, substituting defaults for
// anything absent or malformed.
func Open(d Deps) *Coordinator {
	c := &Coordinator{
		store:    d.Store,
		catalog:  d.Catalog,
		surface:  d.Surface,
		notifier: d.Notifier,
		cues:     d.Cues,
		now:      d.Now,
		channel:  d.Channel,
	}
	if c.catalog == nil {
		c.catalog = channels.Builtin()
	}
	if c.surface == nil {
		c.surface = channels.LogSurface{}
	}
	if c.notifier == nil {
		c.notifier = notify.Nop{}
	}
	if c.cues == nil {
		c.cues = notify.Nop{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.channel == "" {
		c.channel = c.catalog.Default()
	}

	c.hydrate()
	return c
}

func (c *Coordinator) hydrate() {
	var absent []string
	load := func(key store.Key, ok bool) {
		if !ok {
			absent = append(absent, string(key))
		}
	}

	settings, ok := c.store.Settings().Load()
	load(store.KeySettings, ok)
	if !ok {
		settings = store.DefaultSettings()
	}
	c.settings = settings

	ts, ok := c.store.Tasks().Load()
	load(store.KeyTasks, ok)

	ls, ok := c.store.Lists().Load()
	load(store.KeyLists, ok)
	if !ok {
		ls = []store.List{store.DefaultList()}
	}

	c.sel = store.DefaultSelection()
	if id, ok := c.store.ActiveList().Load(); ok {
		c.sel.ActiveListID = id
	} else {
		load(store.KeyActiveList, false)
	}
	if f, ok := c.store.Filter().Load(); ok {
		c.sel.Filter = f
	} else {
		load(store.KeyFilter, false)
	}

	counter, ok := c.store.SessionCounter().Load()
	load(store.KeySessionCounter, ok)
	c.counter = counter

	c.tasks = tasks.NewManager(ts, ls, tasks.WithClock(c.now))
	if _, ok := c.tasks.List(c.sel.ActiveListID); !ok {
		c.sel.ActiveListID = store.DefaultListID
	}
	c.engine = focus.NewEngine(&c.settings, &c.counter)

	log.Info().
		Int("tasks", len(ts)).
		Int("lists", len(c.tasks.Lists())).
		Int("counter", c.counter).
		Strs("defaulted", absent).
		Msg("session hydrated")
}

// persist writes each named slice in full. A failed write is logged and the
// in-memory state is kept.
func (c *Coordinator) persist(keys ...store.Key) {
	for _, key := range keys {
		var err error
		switch key {
		case store.KeySettings:
			err = c.store.Settings().Save(c.settings)
		case store.KeyTasks:
			err = c.store.Tasks().Save(c.tasks.Tasks())
		case store.KeyLists:
			err = c.store.Lists().Save(c.tasks.Lists())
		case store.KeyActiveList:
			err = c.store.ActiveList().Save(c.sel.ActiveListID)
		case store.KeyFilter:
			err = c.store.Filter().Save(c.sel.Filter)
		case store.KeySessionCounter:
			err = c.store.SessionCounter().Save(c.counter)
		}
		if err != nil {
			log.Warn().Err(err).Str("slice", string(key)).Msg("persist failed")
		}
	}
}

// StartTimer starts the countdown. The returned token is valid for ticking
// only when started is true.
func (c *Coordinator) StartTimer() (tok focus.Token, started bool) {
	if !c.engine.Start() {
		return 0, false
	}
	c.message = ""
	return c.schedule.Arm(), true
}

func (c *Coordinator) PauseTimer() {
	c.engine.Pause()
	c.schedule.Cancel()
}

func (c *Coordinator) ResetTimer() {
	c.engine.Reset()
	c.schedule.Cancel()
}

func (c *Coordinator) SwitchMode(m focus.Mode) {
	c.engine.SwitchMode(m)
	c.schedule.Cancel()
}

// Tick applies one elapsed second for tok. It reports whether tok is still
// live, i.e. whether the caller should schedule the next tick.
func (c *Coordinator) Tick(tok focus.Token) bool {
	if !c.schedule.Valid(tok) {
		return false
	}
	effects := c.engine.Tick()
	if !c.engine.Session().Running {
		c.schedule.Cancel()
	}
	c.dispatch(effects)
	return c.schedule.Valid(tok)
}

func (c *Coordinator) dispatch(effects []focus.Effect) {
	for _, ef := range effects {
		switch ef := ef.(type) {
		case focus.PlayCue:
			bestEffort("cue", func() error { return c.cues.Play(ef.Theme) })
		case focus.Notify:
			bestEffort("notify", func() error { return c.notifier.Notify(ef.Title, ef.Body) })
		case focus.CounterChanged:
			c.persist(store.KeySessionCounter)
		case focus.Completed:
			c.message = ef.Message
			if err := c.store.RecordFocus(ef.Mode.String(), ef.Seconds, c.now()); err != nil {
				log.Warn().Err(err).Msg("record focus history")
			}
			log.Info().
				Str("mode", ef.Mode.String()).
				Str("next", ef.Next.String()).
				Int("counter", c.counter).
				Msg("countdown completed")
		}
	}
}

// bestEffort runs fn without waiting for it. Errors and panics are logged
// and otherwise ignored.
func bestEffort(name string, fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Debug().Str("effect", name).Interface("panic", r).Msg("effect panicked")
			}
		}()
		if err := fn(); err != nil {
			log.Debug().Err(err).Str("effect", name).Msg("effect failed")
		}
	}()
}

// SaveSettings replaces the settings snapshot.
func (c *Coordinator) SaveSettings(s store.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	c.engine.SettingsChanged()
	c.persist(store.KeySettings)
	return nil
}

func (c *Coordinator) Settings() store.Settings { return c.settings }

// AddTask adds a task to the active list.
func (c *Coordinator) AddTask(title string) (store.Task, error) {
	return c.AddTaskTo(title, c.sel.ActiveListID)
}

func (c *Coordinator) AddTaskTo(title, listID string) (store.Task, error) {
	t, err := c.tasks.AddTask(title, listID)
	if err != nil {
		return store.Task{}, err
	}
	c.persist(store.KeyTasks)
	return t, nil
}

func (c *Coordinator) EditTask(id int64, e tasks.Edit) error {
	changed, err := c.tasks.EditTask(id, e)
	if err != nil {
		return err
	}
	if changed {
		c.persist(store.KeyTasks)
	}
	return nil
}

func (c *Coordinator) ToggleTask(id int64) {
	if c.tasks.ToggleCompletion(id) {
		c.persist(store.KeyTasks)
	}
}

func (c *Coordinator) DeleteTask(id int64) {
	if c.tasks.DeleteTask(id) {
		c.persist(store.KeyTasks)
	}
}

// ClearCompleted removes completed tasks from every list.
func (c *Coordinator) ClearCompleted() int {
	n := c.tasks.ClearCompleted()
	if n > 0 {
		c.persist(store.KeyTasks)
	}
	return n
}

func (c *Coordinator) SetFilter(f store.Filter) error {
	if !f.Valid() {
		return &store.ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown filter %q", f)}
	}
	c.sel.Filter = f
	c.persist(store.KeyFilter)
	return nil
}

// SetActiveList ignores unknown ids.
func (c *Coordinator) SetActiveList(id string) {
	if _, ok := c.tasks.List(id); !ok {
		return
	}
	c.sel.ActiveListID = id
	c.persist(store.KeyActiveList)
}

func (c *Coordinator) AddList(name, color string) (store.List, error) {
	l, err := c.tasks.AddList(name, color)
	if err != nil {
		return store.List{}, err
	}
	c.persist(store.KeyLists)
	return l, nil
}

func (c *Coordinator) DeleteList(id string) {
	if c.tasks.DeleteList(id, &c.sel) {
		c.persist(store.KeyLists, store.KeyTasks, store.KeyActiveList)
	}
}

// ChangeChannel relays a channel switch to the playback surface.
func (c *Coordinator) ChangeChannel(id string) {
	c.channel = id
	c.surface.Load(id)
}

func (c *Coordinator) SetPlaying(playing bool) {
	c.playing = playing
	if playing {
		c.surface.Play()
	} else {
		c.surface.Pause()
	}
}

func (c *Coordinator) Catalog() *channels.Catalog { return c.catalog }

func (c *Coordinator) Store() *store.Store { return c.store }

// Close cancels the tick loop. Ticks delivered afterwards are dropped.
func (c *Coordinator) Close() {
	c.engine.Pause()
	c.schedule.Cancel()
}

// View is the render-ready state handed to the presentation layer.
type View struct {
	Clock          string
	Mode           focus.Mode
	Running        bool
	Counter        int
	Message        string
	Settings       store.Settings
	ActiveList     store.List
	Lists          []store.List
	Filter         store.Filter
	Tasks          []store.Task
	ItemsLeft      int
	ItemsLeftLabel string
	Channel        string
	NowPlaying     string
	Playing        bool
}

func (c *Coordinator) View() View {
	s := c.engine.Session()
	active, _ := c.tasks.List(c.sel.ActiveListID)
	left := c.tasks.ActiveTaskCount(c.sel.ActiveListID)
	return View{
		Clock:          focus.FormatClock(s.Remaining),
		Mode:           s.Mode,
		Running:        s.Running,
		Counter:        c.counter,
		Message:        c.message,
		Settings:       c.settings,
		ActiveList:     active,
		Lists:          c.tasks.Lists(),
		Filter:         c.sel.Filter,
		Tasks:          slices.Collect(c.tasks.FilteredTasks(c.sel.ActiveListID, c.sel.Filter)),
		ItemsLeft:      left,
		ItemsLeftLabel: ItemsLeftLabel(left),
		Channel:        c.channel,
		NowPlaying:     c.catalog.Title(c.channel),
		Playing:        c.playing,
	}
}

// AllTasks returns every task across lists, in insertion order.
func (c *Coordinator) AllTasks() []store.Task { return c.tasks.Tasks() }

// Session exposes the raw countdown state.
func (c *Coordinator) Session() focus.Session { return c.engine.Session() }

func ItemsLeftLabel(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
