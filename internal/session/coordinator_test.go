package session

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/lowkey/internal/focus"
	"github.com/sadopc/lowkey/internal/store"
	"github.com/sadopc/lowkey/internal/tasks"
)

type recorder struct {
	mu     sync.Mutex
	cues   []store.SoundTheme
	bodies []string
	loads  []string
	plays  int
	pauses int
	fail   bool
}

func (r *recorder) Play(theme store.SoundTheme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, theme)
	if r.fail {
		return errors.New("no audio device")
	}
	return nil
}

func (r *recorder) Notify(_, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, body)
	if r.fail {
		panic("notification permission denied")
	}
	return nil
}

func (r *recorder) Load(id string) { r.loads = append(r.loads, id) }
func (r *recorder) Pause()         { r.pauses++ }

func (r *recorder) snapshot() ([]store.SoundTheme, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.SoundTheme(nil), r.cues...), append([]string(nil), r.bodies...)
}

// Play on the surface side shares the name with CuePlayer.Play, so the
// surface gets its own adapter.
type surface struct{ r *recorder }

func (s surface) Load(id string) { s.r.Load(id) }
func (s surface) Play()          { s.r.plays++ }
func (s surface) Pause()         { s.r.Pause() }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func openTest(t *testing.T, st *store.Store) (*Coordinator, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := Open(Deps{
		Store:    st,
		Surface:  surface{rec},
		Notifier: rec,
		Cues:     rec,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(c.Close)
	return c, rec
}

func runCountdown(t *testing.T, c *Coordinator) {
	t.Helper()
	tok, started := c.StartTimer()
	require.True(t, started)
	for c.Tick(tok) {
	}
}

func TestOpenUsesDefaults(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	v := c.View()

	assert.Equal(t, store.DefaultSettings(), v.Settings)
	assert.Equal(t, "25:00", v.Clock)
	assert.Equal(t, focus.Pomodoro, v.Mode)
	assert.False(t, v.Running)
	assert.Equal(t, 0, v.Counter)
	assert.Equal(t, store.DefaultList(), v.ActiveList)
	assert.Equal(t, []store.List{store.DefaultList()}, v.Lists)
	assert.Equal(t, store.FilterAll, v.Filter)
	assert.Empty(t, v.Tasks)
	assert.Equal(t, "0 items left", v.ItemsLeftLabel)
	assert.Equal(t, "Spring Lofi", v.NowPlaying)
}

func TestStateSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lowkey.db")
	st, err := store.New(path)
	require.NoError(t, err)

	c, _ := openTest(t, st)
	settings := store.Settings{PomodoroMinutes: 1, ShortBreakMinutes: 2, LongBreakMinutes: 3, SoundEnabled: false, SoundTheme: store.ThemeDigital}
	require.NoError(t, c.SaveSettings(settings))
	work, err := c.AddList("Work", "#123456")
	require.NoError(t, err)
	c.SetActiveList(work.ID)
	task, err := c.AddTask("ship")
	require.NoError(t, err)
	require.NoError(t, c.SetFilter(store.FilterActive))
	runCountdown(t, c)
	require.NoError(t, st.Close())

	st2, err := store.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { st2.Close() })
	c2, _ := openTest(t, st2)
	v := c2.View()

	assert.Equal(t, settings, v.Settings)
	assert.Equal(t, work, v.ActiveList)
	assert.Equal(t, store.FilterActive, v.Filter)
	assert.Equal(t, 1, v.Counter)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, task, v.Tasks[0])
	assert.Equal(t, "01:00", v.Clock, "timer state is not persisted")
}

func TestAddTaskValidation(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	for _, title := range []string{"", "   "} {
		_, err := c.AddTask(title)
		var verr *store.ValidationError
		assert.True(t, errors.As(err, &verr))
	}
	assert.Empty(t, c.AllTasks())

	stored, ok := c.Store().Tasks().Load()
	assert.False(t, ok, "nothing persisted: %v", stored)
}

func TestBlankListTaskDoesNotLoseOthersOnRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lowkey.db")
	st, err := store.New(path)
	require.NoError(t, err)

	c, _ := openTest(t, st)
	keep, err := c.AddTask("keep me")
	require.NoError(t, err)
	_, err = c.AddTaskTo("orphan", "")
	var verr *store.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, c.AllTasks(), 1)
	require.NoError(t, st.Close())

	st2, err := store.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { st2.Close() })
	c2, _ := openTest(t, st2)
	assert.Equal(t, []store.Task{keep}, c2.AllTasks())
}

func TestEndToEndScenario(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	task, err := c.AddTaskTo("Write report", store.DefaultListID)
	require.NoError(t, err)
	c.ToggleTask(task.ID)

	require.NoError(t, c.SetFilter(store.FilterCompleted))
	v := c.View()
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, task.ID, v.Tasks[0].ID)

	require.NoError(t, c.SetFilter(store.FilterActive))
	assert.Empty(t, c.View().Tasks)
	assert.Equal(t, "0 items left", c.View().ItemsLeftLabel)

	stored, ok := c.Store().Tasks().Load()
	require.True(t, ok)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Completed)
}

func TestEveryMutationPersists(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	st := c.Store()

	a, _ := c.AddTask("a")
	b, _ := c.AddTask("b")
	c.ToggleTask(a.ID)
	require.NoError(t, c.EditTask(b.ID, tasks.Edit{Title: "bee", Priority: store.PriorityHigh}))
	stored, _ := st.Tasks().Load()
	require.Len(t, stored, 2)
	assert.True(t, stored[0].Completed)
	assert.Equal(t, "bee", stored[1].Title)

	assert.Equal(t, 1, c.ClearCompleted())
	stored, _ = st.Tasks().Load()
	assert.Len(t, stored, 1)

	c.DeleteTask(b.ID)
	stored, ok := st.Tasks().Load()
	assert.True(t, ok)
	assert.Empty(t, stored)
}

func TestDeleteActiveListPersistsFallback(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	work, _ := c.AddList("Work", "")
	c.SetActiveList(work.ID)
	c.AddTask("w1")
	c.AddTask("w2")
	keep, _ := c.AddTaskTo("home", store.DefaultListID)

	c.DeleteList(work.ID)

	v := c.View()
	assert.Equal(t, store.DefaultListID, v.ActiveList.ID)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, keep.ID, v.Tasks[0].ID)

	active, ok := c.Store().ActiveList().Load()
	require.True(t, ok)
	assert.Equal(t, store.DefaultListID, active)
	lists, _ := c.Store().Lists().Load()
	assert.Equal(t, []store.List{store.DefaultList()}, lists)
	stored, _ := c.Store().Tasks().Load()
	assert.Len(t, stored, 1)
}

func TestSetActiveListIgnoresUnknown(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	c.SetActiveList("ghost")
	assert.Equal(t, store.DefaultListID, c.View().ActiveList.ID)
	_, ok := c.Store().ActiveList().Load()
	assert.False(t, ok)
}

func TestSetFilterRejectsUnknown(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	err := c.SetFilter("someday")
	var verr *store.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, store.FilterAll, c.View().Filter)
}

func TestStaleActiveListFallsBackOnOpen(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ActiveList().Save("deleted-elsewhere"))
	c, _ := openTest(t, st)
	assert.Equal(t, store.DefaultListID, c.View().ActiveList.ID)
}

func TestSaveSettingsValidation(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	bad := store.DefaultSettings()
	bad.ShortBreakMinutes = 0
	err := c.SaveSettings(bad)
	var verr *store.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, store.DefaultSettings(), c.Settings())
}

func TestSaveSettingsReseedsPausedTimer(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	s := store.DefaultSettings()
	s.PomodoroMinutes = 10
	require.NoError(t, c.SaveSettings(s))
	assert.Equal(t, "10:00", c.View().Clock)

	got, ok := c.Store().Settings().Load()
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestCompletionDispatchesEffects(t *testing.T) {
	c, rec := openTest(t, newTestStore(t))
	s := store.DefaultSettings()
	s.PomodoroMinutes = 1
	s.SoundTheme = store.ThemeDigital
	require.NoError(t, c.SaveSettings(s))

	runCountdown(t, c)

	v := c.View()
	assert.Equal(t, focus.ShortBreak, v.Mode)
	assert.False(t, v.Running)
	assert.Equal(t, 1, v.Counter)
	assert.Equal(t, "Pomodoro completed! Take a short break.", v.Message)

	counter, ok := c.Store().SessionCounter().Load()
	require.True(t, ok)
	assert.Equal(t, 1, counter)

	require.Eventually(t, func() bool {
		cues, bodies := rec.snapshot()
		return len(cues) == 1 && len(bodies) == 1
	}, time.Second, 5*time.Millisecond)
	cues, bodies := rec.snapshot()
	assert.Equal(t, store.ThemeDigital, cues[0])
	assert.Equal(t, "Pomodoro completed! Take a short break.", bodies[0])

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	n, err := c.Store().CountFocus("pomodoro", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFailingEffectsDoNotAffectTimer(t *testing.T) {
	c, rec := openTest(t, newTestStore(t))
	rec.fail = true
	s := store.DefaultSettings()
	s.PomodoroMinutes = 1
	require.NoError(t, c.SaveSettings(s))

	runCountdown(t, c)
	assert.Equal(t, focus.ShortBreak, c.View().Mode)
	assert.Equal(t, 1, c.View().Counter)

	require.Eventually(t, func() bool {
		cues, bodies := rec.snapshot()
		return len(cues) == 1 && len(bodies) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestFourthPomodoroGoesToLongBreak(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SessionCounter().Save(3))
	require.NoError(t, st.Settings().Save(store.Settings{PomodoroMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 2, SoundTheme: store.ThemeMinimal}))
	c, _ := openTest(t, st)

	runCountdown(t, c)
	v := c.View()
	assert.Equal(t, focus.LongBreak, v.Mode)
	assert.Equal(t, "02:00", v.Clock)
	assert.Equal(t, 4, v.Counter)
	assert.Equal(t, "Great job! Time for a long break.", v.Message)
}

func TestTickLoopCancellation(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))

	cancels := map[string]func(){
		"pause":  c.PauseTimer,
		"reset":  c.ResetTimer,
		"switch": func() { c.SwitchMode(focus.ShortBreak) },
		"close":  c.Close,
	}
	for name, cancel := range cancels {
		tok, started := c.StartTimer()
		require.True(t, started, name)
		require.True(t, c.Tick(tok), name)
		cancel()
		before := c.Session()
		assert.False(t, c.Tick(tok), "%s: stale tick accepted", name)
		assert.Equal(t, before, c.Session(), name)
		c.ResetTimer()
	}
}

func TestStartWhileRunningKeepsOneLoop(t *testing.T) {
	c, _ := openTest(t, newTestStore(t))
	tok, started := c.StartTimer()
	require.True(t, started)
	_, again := c.StartTimer()
	assert.False(t, again)
	assert.True(t, c.Tick(tok))
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	st, err := store.NewMemory()
	require.NoError(t, err)
	c, _ := openTest(t, st)
	require.NoError(t, st.Close())

	task, err := c.AddTask("offline")
	require.NoError(t, err)
	c.ToggleTask(task.ID)
	require.Len(t, c.View().Tasks, 1)
	assert.True(t, c.View().Tasks[0].Completed)
}

func TestChannelRelay(t *testing.T) {
	c, rec := openTest(t, newTestStore(t))
	c.ChangeChannel("vYIYIVmOo3Q")
	c.SetPlaying(true)
	c.SetPlaying(false)

	assert.Equal(t, []string{"vYIYIVmOo3Q"}, rec.loads)
	assert.Equal(t, 1, rec.plays)
	assert.Equal(t, 1, rec.pauses)
	assert.Equal(t, "Rainy Rooftop", c.View().NowPlaying)

	c.ChangeChannel("unlisted")
	assert.Equal(t, "Unknown Channel", c.View().NowPlaying)
}

func TestItemsLeftLabel(t *testing.T) {
	assert.Equal(t, "0 items left", ItemsLeftLabel(0))
	assert.Equal(t, "1 item left", ItemsLeftLabel(1))
	assert.Equal(t, "7 items left", ItemsLeftLabel(7))
}
