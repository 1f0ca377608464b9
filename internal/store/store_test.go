package store

import (
	"reflect"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeRaw stores value under key without going through a typed slice.
func writeRaw(t *testing.T, s *Store, key Key, value string) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO slices (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		string(key), value,
	)
	if err != nil {
		t.Fatalf("write raw %s: %v", key, err)
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/lowkey.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Settings().Save(DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not rerun.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, ok := s2.Settings().Load(); !ok {
		t.Fatal("settings lost after reopen")
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Slices
// ============================================================

func TestLoadBeforeSaveIsAbsent(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.Settings().Load(); ok {
		t.Fatal("settings should be absent")
	}
	if _, ok := s.Tasks().Load(); ok {
		t.Fatal("tasks should be absent")
	}
	if _, ok := s.Lists().Load(); ok {
		t.Fatal("lists should be absent")
	}
	if _, ok := s.ActiveList().Load(); ok {
		t.Fatal("active list should be absent")
	}
	if _, ok := s.Filter().Load(); ok {
		t.Fatal("filter should be absent")
	}
	if n, ok := s.SessionCounter().Load(); ok || n != 0 {
		t.Fatalf("counter should be absent, got %d %v", n, ok)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := Settings{PomodoroMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, SoundEnabled: false, SoundTheme: ThemeNature}
	if err := s.Settings().Save(want); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Settings().Load()
	if !ok {
		t.Fatal("settings absent after save")
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v != %+v", got, want)
	}
}

func TestSettingsJSONKeys(t *testing.T) {
	s := newTestStore(t)
	writeRaw(t, s, KeySettings, `{"pomodoro":30,"shortBreak":6,"longBreak":20,"soundEnabled":true,"soundTheme":"digital"}`)
	got, ok := s.Settings().Load()
	if !ok {
		t.Fatal("expected settings")
	}
	if got.PomodoroMinutes != 30 || got.ShortBreakMinutes != 6 || got.LongBreakMinutes != 20 || got.SoundTheme != ThemeDigital {
		t.Fatalf("unexpected settings: %+v", got)
	}
}

func TestSaveOverwritesWholeSlice(t *testing.T) {
	s := newTestStore(t)
	first := []Task{
		{ID: 1, Title: "a", Priority: PriorityLow, ListID: DefaultListID},
		{ID: 2, Title: "b", Priority: PriorityHigh, ListID: DefaultListID},
	}
	if err := s.Tasks().Save(first); err != nil {
		t.Fatal(err)
	}
	second := []Task{{ID: 3, Title: "c", Priority: PriorityMedium, ListID: "x", DueDate: "2026-01-02", DueTime: "08:00"}}
	if err := s.Tasks().Save(second); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Tasks().Load()
	if !ok {
		t.Fatal("tasks absent")
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("expected %+v, got %+v", second, got)
	}
}

func TestMalformedSlicesReadAsAbsent(t *testing.T) {
	s := newTestStore(t)
	cases := []struct {
		key   Key
		value string
		load  func() bool
	}{
		{KeySettings, `{not json`, func() bool { _, ok := s.Settings().Load(); return ok }},
		{KeySettings, `{"pomodoro":0,"shortBreak":5,"longBreak":15,"soundTheme":"minimal"}`, func() bool { _, ok := s.Settings().Load(); return ok }},
		{KeySettings, `{"pomodoro":25,"shortBreak":5,"longBreak":15,"soundTheme":"jazz"}`, func() bool { _, ok := s.Settings().Load(); return ok }},
		{KeyTasks, `[{"id":1,"title":"","priority":"medium","listId":"default"}]`, func() bool { _, ok := s.Tasks().Load(); return ok }},
		{KeyTasks, `{"id":1}`, func() bool { _, ok := s.Tasks().Load(); return ok }},
		{KeyLists, `[]`, func() bool { _, ok := s.Lists().Load(); return ok }},
		{KeyActiveList, `""`, func() bool { _, ok := s.ActiveList().Load(); return ok }},
		{KeyActiveList, `42`, func() bool { _, ok := s.ActiveList().Load(); return ok }},
		{KeyFilter, `"someday"`, func() bool { _, ok := s.Filter().Load(); return ok }},
		{KeySessionCounter, `-1`, func() bool { _, ok := s.SessionCounter().Load(); return ok }},
		{KeySessionCounter, `"three"`, func() bool { _, ok := s.SessionCounter().Load(); return ok }},
	}
	for _, tc := range cases {
		writeRaw(t, s, tc.key, tc.value)
		if tc.load() {
			t.Errorf("%s=%s should read as absent", tc.key, tc.value)
		}
	}
}

func TestSlicesAreIndependent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Filter().Save(FilterCompleted); err != nil {
		t.Fatal(err)
	}
	if err := s.SessionCounter().Save(7); err != nil {
		t.Fatal(err)
	}
	if err := s.ActiveList().Save("work"); err != nil {
		t.Fatal(err)
	}
	if err := s.Lists().Save([]List{DefaultList()}); err != nil {
		t.Fatal(err)
	}

	f, _ := s.Filter().Load()
	n, _ := s.SessionCounter().Load()
	id, _ := s.ActiveList().Load()
	lists, _ := s.Lists().Load()
	if f != FilterCompleted || n != 7 || id != "work" || len(lists) != 1 {
		t.Fatalf("unexpected slices: %v %d %q %v", f, n, id, lists)
	}
	if _, ok := s.Settings().Load(); ok {
		t.Fatal("unsaved slice should stay absent")
	}
}

func TestSaveAfterCloseFails(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if err := s.Filter().Save(FilterAll); err == nil {
		t.Fatal("expected error saving to a closed store")
	}
	if _, ok := s.Filter().Load(); ok {
		t.Fatal("load from a closed store should be absent")
	}
}

func TestSliceKeys(t *testing.T) {
	s := newTestStore(t)
	got := []Key{
		s.Settings().Key(), s.Tasks().Key(), s.Lists().Key(),
		s.ActiveList().Key(), s.Filter().Key(), s.SessionCounter().Key(),
	}
	want := []Key{KeySettings, KeyTasks, KeyLists, KeyActiveList, KeyFilter, KeySessionCounter}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected keys: %v", got)
	}
}

// ============================================================
// Models
// ============================================================

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
	bad := DefaultSettings()
	bad.LongBreakMinutes = -1
	err := bad.Validate()
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "longBreak" {
		t.Fatalf("unexpected field %q", verr.Field)
	}
}

func TestEnumsValid(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Fatalf("%s should be valid", p)
		}
	}
	for _, f := range Filters {
		if !f.Valid() {
			t.Fatalf("%s should be valid", f)
		}
	}
	for _, th := range SoundThemes {
		if !th.Valid() {
			t.Fatalf("%s should be valid", th)
		}
	}
	if Priority("urgent").Valid() || Filter("x").Valid() || SoundTheme("").Valid() {
		t.Fatal("unknown values should be invalid")
	}
}

// ============================================================
// Focus history
// ============================================================

func TestRecordAndCountFocus(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.RecordFocus("pomodoro", 1500, day.Add(9*time.Hour))
	s.RecordFocus("pomodoro", 1500, day.Add(10*time.Hour))
	s.RecordFocus("shortBreak", 300, day.Add(10*time.Hour))
	s.RecordFocus("pomodoro", 1500, day.Add(30*time.Hour))

	n, err := s.CountFocus("pomodoro", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pomodoros, got %d", n)
	}
}

func TestFocusStats(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.RecordFocus("pomodoro", 1500, day.Add(9*time.Hour))
	s.RecordFocus("pomodoro", 1500, day.Add(11*time.Hour))
	s.RecordFocus("longBreak", 900, day.Add(12*time.Hour))
	s.RecordFocus("pomodoro", 1200, day.Add(33*time.Hour))

	stats, err := s.FocusStats(day, day.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}
	want := []DailyFocus{
		{Date: "2026-03-01", Mode: "longBreak", Count: 1, TotalSeconds: 900},
		{Date: "2026-03-01", Mode: "pomodoro", Count: 2, TotalSeconds: 3000},
		{Date: "2026-03-02", Mode: "pomodoro", Count: 1, TotalSeconds: 1200},
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("unexpected stats:\n got %+v\nwant %+v", stats, want)
	}
}

func TestFocusStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.FocusStats(time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats != nil {
		t.Fatalf("expected nil slice, got %d items", len(stats))
	}
}
