package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/lowkey/internal/log"
)

// Key names one independently persisted slice.
type Key string

const (
	KeySettings       Key = "settings"
	KeyTasks          Key = "tasks"
	KeyLists          Key = "lists"
	KeyActiveList     Key = "activeListId"
	KeyFilter         Key = "filter"
	KeySessionCounter Key = "sessionCounter"
)

// Slice is a typed view over one row of the slices table. Load never fails:
// a missing, undecodable or invalid value reads as absent.
type Slice[T any] struct {
	db       *sql.DB
	key      Key
	validate func(T) error
}

func newSlice[T any](s *Store, key Key, validate func(T) error) Slice[T] {
	return Slice[T]{db: s.db, key: key, validate: validate}
}

func (sl Slice[T]) Key() Key { return sl.key }

// Load returns the persisted value and true, or the zero value and false.
func (sl Slice[T]) Load() (T, bool) {
	var zero T
	var raw string
	err := sl.db.QueryRow(`SELECT value FROM slices WHERE key = ?`, string(sl.key)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false
	}
	if err != nil {
		log.Debug().Err(err).Str("slice", string(sl.key)).Msg("read slice")
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Debug().Err(err).Str("slice", string(sl.key)).Msg("malformed slice, using default")
		return zero, false
	}
	if sl.validate != nil {
		if err := sl.validate(v); err != nil {
			log.Debug().Err(err).Str("slice", string(sl.key)).Msg("invalid slice, using default")
			return zero, false
		}
	}
	return v, true
}

// Save overwrites the whole slice.
func (sl Slice[T]) Save(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", sl.key, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = sl.db.Exec(
		`INSERT INTO slices (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(sl.key), string(data), now,
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", sl.key, err)
	}
	return nil
}

func (s *Store) Settings() Slice[Settings] {
	return newSlice(s, KeySettings, Settings.Validate)
}

func (s *Store) Tasks() Slice[[]Task] {
	return newSlice(s, KeyTasks, validateTasks)
}

func (s *Store) Lists() Slice[[]List] {
	return newSlice(s, KeyLists, validateLists)
}

func (s *Store) ActiveList() Slice[string] {
	return newSlice(s, KeyActiveList, func(id string) error {
		if id == "" {
			return errors.New("empty list id")
		}
		return nil
	})
}

func (s *Store) Filter() Slice[Filter] {
	return newSlice(s, KeyFilter, func(f Filter) error {
		if !f.Valid() {
			return fmt.Errorf("unknown filter %q", f)
		}
		return nil
	})
}

func (s *Store) SessionCounter() Slice[int] {
	return newSlice(s, KeySessionCounter, func(n int) error {
		if n < 0 {
			return fmt.Errorf("negative counter %d", n)
		}
		return nil
	})
}

func validateTasks(tasks []Task) error {
	for _, t := range tasks {
		if t.Title == "" {
			return fmt.Errorf("task %d has no title", t.ID)
		}
		if !t.Priority.Valid() {
			return fmt.Errorf("task %d has priority %q", t.ID, t.Priority)
		}
		if t.ListID == "" {
			return fmt.Errorf("task %d has no list", t.ID)
		}
	}
	return nil
}

func validateLists(lists []List) error {
	if len(lists) == 0 {
		return errors.New("no lists")
	}
	for _, l := range lists {
		if l.ID == "" || l.Name == "" {
			return fmt.Errorf("list %q is incomplete", l.ID)
		}
	}
	return nil
}
