package store

import (
	"fmt"
	"time"
)

// RecordFocus appends one completed countdown to the focus history.
func (s *Store) RecordFocus(mode string, seconds int, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO focus_log (mode, seconds, completed_at) VALUES (?, ?, ?)`,
		mode, seconds, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record focus: %w", err)
	}
	return nil
}

// FocusStats aggregates the history per day and mode for [from, to).
func (s *Store) FocusStats(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at) AS day, mode, COUNT(*), COALESCE(SUM(seconds), 0)
		FROM focus_log
		WHERE completed_at >= ? AND completed_at < ?
		GROUP BY day, mode
		ORDER BY day, mode`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("focus stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Date, &d.Mode, &d.Count, &d.TotalSeconds); err != nil {
			return nil, err
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// CountFocus returns how many periods of mode completed in [from, to).
func (s *Store) CountFocus(mode string, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM focus_log
		WHERE mode = ? AND completed_at >= ? AND completed_at < ?`,
		mode, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count focus: %w", err)
	}
	return n, nil
}
