package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/ganttr/internal/gantt"
)

// Keys of the timeline preferences seeded by the first migration.
const (
	SettingViewMode    = "view_mode"
	SettingRedrawDelay = "redraw_delay_ms"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, notFound(err))
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// ViewMode is the default zoom level of the timeline.
func (s *Store) ViewMode() (gantt.ViewMode, error) {
	v, err := s.GetSetting(SettingViewMode)
	if err != nil {
		return gantt.ViewWeek, err
	}
	return gantt.ParseViewMode(v)
}

func (s *Store) SetViewMode(m gantt.ViewMode) error {
	if _, err := gantt.ParseViewMode(m.String()); err != nil {
		return err
	}
	return s.SetSetting(SettingViewMode, m.String())
}

// RedrawDelay is the pause between a layout commit and the connector pass,
// stored in whole milliseconds.
func (s *Store) RedrawDelay() (time.Duration, error) {
	v, err := s.GetSetting(SettingRedrawDelay)
	if err != nil {
		return gantt.DefaultRedrawDelay, err
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return gantt.DefaultRedrawDelay, fmt.Errorf("%s: invalid value %q", SettingRedrawDelay, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (s *Store) SetRedrawDelay(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s: negative delay %s", SettingRedrawDelay, d)
	}
	return s.SetSetting(SettingRedrawDelay, strconv.FormatInt(int64(d/time.Millisecond), 10))
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
