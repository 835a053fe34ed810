// Package gantt is the timeline core: calendar ranges, bar geometry, the
// visible window and dependency connectors. It works in pixels and knows the
// rendering surface only through BoxLookup and Overlay.
package gantt

import (
	"fmt"
	"strings"
	"time"
)

// ViewMode is the zoom level of the timeline.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewWeek
	ViewMonth
)

// WindowUnits is the number of base units the visible window looks ahead.
const WindowUnits = 20

var viewModeNames = []string{"day", "week", "month"}

func (m ViewMode) String() string {
	if m < ViewDay || m > ViewMonth {
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
	return viewModeNames[m]
}

// ParseViewMode accepts "day", "week" or "month" (case-insensitive).
func ParseViewMode(s string) (ViewMode, error) {
	for i, name := range viewModeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return ViewMode(i), nil
		}
	}
	return ViewWeek, fmt.Errorf("unknown view mode %q", s)
}

// Step is the number of days between two consecutive markers.
func (m ViewMode) Step() int {
	switch m {
	case ViewWeek:
		return 7
	case ViewMonth:
		return 30 // fixed blocks, not calendar months
	default:
		return 1
	}
}

// Span is the length of the visible window in days.
func (m ViewMode) Span() int {
	return WindowUnits * m.Step()
}

// CellWidth is the pixel width of one marker column.
func (m ViewMode) CellWidth() int {
	switch m {
	case ViewWeek:
		return 64
	case ViewMonth:
		return 120
	default:
		return 48
	}
}

// Next returns the following mode, wrapping from month back to day.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % ViewMode(len(viewModeNames))
}

// Midnight truncates t to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the inclusive number of calendar days from start to end.
// It is zero or negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	return int(Midnight(end).Sub(Midnight(start)).Hours()/24) + 1
}

// DateRange produces the marker dates from start to end for the given mode.
// An inverted range yields nil; equal dates yield a single marker.
func DateRange(start, end time.Time, mode ViewMode) []time.Time {
	s := Midnight(start)
	total := DaysBetween(s, end)
	if total <= 0 {
		return nil
	}

	step := mode.Step()
	count := (total + step - 1) / step

	markers := make([]time.Time, count)
	for i := range markers {
		markers[i] = s.AddDate(0, 0, i*step)
	}
	return markers
}

// FormatShort renders t as "Jan 02".
func FormatShort(t time.Time) string {
	return t.Format("Jan 02")
}

// FormatLong renders t as "Jan 02, 2006".
func FormatLong(t time.Time) string {
	return t.Format("Jan 02, 2006")
}
