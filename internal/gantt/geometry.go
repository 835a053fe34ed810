package gantt

import "time"

const (
	// Gutter is subtracted from every bar so adjacent bars do not touch.
	Gutter = 4
	// MinBarWidth keeps zero-length and very narrow bars visible.
	MinBarWidth = 8
)

// Range is an inclusive span of calendar dates.
type Range struct {
	Start time.Time
	End   time.Time
}

// Bar is the horizontal placement of a task inside the visible window.
// Offset and Width are only meaningful when Visible is set.
type Bar struct {
	Offset  int
	Width   int // rendered width, gutter already removed
	Span    int // covered columns times cell width
	Visible bool

	ClippedStart bool // task begins before the window
	ClippedEnd   bool // task ends after the last marker
}

// Layout places r on the marker sequence. Tasks that neither start, end, nor
// cover a marker inside the window get a zero Bar.
func Layout(r Range, markers []time.Time, cellWidth int) Bar {
	n := len(markers)
	if n == 0 || cellWidth <= 0 {
		return Bar{}
	}

	start, end := Midnight(r.Start), Midnight(r.End)
	if end.Before(start) {
		start, end = end, start
	}
	first, last := markers[0], markers[n-1]

	startVisible := within(start, first, last)
	endVisible := within(end, first, last)
	covered := false
	for _, m := range markers {
		if within(m, start, end) {
			covered = true
			break
		}
	}
	if !startVisible && !endVisible && !covered {
		return Bar{}
	}

	startIdx := firstOnOrAfter(markers, start)
	endIdx := firstOnOrAfter(markers, end)

	b := Bar{Visible: true, ClippedEnd: endIdx < 0}
	if startIdx < 0 || start.Before(first) {
		b.ClippedStart = start.Before(first)
		if endIdx < 0 {
			b.Span = n * cellWidth
		} else {
			b.Span = (endIdx + 1) * cellWidth
		}
	} else {
		b.Offset = startIdx * cellWidth
		if endIdx < 0 {
			b.Span = (n - startIdx) * cellWidth
		} else {
			b.Span = (endIdx - startIdx + 1) * cellWidth
		}
	}

	b.Width = b.Span - Gutter
	if b.Width < MinBarWidth {
		b.Width = MinBarWidth
	}
	return b
}

// ProgressWidth is the part of a bar of the given width that is filled for the
// given completion percentage.
func ProgressWidth(barWidth, progress int) int {
	if progress <= 0 || barWidth <= 0 {
		return 0
	}
	if progress >= 100 {
		return barWidth
	}
	return barWidth * progress / 100
}

func within(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// firstOnOrAfter returns the index of the first marker not before t, or -1.
func firstOnOrAfter(markers []time.Time, t time.Time) int {
	for i, m := range markers {
		if !m.Before(t) {
			return i
		}
	}
	return -1
}
