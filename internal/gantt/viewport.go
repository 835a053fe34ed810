package gantt

import "time"

// Viewport tracks the visible window of the timeline. Every transition
// regenerates the marker sequence before returning.
type Viewport struct {
	origin  time.Time // start date of the bound project
	anchor  time.Time
	mode    ViewMode
	active  bool
	markers []time.Time
}

// NewViewport returns an unbound viewport in the given mode.
func NewViewport(mode ViewMode) Viewport {
	return Viewport{mode: mode}
}

// Bind associates the viewport with a project starting at start and moves the
// anchor there.
func (v *Viewport) Bind(start time.Time) {
	v.origin = Midnight(start)
	v.anchor = v.origin
	v.active = true
	v.regenerate()
}

// Unbind leaves the viewport without a project; the window becomes empty.
func (v *Viewport) Unbind() {
	v.origin = time.Time{}
	v.anchor = time.Time{}
	v.active = false
	v.regenerate()
}

// Next moves the window forward by half its span.
func (v *Viewport) Next() {
	v.shift(v.mode.Span() / 2)
}

// Previous moves the window back by half its span.
func (v *Viewport) Previous() {
	v.shift(-v.mode.Span() / 2)
}

// Reset moves the anchor back to the project start.
func (v *Viewport) Reset() {
	if !v.active {
		return
	}
	v.anchor = v.origin
	v.regenerate()
}

// SetMode changes the zoom level and keeps the anchor.
func (v *Viewport) SetMode(mode ViewMode) {
	v.mode = mode
	v.regenerate()
}

func (v *Viewport) CycleMode() {
	v.SetMode(v.mode.Next())
}

func (v *Viewport) shift(days int) {
	if !v.active {
		return
	}
	v.anchor = v.anchor.AddDate(0, 0, days)
	v.regenerate()
}

func (v *Viewport) regenerate() {
	if !v.active {
		v.markers = nil
		return
	}
	v.markers = DateRange(v.anchor, v.anchor.AddDate(0, 0, v.mode.Span()), v.mode)
}

func (v Viewport) Anchor() time.Time { return v.anchor }
func (v Viewport) Mode() ViewMode     { return v.mode }
func (v Viewport) Active() bool       { return v.active }
func (v Viewport) CellWidth() int     { return v.mode.CellWidth() }

// Markers returns a copy of the current marker sequence.
func (v Viewport) Markers() []time.Time {
	out := make([]time.Time, len(v.markers))
	copy(out, v.markers)
	return out
}

// Width is the pixel width of the whole window.
func (v Viewport) Width() int {
	return len(v.markers) * v.CellWidth()
}

// Label describes the visible range for headers.
func (v Viewport) Label() string {
	if !v.active || len(v.markers) == 0 {
		return "No date range"
	}
	return FormatLong(v.anchor) + " - " + FormatLong(v.markers[len(v.markers)-1])
}
