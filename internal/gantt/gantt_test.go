package gantt

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ============================================================
// Calendar
// ============================================================

func TestDateRangeCounts(t *testing.T) {
	start := date(2024, 1, 1)
	tests := []struct {
		name string
		end  time.Time
		mode ViewMode
		want int
	}{
		{"day over 5 days", date(2024, 1, 5), ViewDay, 5},
		{"week over 70 days", start.AddDate(0, 0, 69), ViewWeek, 10},
		{"week over 71 days", start.AddDate(0, 0, 70), ViewWeek, 11},
		{"month over 60 days", start.AddDate(0, 0, 59), ViewMonth, 2},
		{"month over 61 days", start.AddDate(0, 0, 60), ViewMonth, 3},
		{"equal dates day", start, ViewDay, 1},
		{"equal dates week", start, ViewWeek, 1},
		{"equal dates month", start, ViewMonth, 1},
		{"inverted", date(2023, 12, 31), ViewDay, 0},
		{"inverted week", date(2023, 12, 1), ViewWeek, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateRange(start, tt.end, tt.mode)
			if len(got) != tt.want {
				t.Fatalf("expected %d markers, got %d", tt.want, len(got))
			}
		})
	}
}

func TestDateRangeSpacing(t *testing.T) {
	start := date(2024, 1, 1)
	for _, mode := range []ViewMode{ViewDay, ViewWeek, ViewMonth} {
		markers := DateRange(start, start.AddDate(0, 0, mode.Span()), mode)
		if !markers[0].Equal(start) {
			t.Fatalf("%s: first marker %v, want %v", mode, markers[0], start)
		}
		for i := 1; i < len(markers); i++ {
			gap := int(markers[i].Sub(markers[i-1]).Hours() / 24)
			if gap != mode.Step() {
				t.Fatalf("%s: gap %d at %d, want %d", mode, gap, i, mode.Step())
			}
		}
	}
}

func TestDateRangeMonthIsThirtyDayBlocks(t *testing.T) {
	start := date(2024, 1, 31)
	markers := DateRange(start, start.AddDate(0, 0, 90), ViewMonth)
	if !markers[1].Equal(date(2024, 3, 1)) {
		t.Fatalf("second month marker = %v, want 2024-03-01", markers[1])
	}
}

func TestDateRangeDeterministic(t *testing.T) {
	a := DateRange(date(2024, 2, 1), date(2024, 4, 1), ViewWeek)
	b := DateRange(date(2024, 2, 1), date(2024, 4, 1), ViewWeek)
	if len(a) != len(b) {
		t.Fatal("lengths differ")
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("marker %d differs", i)
		}
	}
}

func TestDateRangeIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC)
	got := DateRange(start, end, ViewDay)
	if len(got) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(got))
	}
	if got[0].Hour() != 0 {
		t.Fatal("markers should be at midnight")
	}
}

func TestFormatDates(t *testing.T) {
	d := date(2024, 3, 5)
	if got := FormatShort(d); got != "Mar 05" {
		t.Errorf("FormatShort = %q, want %q", got, "Mar 05")
	}
	if got := FormatLong(d); got != "Mar 05, 2024" {
		t.Errorf("FormatLong = %q, want %q", got, "Mar 05, 2024")
	}
}

func TestViewModeConstants(t *testing.T) {
	tests := []struct {
		mode  ViewMode
		name  string
		step  int
		span  int
		width int
	}{
		{ViewDay, "day", 1, 20, 48},
		{ViewWeek, "week", 7, 140, 64},
		{ViewMonth, "month", 30, 600, 120},
	}
	for _, tt := range tests {
		if tt.mode.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.mode.String(), tt.name)
		}
		if tt.mode.Step() != tt.step || tt.mode.Span() != tt.span || tt.mode.CellWidth() != tt.width {
			t.Errorf("%s: step/span/width = %d/%d/%d", tt.name, tt.mode.Step(), tt.mode.Span(), tt.mode.CellWidth())
		}
		parsed, err := ParseViewMode(" " + tt.name + " ")
		if err != nil || parsed != tt.mode {
			t.Errorf("ParseViewMode(%q) = %v, %v", tt.name, parsed, err)
		}
	}
	if _, err := ParseViewMode("fortnight"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if ViewMonth.Next() != ViewDay {
		t.Error("month should wrap to day")
	}
}

// ============================================================
// Geometry
// ============================================================

func dayWindow() []time.Time {
	return DateRange(date(2024, 1, 1), date(2024, 1, 21), ViewDay)
}

func TestLayoutCases(t *testing.T) {
	cw := ViewDay.CellWidth()
	tests := []struct {
		name    string
		r       Range
		visible bool
		offset  int
		span    int
		clipS   bool
		clipE   bool
	}{
		{"fully before", Range{date(2023, 12, 1), date(2023, 12, 31)}, false, 0, 0, false, false},
		{"fully after", Range{date(2024, 2, 1), date(2024, 2, 5)}, false, 0, 0, false, false},
		{"inside", Range{date(2024, 1, 3), date(2024, 1, 5)}, true, 2 * cw, 3 * cw, false, false},
		{"zero duration", Range{date(2024, 1, 3), date(2024, 1, 3)}, true, 2 * cw, cw, false, false},
		{"exact boundaries", Range{date(2024, 1, 1), date(2024, 1, 21)}, true, 0, 21 * cw, false, false},
		{"spans whole window", Range{date(2023, 12, 1), date(2024, 3, 1)}, true, 0, 21 * cw, true, true},
		{"starts before", Range{date(2023, 12, 25), date(2024, 1, 3)}, true, 0, 3 * cw, true, false},
		{"ends after", Range{date(2024, 1, 20), date(2024, 2, 10)}, true, 19 * cw, 2 * cw, false, true},
		{"ends on first marker", Range{date(2023, 12, 25), date(2024, 1, 1)}, true, 0, cw, true, false},
		{"starts on last marker", Range{date(2024, 1, 21), date(2024, 1, 30)}, true, 20 * cw, cw, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Layout(tt.r, dayWindow(), cw)
			if b.Visible != tt.visible {
				t.Fatalf("visible = %v, want %v", b.Visible, tt.visible)
			}
			if !tt.visible {
				if b != (Bar{}) {
					t.Fatalf("hidden bar should be zero, got %+v", b)
				}
				return
			}
			if b.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", b.Offset, tt.offset)
			}
			if b.Span != tt.span {
				t.Errorf("span = %d, want %d", b.Span, tt.span)
			}
			if b.Width != tt.span-Gutter {
				t.Errorf("width = %d, want %d", b.Width, tt.span-Gutter)
			}
			if b.ClippedStart != tt.clipS || b.ClippedEnd != tt.clipE {
				t.Errorf("clipped = %v/%v, want %v/%v", b.ClippedStart, b.ClippedEnd, tt.clipS, tt.clipE)
			}
		})
	}
}

func TestLayoutInvariants(t *testing.T) {
	markers := DateRange(date(2024, 1, 1), date(2024, 5, 20), ViewWeek)
	cw := ViewWeek.CellWidth()
	for offset := -60; offset < 200; offset += 3 {
		for length := 0; length < 40; length += 5 {
			s := date(2024, 1, 1).AddDate(0, 0, offset)
			b := Layout(Range{s, s.AddDate(0, 0, length)}, markers, cw)
			if !b.Visible {
				continue
			}
			if b.Offset < 0 || b.Offset%cw != 0 {
				t.Fatalf("offset %d is not a non-negative multiple of %d", b.Offset, cw)
			}
			if b.Width <= 0 {
				t.Fatalf("width %d must be positive", b.Width)
			}
			if b.Offset+b.Span > len(markers)*cw {
				t.Fatalf("bar overflows window: %+v", b)
			}
		}
	}
}

func TestLayoutWeekSnapsToNextMarker(t *testing.T) {
	markers := DateRange(date(2024, 1, 1), date(2024, 3, 1), ViewWeek)
	b := Layout(Range{date(2024, 1, 2), date(2024, 1, 4)}, markers, 64)
	if !b.Visible || b.Offset != 64 || b.Width != 60 {
		t.Fatalf("unexpected bar %+v", b)
	}
}

func TestLayoutEmptyWindow(t *testing.T) {
	if b := Layout(Range{date(2024, 1, 1), date(2024, 1, 2)}, nil, 48); b.Visible {
		t.Fatal("no markers should never be visible")
	}
	if b := Layout(Range{date(2024, 1, 1), date(2024, 1, 2)}, dayWindow(), 0); b.Visible {
		t.Fatal("zero cell width should never be visible")
	}
}

func TestLayoutMinimumWidth(t *testing.T) {
	b := Layout(Range{date(2024, 1, 3), date(2024, 1, 3)}, dayWindow(), 4)
	if b.Width != MinBarWidth {
		t.Fatalf("width = %d, want %d", b.Width, MinBarWidth)
	}
}

func TestEndToEndWeekLayout(t *testing.T) {
	var v Viewport
	v.SetMode(ViewWeek)
	v.Bind(date(2024, 1, 1))

	b := Layout(Range{date(2024, 1, 5), date(2024, 1, 10)}, v.Markers(), v.CellWidth())
	if !b.Visible {
		t.Fatal("task should be visible")
	}
	// first week marker >= Jan 5 is Jan 8 (index 1), first >= Jan 10 is Jan 15 (index 2)
	if b.Offset != 64 {
		t.Errorf("offset = %d, want 64", b.Offset)
	}
	if b.Width != 2*64-Gutter {
		t.Errorf("width = %d, want %d", b.Width, 2*64-Gutter)
	}
}

func TestProgressWidth(t *testing.T) {
	tests := []struct {
		width, progress, want int
	}{
		{100, 0, 0},
		{100, 50, 50},
		{100, 100, 100},
		{100, 150, 100},
		{100, -5, 0},
		{60, 25, 15},
		{0, 50, 0},
	}
	for _, tt := range tests {
		if got := ProgressWidth(tt.width, tt.progress); got != tt.want {
			t.Errorf("ProgressWidth(%d, %d) = %d, want %d", tt.width, tt.progress, got, tt.want)
		}
	}
}

// ============================================================
// Viewport
// ============================================================

func TestViewportBindAndNavigate(t *testing.T) {
	v := NewViewport(ViewWeek)
	if v.Active() || len(v.Markers()) != 0 {
		t.Fatal("unbound viewport should be empty")
	}
	if v.Label() != "No date range" {
		t.Fatalf("label = %q", v.Label())
	}

	start := date(2024, 1, 1)
	v.Bind(start)
	if !v.Anchor().Equal(start) {
		t.Fatalf("anchor = %v, want %v", v.Anchor(), start)
	}
	if len(v.Markers()) != 21 {
		t.Fatalf("expected 21 markers, got %d", len(v.Markers()))
	}

	v.Next()
	if want := start.AddDate(0, 0, 70); !v.Anchor().Equal(want) {
		t.Fatalf("after Next anchor = %v, want %v", v.Anchor(), want)
	}
	if !v.Markers()[0].Equal(v.Anchor()) {
		t.Fatal("markers not regenerated after Next")
	}

	v.Previous()
	v.Previous()
	if want := start.AddDate(0, 0, -70); !v.Anchor().Equal(want) {
		t.Fatalf("after Previous anchor = %v, want %v", v.Anchor(), want)
	}

	v.Reset()
	if !v.Anchor().Equal(start) {
		t.Fatal("Reset should return to project start")
	}
}

func TestViewportModeChangeKeepsAnchor(t *testing.T) {
	v := NewViewport(ViewDay)
	v.Bind(date(2024, 1, 1))
	v.Next()
	anchor := v.Anchor()
	dayMarkers := v.Markers()
	dayExtent := dayMarkers[len(dayMarkers)-1].Sub(dayMarkers[0])

	v.SetMode(ViewMonth)
	if !v.Anchor().Equal(anchor) {
		t.Fatal("mode change moved the anchor")
	}
	if v.CellWidth() != 120 {
		t.Fatalf("cell width = %d, want 120", v.CellWidth())
	}
	monthMarkers := v.Markers()
	if !monthMarkers[0].Equal(anchor) {
		t.Fatal("markers not regenerated for new mode")
	}
	if monthMarkers[len(monthMarkers)-1].Sub(monthMarkers[0]) == dayExtent {
		t.Fatal("window extent should change with mode")
	}

	v.CycleMode()
	if v.Mode() != ViewDay {
		t.Fatalf("CycleMode from month = %v, want day", v.Mode())
	}
}

func TestViewportUnbind(t *testing.T) {
	v := NewViewport(ViewWeek)
	v.Bind(date(2024, 1, 1))
	v.Unbind()
	if v.Active() || len(v.Markers()) != 0 || v.Width() != 0 {
		t.Fatal("unbound viewport should have an empty window")
	}
	v.Next()
	v.Reset()
	if len(v.Markers()) != 0 {
		t.Fatal("navigation without a project must keep the window empty")
	}
}

func TestViewportMarkersIsCopy(t *testing.T) {
	v := NewViewport(ViewDay)
	v.Bind(date(2024, 1, 1))
	m := v.Markers()
	m[0] = date(1999, 1, 1)
	if !v.Markers()[0].Equal(date(2024, 1, 1)) {
		t.Fatal("Markers must return a copy")
	}
}

func TestViewportLabel(t *testing.T) {
	v := NewViewport(ViewDay)
	v.Bind(date(2024, 1, 1))
	if got, want := v.Label(), "Jan 01, 2024 - Jan 21, 2024"; got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}
}

// ============================================================
// Connectors
// ============================================================

type mapBoxes map[string]Rect

func (m mapBoxes) Box(id string) (Rect, bool) {
	r, ok := m[id]
	return r, ok
}

type recordingOverlay struct {
	cleared int
	drawn   []Connector
}

func (o *recordingOverlay) Clear() {
	o.cleared++
	o.drawn = nil
}

func (o *recordingOverlay) Draw(c Connector) {
	o.drawn = append(o.drawn, c)
}

func TestDrawConnectorsBothRendered(t *testing.T) {
	boxes := mapBoxes{
		"b": {X: 0, Y: 0, W: 100, H: 16},
		"a": {X: 120, Y: 16, W: 50, H: 16},
	}
	tasks := []Dependent{{ID: "b"}, {ID: "a", DependsOn: []string{"b"}}}
	o := &recordingOverlay{}

	if n := DrawConnectors(tasks, boxes, o); n != 1 {
		t.Fatalf("drawn = %d, want 1", n)
	}
	c := o.drawn[0]
	if c.FromID != "b" || c.ToID != "a" {
		t.Fatalf("direction = %s -> %s", c.FromID, c.ToID)
	}
	if c.From != (Point{X: 100, Y: 8}) {
		t.Errorf("from = %+v, want right-center of b", c.From)
	}
	if c.To != (Point{X: 120, Y: 24}) {
		t.Errorf("to = %+v, want left-center of a", c.To)
	}
	for i, arm := range c.Arms {
		d := math.Hypot(arm.X-c.To.X, arm.Y-c.To.Y)
		if math.Abs(d-ArrowArm) > 1e-9 {
			t.Errorf("arm %d length = %f, want %f", i, d, ArrowArm)
		}
	}
}

func TestDrawConnectorsSkipsMissing(t *testing.T) {
	boxes := mapBoxes{"a": {X: 120, Y: 16, W: 50, H: 16}}
	tasks := []Dependent{{ID: "a", DependsOn: []string{"b", "ghost"}}, {ID: "c", DependsOn: []string{"a"}}}
	o := &recordingOverlay{}
	o.drawn = []Connector{{FromID: "stale"}}

	if n := DrawConnectors(tasks, boxes, o); n != 0 {
		t.Fatalf("drawn = %d, want 0", n)
	}
	if o.cleared != 1 || len(o.drawn) != 0 {
		t.Fatal("overlay must be cleared before drawing")
	}
}

func TestArrowheadHorizontal(t *testing.T) {
	arms := Arrowhead(Point{0, 0}, Point{100, 0}, 10, math.Pi/6)
	for _, a := range arms {
		if a.X >= 100 {
			t.Fatalf("arms must trail the tip, got %+v", a)
		}
		if math.Abs(a.X-(100-10*math.Cos(math.Pi/6))) > 1e-9 {
			t.Fatalf("unexpected arm x %f", a.X)
		}
	}
	if arms[0].Y != -arms[1].Y {
		t.Fatalf("arms should be symmetric: %+v", arms)
	}
}

// ============================================================
// Repaint + notifier
// ============================================================

func TestRepaintCoalesces(t *testing.T) {
	var r Repaint
	if r.Due(0) {
		t.Fatal("zero ticket is never due")
	}
	first := r.Request()
	second := r.Request()
	if r.Due(first) {
		t.Fatal("superseded ticket must not be due")
	}
	if !r.Due(second) {
		t.Fatal("latest ticket must be due")
	}
}

func TestClickNotifier(t *testing.T) {
	var n ClickNotifier
	var got []string
	unsubA := n.Subscribe(func(id string) { got = append(got, "a:"+id) })
	n.Subscribe(func(id string) { got = append(got, "b:"+id) })

	n.Notify("t1")
	if len(got) != 2 || got[0] != "a:t1" || got[1] != "b:t1" {
		t.Fatalf("got %v", got)
	}

	unsubA()
	got = nil
	n.Notify("t2")
	if len(got) != 1 || got[0] != "b:t2" {
		t.Fatalf("after unsubscribe got %v", got)
	}
	if n.Len() != 1 {
		t.Fatalf("Len = %d, want 1", n.Len())
	}
}
