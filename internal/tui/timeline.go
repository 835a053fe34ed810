package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

const (
	labelCols   = 22 // task title column
	headerRows  = 1  // marker labels
	rowsPerTask = 2  // bar row plus a row for assignees and connectors
)

type timelineModel struct {
	state  *planner.State
	clicks *gantt.ClickNotifier
	zones  *zone.Manager
	log    *zap.Logger
	width  int
	height int

	viewport    gantt.Viewport
	boundID     string // project the viewport is bound to
	repaint     *gantt.Repaint
	pending     gantt.Ticket
	redrawDelay time.Duration
	frame       *canvas

	cursor int
	scroll int

	formActive bool
	form       *huh.Form
	fields     taskFields
}

func newTimelineModel(st *planner.State, clicks *gantt.ClickNotifier, zones *zone.Manager, log *zap.Logger) timelineModel {
	return timelineModel{
		state:       st,
		clicks:      clicks,
		zones:       zones,
		log:         log,
		viewport:    gantt.NewViewport(gantt.ViewWeek),
		repaint:     &gantt.Repaint{},
		redrawDelay: gantt.DefaultRedrawDelay,
		fields:      newTaskFields(),
	}
}

func (t *timelineModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

// apply changes the zoom level and redraw delay.
func (t *timelineModel) apply(mode gantt.ViewMode, delay time.Duration) {
	t.viewport.SetMode(mode)
	if delay >= 0 {
		t.redrawDelay = delay
	}
}

// sync binds the viewport to the active project when it changed.
func (t *timelineModel) sync() {
	p := t.state.Current()
	switch {
	case p == nil:
		if t.viewport.Active() {
			t.viewport.Unbind()
		}
		t.boundID = ""
		t.cursor, t.scroll = 0, 0
		return
	case p.ID != t.boundID:
		t.viewport.Bind(p.Start)
		t.boundID = p.ID
		t.cursor, t.scroll = 0, 0
	}
	if t.cursor >= len(p.Tasks) {
		t.cursor = max(0, len(p.Tasks)-1)
	}
	t.ensureVisible()
}

// relayout commits a new frame with an empty overlay and schedules the
// connector pass. Only the newest scheduled pass runs.
func (t *timelineModel) relayout() tea.Cmd {
	t.sync()
	t.frame = t.buildFrame()
	t.pending = t.repaint.Request()

	ticket := t.pending
	return tea.Tick(t.redrawDelay, func(time.Time) tea.Msg {
		return redrawMsg{ticket: ticket}
	})
}

// relaid returns a copy of t with a fresh frame, and the scheduled pass.
func (t timelineModel) relaid() (timelineModel, tea.Cmd) {
	cmd := t.relayout()
	return t, cmd
}

// drawConnectors runs the connector pass against the committed frame.
func (t *timelineModel) drawConnectors() int {
	p := t.state.Current()
	if p == nil || t.frame == nil {
		return 0
	}
	rows := make([]gantt.Dependent, len(p.Tasks))
	for i, task := range p.Tasks {
		rows[i] = gantt.Dependent{ID: task.ID, DependsOn: task.DependsOn}
	}
	n := gantt.DrawConnectors(rows, t.frame, t.frame)
	t.log.Debug("connectors drawn", zap.Int("count", n), zap.Uint64("ticket", uint64(t.pending)))
	return n
}

func (t timelineModel) canvasRows() int {
	return max(t.height-2, 0) // header line and blank line
}

func (t timelineModel) visibleTasks() int {
	return max((t.canvasRows()-headerRows)/rowsPerTask, 1)
}

func (t *timelineModel) ensureVisible() {
	if t.cursor < t.scroll {
		t.scroll = t.cursor
	}
	if n := t.visibleTasks(); t.cursor >= t.scroll+n {
		t.scroll = t.cursor - n + 1
	}
}

// buildFrame lays out the grid and bars. Bars scrolled out of view or cut off
// by the right edge get no box, so the connector pass skips them.
func (t timelineModel) buildFrame() *canvas {
	c := newCanvas(t.width, t.canvasRows())
	p := t.state.Current()
	if p == nil || !t.viewport.Active() || c.rows == 0 {
		return c
	}

	markers := t.viewport.Markers()
	cw := t.viewport.CellWidth()
	cwCols := cw / pxPerCol
	mode := t.viewport.Mode()

	users, err := t.state.Users()
	if err != nil {
		t.log.Warn("list users failed", zap.Error(err))
	}

	c.text(2, 0, labelCols-3, "Task", colorMuted, true)
	for i, m := range markers {
		c.text(labelCols+i*cwCols, 0, cwCols-1, markerLabel(m, mode), colorMuted, false)
	}

	end := min(len(p.Tasks), t.scroll+t.visibleTasks())
	for i := t.scroll; i < end; i++ {
		task := p.Tasks[i]
		row := headerRows + (i-t.scroll)*rowsPerTask
		c.rowTask[row] = task.ID

		for j := range markers {
			c.set(labelCols+j*cwCols, row, cell{ch: '┊', fg: colorGrid, kind: cellGrid})
		}

		prefix, fg, bold := "  ", colorFg, false
		if i == t.cursor {
			prefix, fg, bold = "> ", colorPrimary, true
		}
		c.text(0, row, labelCols-1, prefix+truncate(task.Title, labelCols-3), fg, bold)
		c.text(2, row+1, labelCols-3, assigneeLine(users, task.Assignees), colorMuted, false)

		bar := gantt.Layout(gantt.Range{Start: task.Start, End: task.End}, markers, cw)
		if !bar.Visible {
			continue
		}
		width := bar.Width / pxPerCol
		c.bar(task.ID, labelCols+bar.Offset/pxPerCol, row, width,
			gantt.ProgressWidth(width, task.Progress), lipgloss.Color(task.Color))
		if bar.Span > cw {
			c.title(task.ID, task.Title)
		}
	}
	return c
}

// assigneeLine names the assignees that still exist, or "Unassigned".
func assigneeLine(users []store.User, ids []string) string {
	names := planner.Names(users, ids)
	if len(names) == 0 {
		return "Unassigned"
	}
	return truncate(strings.Join(names, ", "), labelCols-3)
}

func markerLabel(m time.Time, mode gantt.ViewMode) string {
	if mode == gantt.ViewDay {
		return m.Format("02")
	}
	return gantt.FormatShort(m)
}

func taskZone(id string) string {
	return "task-" + id
}

func (t timelineModel) cursorTask() *store.Task {
	p := t.state.Current()
	if p == nil || t.cursor < 0 || t.cursor >= len(p.Tasks) {
		return nil
	}
	return &p.Tasks[t.cursor]
}

// click reports a task row click to every subscriber.
func (t timelineModel) click(id string) tea.Cmd {
	t.clicks.Notify(id)
	return func() tea.Msg { return taskSelectedMsg{id: id} }
}

func (t timelineModel) update(msg tea.Msg) (timelineModel, tea.Cmd) {
	if msg, ok := msg.(redrawMsg); ok {
		if t.repaint.Due(msg.ticket) {
			t.drawConnectors()
		}
		return t, nil
	}

	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return t.updateMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Previous):
			t.viewport.Previous()
			return t.relaid()
		case key.Matches(msg, keys.Next):
			t.viewport.Next()
			return t.relaid()
		case key.Matches(msg, keys.Reset):
			t.viewport.Reset()
			return t.relaid()
		case key.Matches(msg, keys.Mode):
			t.viewport.CycleMode()
			return t.relaid()
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
			return t.relaid()
		case key.Matches(msg, keys.Down):
			if p := t.state.Current(); p != nil && t.cursor < len(p.Tasks)-1 {
				t.cursor++
			}
			return t.relaid()
		case key.Matches(msg, keys.Enter):
			if task := t.cursorTask(); task != nil {
				return t, t.click(task.ID)
			}
		case key.Matches(msg, keys.New):
			return t.showNewTaskForm()
		}
	}
	return t, nil
}

func (t timelineModel) updateMouse(msg tea.MouseMsg) (timelineModel, tea.Cmd) {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if t.scroll > 0 {
				t.scroll--
				t.cursor = min(t.cursor, t.scroll+t.visibleTasks()-1)
				return t.relaid()
			}
			return t, nil
		case tea.MouseButtonWheelDown:
			if p := t.state.Current(); p != nil && t.scroll+t.visibleTasks() < len(p.Tasks) {
				t.scroll++
				t.cursor = max(t.cursor, t.scroll)
				return t.relaid()
			}
			return t, nil
		}
	}

	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft || t.zones == nil {
		return t, nil
	}
	p := t.state.Current()
	if p == nil {
		return t, nil
	}
	for i, task := range p.Tasks {
		if z := t.zones.Get(taskZone(task.ID)); z != nil && z.InBounds(msg) {
			t.cursor = i
			var cmd tea.Cmd
			t, cmd = t.relaid()
			return t, tea.Batch(cmd, t.click(task.ID))
		}
	}
	return t, nil
}

func (t timelineModel) showNewTaskForm() (timelineModel, tea.Cmd) {
	p := t.state.Current()
	if p == nil {
		return t, statusCmd("Select a project first (press 2)", true)
	}
	users, err := t.state.Users()
	if err != nil {
		return t, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	end := p.Start.AddDate(0, 0, 6)
	if end.After(p.End) {
		end = p.End
	}
	t.fields.fill(store.Task{
		Start: p.Start,
		End:   end,
		Color: planner.TaskColors[len(p.Tasks)%len(planner.TaskColors)],
	})
	t.form = t.fields.form(p.Tasks, users)
	t.formActive = true
	return t, t.form.Init()
}

func (t timelineModel) updateForm(msg tea.Msg) (timelineModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil

		task, err := t.fields.task()
		if err == nil {
			_, err = t.state.AddTask(task)
		}
		if err != nil {
			t.log.Warn("add task failed", zap.Error(err))
			return t, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return t, tea.Batch(statusCmd("Task added", false), dataChanged)
	}

	return t, cmd
}

func (t timelineModel) view() string {
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		return panelStyle.Width(t.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()),
		)
	}

	p := t.state.Current()
	if p == nil {
		return panelStyle.Width(t.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Timeline"),
			"",
			mutedStyle.Render("No project selected. Press 2 to pick or create one."),
		))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(p.Name), "  ",
		rangeLabelStyle.Render(t.viewport.Label()), "  ",
		modeBadgeStyle.Render(t.viewport.Mode().String()),
	)
	if len(p.Tasks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			mutedStyle.Render("  No tasks yet. Press n to add one."))
	}
	if t.frame == nil {
		return header
	}

	lines := t.frame.lines()
	if t.zones != nil {
		for row, id := range t.frame.rowTask {
			if row < len(lines) {
				lines[row] = t.zones.Mark(taskZone(id), lines[row])
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n"))
}
