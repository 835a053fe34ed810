package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/ganttr/internal/gantt"
)

// One terminal cell stands for pxPerCol x pxPerRow timeline pixels. Every
// cell width of the timeline is a multiple of pxPerCol.
const (
	pxPerCol = 8
	pxPerRow = 16
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellText
	cellGrid
	cellBar
)

type cell struct {
	ch   rune
	fg   lipgloss.Color
	bg   lipgloss.Color
	bold bool
	kind cellKind
}

// cellBox is where a bar was actually written, in cells.
type cellBox struct {
	col, row, width int
}

// canvas is one rendered frame of the timeline. It remembers where each bar
// landed so the connector pass can look boxes up after the frame is
// committed, and it holds the connector overlay on top of the cells.
type canvas struct {
	cols, rows int
	cells      [][]cell
	boxes      map[string]cellBox
	rowTask    map[int]string

	overlay    map[[2]int]rune
	connectors []gantt.Connector
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &canvas{
		cols:    cols,
		rows:    rows,
		cells:   make([][]cell, rows),
		boxes:   make(map[string]cellBox),
		rowTask: make(map[int]string),
		overlay: make(map[[2]int]rune),
	}
	for r := range c.cells {
		c.cells[r] = make([]cell, cols)
		for i := range c.cells[r] {
			c.cells[r][i] = cell{ch: ' '}
		}
	}
	return c
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *canvas) set(col, row int, v cell) {
	if c.inside(col, row) {
		c.cells[row][col] = v
	}
}

// text writes s from col, cut at limit columns.
func (c *canvas) text(col, row, limit int, s string, fg lipgloss.Color, bold bool) {
	for i, r := range []rune(s) {
		if i >= limit {
			return
		}
		c.set(col+i, row, cell{ch: r, fg: fg, bold: bold, kind: cellText})
	}
}

// bar paints a task bar and records its box. Cells past the right edge are
// dropped; a bar with nothing left on screen is not recorded.
func (c *canvas) bar(taskID string, col, row, width, filled int, fg lipgloss.Color) {
	if !c.inside(col, row) || width <= 0 {
		return
	}
	width = min(width, c.cols-col)
	for i := 0; i < width; i++ {
		ch := '▒'
		if i < filled {
			ch = '█'
		}
		c.cells[row][col+i] = cell{ch: ch, fg: fg, kind: cellBar}
	}
	c.boxes[taskID] = cellBox{col: col, row: row, width: width}
}

// title writes s over the bar of taskID, one cell in from each end. The cells
// stay bar cells, so connectors still route around them.
func (c *canvas) title(taskID, s string) {
	b, ok := c.boxes[taskID]
	if !ok || b.width < 3 {
		return
	}
	for i, r := range []rune(truncate(s, b.width-2)) {
		cl := &c.cells[b.row][b.col+1+i]
		cl.ch, cl.bg, cl.fg, cl.bold = r, cl.fg, colorOnBar, true
	}
}

// Box implements gantt.BoxLookup in timeline pixels.
func (c *canvas) Box(taskID string) (gantt.Rect, bool) {
	b, ok := c.boxes[taskID]
	if !ok {
		return gantt.Rect{}, false
	}
	return gantt.Rect{
		X: float64(b.col * pxPerCol),
		Y: float64(b.row * pxPerRow),
		W: float64(b.width * pxPerCol),
		H: pxPerRow,
	}, true
}

// Clear implements gantt.Overlay.
func (c *canvas) Clear() {
	c.overlay = make(map[[2]int]rune)
	c.connectors = nil
}

// Draw implements gantt.Overlay. The line is rasterized cell by cell; bar
// and label cells are never overwritten. The tip sits in the cell before the
// dependent bar and points along the connector.
func (c *canvas) Draw(conn gantt.Connector) {
	c.connectors = append(c.connectors, conn)

	x0, y0 := int(conn.From.X)/pxPerCol, int(conn.From.Y)/pxPerRow
	x1, y1 := int(conn.To.X)/pxPerCol-1, int(conn.To.Y)/pxPerRow

	pts := line(x0, y0, x1, y1)
	for i, p := range pts {
		var ch rune
		switch {
		case i == len(pts)-1:
			ch = tipGlyph(conn.Angle())
		default:
			ch = stepGlyph(p, pts[i+1])
		}
		c.plot(p[0], p[1], ch)
	}
}

func (c *canvas) plot(col, row int, ch rune) {
	if !c.inside(col, row) {
		return
	}
	switch c.cells[row][col].kind {
	case cellBar, cellText:
		return
	}
	c.overlay[[2]int{col, row}] = ch
}

// line returns the cells from (x0,y0) to (x1,y1) inclusive.
func line(x0, y0, x1, y1 int) [][2]int {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	var pts [][2]int
	for {
		pts = append(pts, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func stepGlyph(from, to [2]int) rune {
	dx, dy := to[0]-from[0], to[1]-from[1]
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case dx*dy > 0:
		return '╲'
	default:
		return '╱'
	}
}

// tipGlyph picks the arrow glyph closest to angle. Screen y grows downward.
func tipGlyph(angle float64) rune {
	switch {
	case angle > -math.Pi/4 && angle <= math.Pi/4:
		return '▶'
	case angle > math.Pi/4 && angle <= 3*math.Pi/4:
		return '▼'
	case angle > -3*math.Pi/4 && angle <= -math.Pi/4:
		return '▲'
	default:
		return '◀'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type runKey struct {
	fg, bg lipgloss.Color
	bold   bool
}

// lines renders each row, joining cells with the same style into one run.
func (c *canvas) lines() []string {
	out := make([]string, c.rows)
	for r := 0; r < c.rows; r++ {
		var b strings.Builder
		var run []rune
		var cur runKey
		flush := func() {
			if len(run) == 0 {
				return
			}
			style := lipgloss.NewStyle().Bold(cur.bold)
			if cur.fg != "" {
				style = style.Foreground(cur.fg)
			}
			if cur.bg != "" {
				style = style.Background(cur.bg)
			}
			b.WriteString(style.Render(string(run)))
			run = run[:0]
		}
		for col := 0; col < c.cols; col++ {
			cl := c.cells[r][col]
			k := runKey{fg: cl.fg, bg: cl.bg, bold: cl.bold}
			ch := cl.ch
			if m, ok := c.overlay[[2]int{col, r}]; ok {
				ch = m
				k = runKey{fg: colorConnector}
			}
			if k != cur {
				flush()
				cur = k
			}
			run = append(run, ch)
		}
		flush()
		out[r] = b.String()
	}
	return out
}

// plain renders the frame without styles.
func (c *canvas) plain() []string {
	out := make([]string, c.rows)
	for r := 0; r < c.rows; r++ {
		row := make([]rune, c.cols)
		for col := 0; col < c.cols; col++ {
			row[col] = c.cells[r][col].ch
			if m, ok := c.overlay[[2]int{col, r}]; ok {
				row[col] = m
			}
		}
		out[r] = string(row)
	}
	return out
}
