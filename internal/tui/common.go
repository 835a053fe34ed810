package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/ganttr/internal/gantt"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimeline viewState = iota
	viewProjects
	viewSummary
	viewUsers
	viewSettings
)

var viewNames = []string{"Timeline", "Projects", "Summary", "Users", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// redrawMsg asks the timeline to run the connector pass for ticket.
type redrawMsg struct {
	ticket gantt.Ticket
}

type taskSelectedMsg struct {
	id string
}

type projectSelectedMsg struct{}

// dataChangedMsg is sent after any command that changed tasks or users.
type dataChangedMsg struct{}

type settingsChangedMsg struct {
	mode  gantt.ViewMode
	delay time.Duration
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// --- Helpers ---

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// relativeDay describes t relative to now, e.g. "3 weeks from now".
func relativeDay(t, now time.Time) string {
	if gantt.Midnight(t).Equal(gantt.Midnight(now)) {
		return "today"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func formatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%s days", humanize.Comma(int64(n)))
}
