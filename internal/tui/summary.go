package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

type summaryModel struct {
	state  *planner.State
	width  int
	height int

	project *store.Project
	summary planner.Summary
	now     func() time.Time

	chart barchart.Model
}

func newSummaryModel(st *planner.State) summaryModel {
	return summaryModel{
		state: st,
		now:   time.Now,
		chart: barchart.New(60, 12),
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type summaryDataMsg struct {
	project *store.Project
}

func (s summaryModel) refresh() tea.Cmd {
	p := s.state.Current()
	return func() tea.Msg {
		return summaryDataMsg{project: p}
	}
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	if msg, ok := msg.(summaryDataMsg); ok {
		s.project = msg.project
		s.summary = planner.Summarize(msg.project)
		s.buildChart()
	}
	return s, nil
}

// buildChart draws one bar per task, its height the task's progress.
func (s *summaryModel) buildChart() {
	chartWidth := max(s.width-8, 20)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	// Bars are percentages, so the axis always tops out at 100.
	s.chart = barchart.New(chartWidth, chartHeight,
		barchart.WithMaxValue(100),
		barchart.WithNoAutoMaxValue(),
	)
	if s.project == nil {
		return
	}

	var bars []barchart.BarData
	for _, t := range s.project.Tasks {
		bars = append(bars, barchart.BarData{
			Label: truncate(t.Title, 8),
			Values: []barchart.BarValue{{
				Name:  t.Title,
				Value: float64(t.Progress),
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s summaryModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Summary")

	if s.project == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No project selected."),
		))
	}

	p, sum := s.project, s.summary
	now := s.now()

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", rangeLabelStyle.Render(p.Name),
	)

	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s", mutedStyle.Width(18).Render(label), value)
	}
	ends := "ends " + relativeDay(p.End, now)
	if p.End.Before(gantt.Midnight(now)) {
		ends = "ended " + relativeDay(p.End, now)
	}
	stats := []string{
		field("Timeline", fmt.Sprintf("%s - %s  %s", gantt.FormatLong(p.Start), gantt.FormatLong(p.End), mutedStyle.Render("("+ends+")"))),
		field("Duration", formatDays(sum.Days)),
		field("Overall progress", progressBar(sum.Overall, 30)+fmt.Sprintf(" %d%%", sum.Overall)),
		field("Tasks", fmt.Sprintf("%d total  %s  %s  %s",
			sum.Total,
			successStyle.Render(fmt.Sprintf("%d completed", sum.Completed)),
			warningStyle.Render(fmt.Sprintf("%d in progress", sum.InProgress)),
			mutedStyle.Render(fmt.Sprintf("%d not started", sum.NotStarted)),
		)),
	}
	if p.Description != "" {
		stats = append([]string{"  " + p.Description, ""}, stats...)
	}

	body := []string{header, "", strings.Join(stats, "\n"), ""}
	if sum.Total == 0 {
		body = append(body, mutedStyle.Render("  No tasks yet"))
	} else {
		body = append(body, s.chart.View(), "", s.renderLegend())
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (s summaryModel) renderLegend() string {
	var items []string
	for _, t := range s.project.Tasks {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
		items = append(items, fmt.Sprintf("%s %s %d%%", dot, t.Title, t.Progress))
	}
	return "  " + strings.Join(items, "  ")
}
