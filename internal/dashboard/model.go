// Package dashboard is a read-only charmbracelet/bubbletea TUI over a
// ProjectState. It never issues intents - it only renders whatever its
// Store last committed, reloading on fsnotify events from the watcher
// in watch.go. Readers see only committed snapshots, same as anything
// else consulting the store outside the façade.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andywolf/orcaspine/internal/state"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleGood     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleBad      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleBorder   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1)
)

// stateMsg is sent by the watcher whenever the store reports a new
// ProjectState (or a read error).
type stateMsg struct {
	state *state.ProjectState
	err   error
}

// Model is the bubbletea model for the dashboard. It holds whatever
// ProjectState it last received and nothing else - no local mutation,
// no intent issuing.
type Model struct {
	projectID string
	state     *state.ProjectState
	err       error
	lastLoad  time.Time
	width     int
	height    int
}

// New builds a Model seeded with the state loaded before the TUI
// starts, so the first frame isn't blank while the watcher spins up.
func New(projectID string, initial *state.ProjectState) Model {
	return Model{projectID: projectID, state: initial, lastLoad: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case stateMsg:
		m.lastLoad = time.Now()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = msg.state
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("orcaspine - %s", m.projectID)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleBad.Render(fmt.Sprintf("reload error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.state == nil {
		b.WriteString(styleSubtle.Render("no project state committed yet"))
		b.WriteString("\n")
		b.WriteString(m.footer())
		return b.String()
	}

	s := m.state
	b.WriteString(styleBorder.Render(fmt.Sprintf("phase: %-24s version: %d", s.Phase, s.Version)))
	b.WriteString("\n\n")

	if s.Goal != "" {
		b.WriteString(fmt.Sprintf("goal: %s\n\n", s.Goal))
	}

	b.WriteString(renderClarifications(s.Clarifications))
	b.WriteString(renderApprovals(s.Approvals))
	b.WriteString(renderExecution(s.Execution))
	b.WriteString(renderDiscussionTail(s.Discussion, 6))

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	return styleSubtle.Render(fmt.Sprintf("last reload %s ago - q to quit", time.Since(m.lastLoad).Round(time.Second)))
}

func renderClarifications(cs []state.ClarificationRecord) string {
	open := 0
	for _, c := range cs {
		if c.Status == state.ClarificationOpen {
			open++
		}
	}
	if open == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d\n\n", styleWarn.Render("open clarifications:"), open)
}

func renderApprovals(as []state.ApprovalRequest) string {
	if len(as) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleWarn.Render("pending approvals:"))
	b.WriteString("\n")
	for _, a := range as {
		b.WriteString(fmt.Sprintf("  %s  %s\n", a.ID, a.Type))
	}
	b.WriteString("\n")
	return b.String()
}

func renderExecution(e *state.ExecutionState) string {
	if e == nil {
		return ""
	}
	sum := e.Summary
	line := fmt.Sprintf("execution: %d total, %s, %s, %d in progress",
		sum.Total,
		styleGood.Render(fmt.Sprintf("%d completed", sum.Completed)),
		styleBad.Render(fmt.Sprintf("%d failed", sum.Failed)),
		sum.InProgress,
	)
	var b strings.Builder
	b.WriteString(line)
	b.WriteString("\n")
	for _, f := range e.Failures {
		b.WriteString(styleBad.Render(fmt.Sprintf("  %s: %s\n", f.TaskID, f.Reason)))
	}
	b.WriteString("\n")
	return b.String()
}

func renderDiscussionTail(entries []state.DiscussionEntry, n int) string {
	if len(entries) == 0 {
		return ""
	}
	start := 0
	if len(entries) > n {
		start = len(entries) - n
	}
	var b strings.Builder
	b.WriteString(styleSubtle.Render("recent activity:"))
	b.WriteString("\n")
	for _, e := range entries[start:] {
		b.WriteString(fmt.Sprintf("  [%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Type, truncate(e.Message, 100)))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
