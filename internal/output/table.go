package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/board"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/weather"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))

	// Priority colors matching the TUI palette.
	priorityStyles = map[string]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
	categoryStyle = lipgloss.NewStyle()
}

// ShortID is the display form of a task id.
func ShortID(id string) string {
	const n = 8
	if len(id) > n {
		return id[:n]
	}
	return id
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render(EmptyTasksMessage))
		return
	}

	const pad = 2
	idW, doneW, prioW, titleW, catW := 4, 6, 10, 5, 10
	for _, t := range tasks {
		idW = max(idW, len(ShortID(t.ID))+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		catW = max(catW, len(t.CategoryDisplay())+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", doneW, "DONE", prioW, "PRIORITY", titleW, "TITLE", catW, "CATEGORY", "DUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		done := "[ ]"
		if t.Completed {
			done = "[x]"
			title = doneStyle.Render(title)
		}
		cat := categoryStyle.Render(t.CategoryDisplay())
		if t.Category == "" {
			cat = dimStyle.Render(task.Uncategorized)
		}
		due := t.DueDisplay()
		if t.DueDate == "" {
			due = dimStyle.Render(due)
		}

		row := fmt.Sprintf("%-*s %-*s %s %s %s %s",
			idW, ShortID(t.ID),
			doneW, done,
			padRight(styledValue(t.Priority, priorityStyles), prioW),
			padRight(title, titleW),
			padRight(cat, catW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// EmptyTasksMessage is shown for an empty task list.
const EmptyTasksMessage = "No tasks yet. Start creating your productive day!"

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t task.Task) {
	titleLine := "Task " + ShortID(t.ID) + ": " + t.Title
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Priority", styledValue(t.Priority, priorityStyles))
	printField(w, "Category", t.CategoryDisplay())
	printField(w, "Due", t.DueDisplay())
	printField(w, "Completed", strconv.FormatBool(t.Completed))

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Description)
	}
}

// OverviewTable renders a task summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "Total: %d tasks (%d open, %d completed, %d overdue)\n\n",
		s.TotalTasks, s.Open(), s.Completed, s.Overdue)

	const colW = 16
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(pc.Priority, priorityStyles), colW), pc.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "CATEGORY", "COUNT")))
	for _, cc := range s.Categories {
		fmt.Fprintf(w, "%-*s %6d\n", colW, cc.Category, cc.Count)
	}
}

// GroupedTable renders tasks bucketed by a field.
func GroupedTable(w io.Writer, groups []board.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, dimStyle.Render(EmptyTasksMessage))
		return
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks)", g.Key, len(g.Tasks))
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
		for _, t := range g.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(t))
		}
	}
}

// SnapshotTable renders a weather reading.
func SnapshotTable(w io.Writer, s *weather.Snapshot) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.Name))
	printField(w, "Temperature", s.Temperature())
	printField(w, "Conditions", s.Title())
	printField(w, "Humidity", strconv.Itoa(s.Humidity)+"%")
	printField(w, "Icon", dimStyle.Render(s.IconURL()))
}

// CalcLine renders an evaluation as "expr = result".
func CalcLine(w io.Writer, expr, result string) {
	fmt.Fprintln(w, dimStyle.Render(expr+" =")+" "+lipgloss.NewStyle().Bold(true).Render(result))
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
