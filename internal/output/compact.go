package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/board"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/weather"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyTasksMessage)
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders a task summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	line := strconv.Itoa(s.TotalTasks) + " tasks, " + strconv.Itoa(s.Completed) + " done"
	if s.Overdue > 0 {
		line += " (" + strconv.Itoa(s.Overdue) + " overdue)"
	}
	fmt.Fprintln(w, line)

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
	if len(s.Categories) > 0 {
		parts := make([]string, 0, len(s.Categories))
		for _, cc := range s.Categories {
			parts = append(parts, cc.Category+"="+strconv.Itoa(cc.Count))
		}
		fmt.Fprintln(w, "Category: "+strings.Join(parts, " "))
	}
}

// SnapshotCompact renders a weather reading on one line.
func SnapshotCompact(w io.Writer, s *weather.Snapshot) {
	fmt.Fprintf(w, "%s %s %s humidity:%d%%\n", s.Name, s.Temperature(), s.Description, s.Humidity)
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := ShortID(t.ID) + " " + mark + " [" + t.Priority + "] " + t.Title
	if t.Category != "" {
		line += " (" + t.Category + ")"
	}
	if t.DueDate != "" {
		line += " due:" + t.DueDate
	}
	return line
}
