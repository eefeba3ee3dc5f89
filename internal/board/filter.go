package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Completed  *bool    // nil=no filter
	Category   string   // exact match; task.Uncategorized matches the empty category
	Priorities []string // any of
	Search     string   // case-insensitive substring match across title and description
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	var result []task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	if opts.Completed != nil && t.Completed != *opts.Completed {
		return false
	}
	if opts.Category != "" && t.CategoryDisplay() != opts.Category {
		return false
	}
	if len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, t.Priority) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}
