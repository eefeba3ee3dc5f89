package board

import (
	"cmp"
	"slices"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/date"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

const (
	fieldPriority = "priority"
	fieldCategory = "category"
	fieldTitle    = "title"
	fieldDue      = "due"
)

// ValidSortFields returns the accepted --sort values.
func ValidSortFields() []string {
	return []string{fieldPriority, fieldTitle, fieldDue, fieldCategory}
}

// Sort sorts tasks by the given field. Priority and category use the config
// order (not alphabetical). The sort is stable; reverse flips the comparison
// only, so equal elements keep their relative order.
func Sort(tasks []task.Task, field string, reverse bool, cfg *config.Config) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		if reverse {
			a, b = b, a
		}
		return compareTasks(a, b, field, cfg)
	})
}

// SortByPriority orders tasks by rank in priorities (lowest first). Unknown
// priorities rank below every known one. With desc, highest rank comes first.
func SortByPriority(tasks []task.Task, priorities []string, desc bool) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		c := cmp.Compare(config.IndexOf(priorities, a.Priority), config.IndexOf(priorities, b.Priority))
		if desc {
			return -c
		}
		return c
	})
}

func compareTasks(a, b task.Task, field string, cfg *config.Config) int {
	switch field {
	case fieldPriority:
		return cmp.Compare(cfg.PriorityIndex(a.Priority), cfg.PriorityIndex(b.Priority))
	case fieldCategory:
		return compareCategory(a, b, cfg)
	case fieldDue:
		return compareDue(a, b)
	default:
		return cmp.Compare(a.Title, b.Title)
	}
}

// compareCategory sorts uncategorized tasks last.
func compareCategory(a, b task.Task, cfg *config.Config) int {
	ai, bi := cfg.CategoryIndex(a.Category), cfg.CategoryIndex(b.Category)
	switch {
	case ai < 0 && bi < 0:
		return 0
	case ai < 0:
		return 1
	case bi < 0:
		return -1
	}
	return cmp.Compare(ai, bi)
}

// compareDue sorts by parsed due date; missing or unparseable dates sort last.
func compareDue(a, b task.Task) int {
	ad, aerr := date.Parse(a.DueDate)
	bd, berr := date.Parse(b.DueDate)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return 1
	case berr != nil:
		return -1
	}
	return ad.Compare(bd.Time)
}
