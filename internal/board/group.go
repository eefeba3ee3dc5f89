package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

// Group is one bucket of a grouped view.
type Group struct {
	Key   string      `json:"key"`
	Tasks []task.Task `json:"tasks"`
}

// GroupBy groups tasks by category or priority. Priority groups are ordered
// highest first; category groups in config order with Uncategorized last.
// Task order within a group is preserved.
func GroupBy(tasks []task.Task, field string, cfg *config.Config) []Group {
	groups := make(map[string][]task.Task)
	for _, t := range tasks {
		key := extractGroupKey(t, field)
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sortGroupKeys(keys, field, cfg)

	result := make([]Group, 0, len(keys))
	for _, k := range keys {
		result = append(result, Group{Key: k, Tasks: groups[k]})
	}
	return result
}

func extractGroupKey(t task.Task, field string) string {
	switch field {
	case fieldPriority:
		return t.Priority
	case fieldCategory:
		return t.CategoryDisplay()
	default:
		return "(all)"
	}
}

func sortGroupKeys(keys []string, field string, cfg *config.Config) {
	switch field {
	case fieldPriority:
		sort.SliceStable(keys, func(i, j int) bool {
			return cfg.PriorityIndex(keys[i]) > cfg.PriorityIndex(keys[j])
		})
	case fieldCategory:
		sort.SliceStable(keys, func(i, j int) bool {
			return categoryRank(cfg, keys[i]) < categoryRank(cfg, keys[j])
		})
	default:
		sort.Strings(keys)
	}
}

func categoryRank(cfg *config.Config, key string) int {
	if i := cfg.CategoryIndex(key); i >= 0 {
		return i
	}
	return len(cfg.Todo.Categories)
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldCategory, fieldPriority}
}
