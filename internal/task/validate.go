package task

import (
	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
)

// ValidatePriority checks that a priority is in the allowed list.
func ValidatePriority(priority string, allowed []string) error {
	for _, p := range allowed {
		if p == priority {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  allowed,
		})
}

// ValidateCategory checks that a category is empty or in the allowed list.
func ValidateCategory(category string, allowed []string) error {
	if category == "" {
		return nil
	}
	for _, c := range allowed {
		if c == category {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidCategory, "invalid category %q", category).
		WithDetails(map[string]any{
			"category": category,
			"allowed":  allowed,
		})
}

// NotFound returns a CLIError for a missing task id.
func NotFound(id string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}
