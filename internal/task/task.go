// Package task defines the task record and the form draft that edits it.
package task

import "strings"

// Priorities, lowest rank first.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Categories. The empty string means uncategorized.
const (
	CategoryWork     = "Work"
	CategoryPersonal = "Personal"
	CategoryStudy    = "Study"
	CategoryHealth   = "Health"
)

// Display placeholders for empty fields. They are never stored.
const (
	NoDueDate     = "N/A"
	Uncategorized = "Uncategorized"
)

// Task is a single entry in the task list.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
}

// Draft is the in-progress form record: a Task minus ID and Completed.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// BlankDraft returns the create-mode template.
func BlankDraft() Draft {
	return Draft{Priority: PriorityMedium}
}

// HasTitle reports whether the draft's title is non-empty after trimming.
func (d Draft) HasTitle() bool {
	return strings.TrimSpace(d.Title) != ""
}

// DraftOf copies the editable fields of t.
func DraftOf(t Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Category:    t.Category,
		Priority:    t.Priority,
	}
}

// Apply returns t with its editable fields replaced by d. ID and Completed
// are left untouched.
func (d Draft) Apply(t Task) Task {
	t.Title = d.Title
	t.Description = d.Description
	t.DueDate = d.DueDate
	t.Category = d.Category
	t.Priority = d.Priority
	return t
}

// DueDisplay returns the due date or the N/A placeholder.
func (t Task) DueDisplay() string {
	if t.DueDate == "" {
		return NoDueDate
	}
	return t.DueDate
}

// CategoryDisplay returns the category or the Uncategorized placeholder.
func (t Task) CategoryDisplay() string {
	if t.Category == "" {
		return Uncategorized
	}
	return t.Category
}
