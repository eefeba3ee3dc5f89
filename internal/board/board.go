package board

import (
	"time"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/date"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// CategoryCount holds a count for a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Overview is the aggregate task list overview.
type Overview struct {
	TotalTasks int             `json:"total_tasks"`
	Completed  int             `json:"completed"`
	Overdue    int             `json:"overdue"`
	Priorities []PriorityCount `json:"priorities"`
	Categories []CategoryCount `json:"categories"`
}

// Open returns the number of tasks not yet completed.
func (o Overview) Open() int { return o.TotalTasks - o.Completed }

// Summary computes an overview of tasks. Priorities are listed highest first;
// categories in config order followed by Uncategorized. A task is overdue
// when it is open and its due date parses and lies before now's date.
func Summary(cfg *config.Config, tasks []task.Task, now time.Time) Overview {
	prioMap := make(map[string]int, len(cfg.Todo.Priorities))
	catMap := make(map[string]int, len(cfg.Todo.Categories)+1)

	var o Overview
	for _, t := range tasks {
		o.TotalTasks++
		if t.Completed {
			o.Completed++
		} else if date.Overdue(t.DueDate, now) {
			o.Overdue++
		}
		prioMap[t.Priority]++
		catMap[t.CategoryDisplay()]++
	}

	o.Priorities = make([]PriorityCount, 0, len(cfg.Todo.Priorities))
	for i := len(cfg.Todo.Priorities) - 1; i >= 0; i-- {
		p := cfg.Todo.Priorities[i]
		o.Priorities = append(o.Priorities, PriorityCount{Priority: p, Count: prioMap[p]})
	}

	o.Categories = make([]CategoryCount, 0, len(cfg.Todo.Categories)+1)
	for _, c := range cfg.Todo.Categories {
		o.Categories = append(o.Categories, CategoryCount{Category: c, Count: catMap[c]})
	}
	if n := catMap[task.Uncategorized]; n > 0 {
		o.Categories = append(o.Categories, CategoryCount{Category: task.Uncategorized, Count: n})
	}

	return o
}
