// Package board holds the task list state machine and the read operations
// (ordering, filtering, summaries) layered over it.
package board

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

// State is the complete task list state: the collection, the form draft and
// the edit marker. It is a value; every transition returns a new State and
// leaves its receiver untouched.
type State struct {
	tasks  []task.Task // insertion order, unique IDs
	draft  task.Draft
	editID string // empty when not editing

	newID           func() string
	priorities      []string // lowest rank first
	defaultPriority string
}

// Option configures a new State.
type Option func(*State)

// WithIDFunc overrides the task ID generator.
func WithIDFunc(fn func() string) Option {
	return func(s *State) { s.newID = fn }
}

// WithPriorities sets the priority order, lowest rank first.
func WithPriorities(priorities []string) Option {
	return func(s *State) { s.priorities = slices.Clone(priorities) }
}

// WithDefaultPriority sets the priority of the blank draft.
func WithDefaultPriority(p string) Option {
	return func(s *State) { s.defaultPriority = p }
}

// New returns an empty State with a blank draft.
func New(opts ...Option) State {
	s := State{
		newID:           uuid.NewString,
		priorities:      []string{task.PriorityLow, task.PriorityMedium, task.PriorityHigh},
		defaultPriority: task.PriorityMedium,
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.draft = s.blankDraft()
	return s
}

func (s State) blankDraft() task.Draft {
	d := task.BlankDraft()
	if s.defaultPriority != "" {
		d.Priority = s.defaultPriority
	}
	return d
}

// Draft returns the current form draft.
func (s State) Draft() task.Draft { return s.draft }

// EditID returns the id of the task being edited, or "".
func (s State) EditID() string { return s.editID }

// Editing reports whether a task is being edited.
func (s State) Editing() bool { return s.editID != "" }

// Len returns the number of tasks.
func (s State) Len() int { return len(s.tasks) }

// Tasks returns a copy of the collection in insertion order.
func (s State) Tasks() []task.Task { return slices.Clone(s.tasks) }

// Get returns the task with the given id.
func (s State) Get(id string) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// Priorities returns the configured priority order, lowest first.
func (s State) Priorities() []string { return slices.Clone(s.priorities) }

func (s State) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// Reconfigure swaps in a new priority order and draft default. Existing
// tasks keep their priorities and are ranked by the new order. An unedited
// draft whose priority is no longer offered falls back to the new default.
func (s State) Reconfigure(priorities []string, defaultPriority string) State {
	s.priorities = slices.Clone(priorities)
	if defaultPriority != "" {
		s.defaultPriority = defaultPriority
	}
	if !s.Editing() && !slices.Contains(s.priorities, s.draft.Priority) {
		s.draft.Priority = s.defaultPriority
	}
	return s
}

// SetDraft replaces the form draft.
func (s State) SetDraft(d task.Draft) State {
	s.draft = d
	return s
}

// CancelEdit clears the edit marker and resets the draft.
func (s State) CancelEdit() State {
	s.editID = ""
	s.draft = s.blankDraft()
	return s
}

// AddOrUpdate submits the draft d. A blank title is a silent no-op that keeps
// the draft and the edit marker. Otherwise, in edit mode the edited task's
// editable fields are replaced and the marker cleared; in create mode a new
// task is appended. Either way the draft is reset.
func AddOrUpdate(s State, d task.Draft) State {
	if !d.HasTitle() {
		return s
	}

	if s.editID != "" {
		if i := s.index(s.editID); i >= 0 {
			s.tasks = slices.Clone(s.tasks)
			s.tasks[i] = d.Apply(s.tasks[i])
		}
		s.editID = ""
	} else {
		t := d.Apply(task.Task{ID: s.uniqueID()})
		s.tasks = append(slices.Clone(s.tasks), t)
	}

	s.draft = s.blankDraft()
	return s
}

// uniqueID draws ids until one is not in use.
func (s State) uniqueID() string {
	for {
		id := s.newID()
		if s.index(id) < 0 {
			return id
		}
	}
}

// Remove deletes the task with the given id; absent ids are a no-op.
// Removing the task under edit also leaves edit mode.
func Remove(s State, id string) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	if s.editID == id {
		s = s.CancelEdit()
	}
	return s
}

// BeginEdit enters edit mode for id, discarding any unsaved draft content.
// It fails with TASK_NOT_FOUND, leaving s unchanged, when id is absent.
func BeginEdit(s State, id string) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, task.NotFound(id)
	}
	s.editID = id
	s.draft = task.DraftOf(s.tasks[i])
	return s, nil
}

// ToggleComplete flips the completed flag of id; absent ids are a no-op.
func ToggleComplete(s State, id string) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	s.tasks = slices.Clone(s.tasks)
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s
}

// OrderedView yields every task, highest priority rank first. Equal ranks
// keep insertion order. The ordering is recomputed on each iteration.
func (s State) OrderedView() iter.Seq[task.Task] {
	return func(yield func(task.Task) bool) {
		sorted := slices.Clone(s.tasks)
		SortByPriority(sorted, s.priorities, true)
		for _, t := range sorted {
			if !yield(t) {
				return
			}
		}
	}
}

// Ordered collects OrderedView into a slice.
func (s State) Ordered() []task.Task {
	return slices.Collect(s.OrderedView())
}
