package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/board"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/date"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

type todoView int

const (
	todoViewMain todoView = iota
	todoViewConfirmDelete
	todoViewDetail
)

// Focus targets, in tab order.
const (
	focusTitle = iota
	focusDescription
	focusDue
	focusCategory
	focusPriority
	focusList
	focusCount
)

const (
	submitCreateLabel = "Add Task"
	submitEditLabel   = "Update Task"

	defaultDetailWidth = 72
)

// Todo is the task list app: an entry form above the priority-ordered list.
type Todo struct {
	cfg    *config.Config
	state  board.State
	inputs [focusCategory]textinput.Model
	focus  int
	cursor int
	view   todoView
	width  int
	err    error
	log    *slog.Logger

	deleteID    string
	deleteTitle string

	detailID      string
	markdownStyle string
	renderer      *glamour.TermRenderer
	rendererWidth int
}

// TodoOption configures a Todo.
type TodoOption func(*Todo)

// WithTodoLogger sets the logger for task mutations.
func WithTodoLogger(l *slog.Logger) TodoOption {
	return func(t *Todo) { t.log = l }
}

// WithMarkdownStyle selects the glamour style for the detail pane.
func WithMarkdownStyle(style string) TodoOption {
	return func(t *Todo) { t.markdownStyle = style }
}

// WithBoardOptions passes options through to the task state.
func WithBoardOptions(opts ...board.Option) TodoOption {
	return func(t *Todo) {
		t.state = board.New(append(t.boardDefaults(), opts...)...)
	}
}

// NewTodo creates an empty task list.
func NewTodo(cfg *config.Config, opts ...TodoOption) *Todo {
	t := &Todo{
		cfg:           cfg,
		log:           slog.New(slog.DiscardHandler),
		markdownStyle: styles.DarkStyle,
	}
	t.state = board.New(t.boardDefaults()...)
	for _, opt := range opts {
		opt(t)
	}

	placeholders := [...]string{"What needs doing?", "Details (markdown)", "YYYY-MM-DD"}
	for i := range t.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 256
		in.Width = 48
		in.Prompt = ""
		t.inputs[i] = in
	}
	t.setFocus(focusTitle)
	t.loadDraft()
	return t
}

func (t *Todo) boardDefaults() []board.Option {
	return []board.Option{
		board.WithPriorities(t.cfg.Todo.Priorities),
		board.WithDefaultPriority(t.cfg.Todo.DefaultPriority),
	}
}

// State returns the current task state.
func (t *Todo) State() board.State {
	return t.state
}

// Init implements tea.Model.
func (t *Todo) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (t *Todo) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return t.handleKey(msg)
	case tea.WindowSizeMsg:
		t.width = msg.Width
		return t, nil
	case ReloadMsg:
		if msg.Config != nil {
			t.cfg = msg.Config
			t.state = t.state.Reconfigure(msg.Config.Todo.Priorities, msg.Config.Todo.DefaultPriority)
			SetAccent(msg.Config.TUI.Accent)
			t.log.Info("config reloaded")
		}
		return t, nil
	case errMsg:
		t.err = msg.err
		return t, nil
	}
	return t, t.updateInput(msg)
}

func (t *Todo) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return t, tea.Quit
	}

	switch t.view {
	case todoViewConfirmDelete:
		return t.handleDeleteKey(msg)
	case todoViewDetail:
		return t.handleDetailKey(msg)
	}

	switch msg.String() {
	case "tab":
		t.setFocus((t.focus + 1) % focusCount)
		return t, nil
	case "shift+tab":
		t.setFocus((t.focus + focusCount - 1) % focusCount)
		return t, nil
	}

	if t.focus == focusList {
		return t.handleListKey(msg)
	}
	return t.handleFormKey(msg)
}

func (t *Todo) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		t.submit()
		return t, nil
	case keyEsc:
		if t.state.Editing() {
			t.state = t.state.CancelEdit()
			t.loadDraft()
		}
		t.setFocus(focusList)
		return t, nil
	case "up":
		if t.focus > focusTitle {
			t.setFocus(t.focus - 1)
		}
		return t, nil
	case "down":
		t.setFocus(t.focus + 1)
		return t, nil
	}

	if t.focus == focusCategory || t.focus == focusPriority {
		step := 0
		switch msg.String() {
		case "right", "l", " ":
			step = 1
		case "left", "h":
			step = -1
		}
		if step != 0 {
			d := t.state.Draft()
			if t.focus == focusCategory {
				d.Category = cycle(t.categoryOptions(), d.Category, step)
			} else {
				d.Priority = cycle(t.cfg.Todo.Priorities, d.Priority, step)
			}
			t.state = t.state.SetDraft(d)
		}
		return t, nil
	}

	return t, t.updateInput(msg)
}

func (t *Todo) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return t, tea.Quit
	case "j", "down":
		if t.cursor < t.state.Len()-1 {
			t.cursor++
		}
	case "k", "up":
		if t.cursor > 0 {
			t.cursor--
		}
	case " ", "x":
		if tk, ok := t.selected(); ok {
			t.state = board.ToggleComplete(t.state, tk.ID)
			t.log.Info("task toggled", "id", tk.ID, "completed", !tk.Completed)
		}
	case "e", keyEnter:
		if tk, ok := t.selected(); ok {
			t.beginEdit(tk.ID)
		}
	case "d", "delete":
		if tk, ok := t.selected(); ok {
			t.deleteID = tk.ID
			t.deleteTitle = tk.Title
			t.view = todoViewConfirmDelete
		}
	case "v", "o":
		if tk, ok := t.selected(); ok {
			t.detailID = tk.ID
			t.view = todoViewDetail
		}
	case "a", "n", "i":
		t.setFocus(focusTitle)
	}
	return t, nil
}

func (t *Todo) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		wasEditing := t.state.EditID() == t.deleteID
		t.state = board.Remove(t.state, t.deleteID)
		t.log.Info("task removed", "id", t.deleteID)
		if wasEditing {
			t.loadDraft()
		}
		t.cursor = min(t.cursor, max(t.state.Len()-1, 0))
		t.view = todoViewMain
	case "n", "N", keyEsc, "q":
		t.view = todoViewMain
	}
	return t, nil
}

func (t *Todo) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "v", "o":
		t.view = todoViewMain
	case "e":
		t.view = todoViewMain
		t.beginEdit(t.detailID)
	}
	return t, nil
}

func (t *Todo) submit() {
	editID := t.state.EditID()
	before := t.state.Len()
	t.state = board.AddOrUpdate(t.state, t.state.Draft())

	switch {
	case editID != "" && !t.state.Editing():
		t.log.Info("task updated", "id", editID)
	case t.state.Len() > before:
		tasks := t.state.Tasks()
		t.log.Info("task added", "id", tasks[len(tasks)-1].ID)
	default:
		return
	}
	t.err = nil
	t.loadDraft()
	t.setFocus(focusTitle)
}

func (t *Todo) beginEdit(id string) {
	s, err := board.BeginEdit(t.state, id)
	if err != nil {
		t.err = err
		return
	}
	t.state = s
	t.loadDraft()
	t.setFocus(focusTitle)
}

func (t *Todo) selected() (task.Task, bool) {
	ordered := t.state.Ordered()
	if t.cursor < 0 || t.cursor >= len(ordered) {
		return task.Task{}, false
	}
	return ordered[t.cursor], true
}

func (t *Todo) categoryOptions() []string {
	return append([]string{""}, t.cfg.Todo.Categories...)
}

// loadDraft copies the draft into the text inputs.
func (t *Todo) loadDraft() {
	d := t.state.Draft()
	t.inputs[focusTitle].SetValue(d.Title)
	t.inputs[focusDescription].SetValue(d.Description)
	t.inputs[focusDue].SetValue(d.DueDate)
}

func (t *Todo) updateInput(msg tea.Msg) tea.Cmd {
	if t.focus >= len(t.inputs) {
		return nil
	}
	var cmd tea.Cmd
	t.inputs[t.focus], cmd = t.inputs[t.focus].Update(msg)

	d := t.state.Draft()
	d.Title = t.inputs[focusTitle].Value()
	d.Description = t.inputs[focusDescription].Value()
	d.DueDate = strings.TrimSpace(t.inputs[focusDue].Value())
	t.state = t.state.SetDraft(d)
	return cmd
}

func (t *Todo) setFocus(f int) {
	t.focus = min(max(f, 0), focusCount-1)
	for i := range t.inputs {
		if i == t.focus {
			t.inputs[i].Focus()
		} else {
			t.inputs[i].Blur()
		}
	}
}

// --- View rendering ---

// View implements tea.Model.
func (t *Todo) View() string {
	switch t.view {
	case todoViewConfirmDelete:
		return t.viewDeleteConfirm()
	case todoViewDetail:
		return t.viewDetail()
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Todo List") + "\n\n")
	s.WriteString(t.viewForm() + "\n")
	s.WriteString(t.viewList() + "\n")
	s.WriteString(t.renderStatusBar())
	return s.String()
}

func (t *Todo) viewForm() string {
	d := t.state.Draft()
	label := func(f int, name string) string {
		name = fmt.Sprintf("%-12s", name)
		if t.focus == f {
			return focusedStyle.Render(name)
		}
		return dimStyle.Render(name)
	}
	picker := func(f int, value string) string {
		if t.focus == f {
			return focusedStyle.Render("< " + value + " >")
		}
		return "  " + value
	}

	category := d.Category
	if category == "" {
		category = task.Uncategorized
	}

	var s strings.Builder
	s.WriteString(label(focusTitle, "Title") + t.inputs[focusTitle].View() + "\n")
	s.WriteString(label(focusDescription, "Description") + t.inputs[focusDescription].View() + "\n")
	s.WriteString(label(focusDue, "Due date") + t.inputs[focusDue].View() + "\n")
	s.WriteString(label(focusCategory, "Category") + picker(focusCategory, category) + "\n")
	s.WriteString(label(focusPriority, "Priority") + picker(focusPriority, priorityStyle(d.Priority).Render(d.Priority)) + "\n")

	submit := submitCreateLabel
	if t.state.Editing() {
		submit = submitEditLabel
	}
	s.WriteString("\n" + focusedStyle.Render("[ "+submit+" ]") + dimStyle.Render("  enter"))
	if t.state.Editing() {
		s.WriteString(dimStyle.Render("   esc: cancel edit"))
	}
	s.WriteString("\n")
	return s.String()
}

func (t *Todo) viewList() string {
	ordered := t.state.Ordered()
	if len(ordered) == 0 {
		return dimStyle.Render("No tasks yet. Start creating your productive day!") + "\n"
	}

	width := t.width
	if width <= 0 {
		width = defaultDetailWidth
	}

	var s strings.Builder
	for i, tk := range ordered {
		cursor := "  "
		if t.focus == focusList && i == t.cursor {
			cursor = focusedStyle.Render("> ")
		}
		check := "[ ]"
		title := tk.Title
		if tk.Completed {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		due := dimStyle.Render("due " + tk.DueDisplay())
		if !tk.Completed && date.Overdue(tk.DueDate, time.Now()) {
			due = errorStyle.Render("due " + tk.DueDisplay() + " (overdue)")
		}
		meta := dimStyle.Render("  "+tk.CategoryDisplay()+" · ") + due
		row := cursor + check + " " + priorityStyle(tk.Priority).Render(fmt.Sprintf("%-6s", tk.Priority)) + " " + title + meta
		row = truncate(row, width)
		if tk.ID == t.state.EditID() {
			row = editingRowStyle.Render(row)
		}
		s.WriteString(row + "\n")
	}
	return s.String()
}

func (t *Todo) renderStatusBar() string {
	var status string
	if t.focus == focusList {
		status = "j/k:move space:done e:edit d:del v:view a:add tab:form q:quit"
	} else {
		status = "tab:next field ←/→:pick enter:submit esc:list"
	}
	status = fmt.Sprintf(" %d tasks | %s", t.state.Len(), status)
	if t.width > 0 {
		status = truncate(status, t.width)
	}

	if t.err != nil {
		return errorStyle.Render("Error: "+t.err.Error()) + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (t *Todo) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		"  " + t.deleteTitle + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

func (t *Todo) viewDetail() string {
	tk, ok := t.state.Get(t.detailID)
	if !ok {
		return dimStyle.Render("task no longer exists (esc to go back)")
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(tk.Title) + "\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s · due %s", tk.Priority, tk.CategoryDisplay(), tk.DueDisplay())) + "\n")
	if tk.Description != "" {
		s.WriteString(t.renderMarkdown(tk.Description))
	} else {
		s.WriteString("\n" + dimStyle.Render("(no description)") + "\n")
	}
	s.WriteString("\n" + statusBarStyle.Render("e:edit esc:back"))
	return s.String()
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func (t *Todo) renderMarkdown(md string) string {
	width := t.width
	if width <= 0 {
		width = defaultDetailWidth
	}
	if t.renderer == nil || t.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(t.markdownStyle),
			glamour.WithWordWrap(width-4), //nolint:mnd // glamour margins
		)
		if err != nil {
			t.log.Warn("markdown renderer", "error", err)
			return "\n" + md + "\n"
		}
		t.renderer, t.rendererWidth = r, width
	}
	out, err := t.renderer.Render(md)
	if err != nil {
		return "\n" + md + "\n"
	}
	return out
}
