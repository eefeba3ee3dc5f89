package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/board"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

var todoCmd = &cobra.Command{
	Use:     "todo",
	Aliases: []string{"tasks"},
	Short:   "Open the task list",
	Long: `Opens the interactive task list. Tasks live in memory for the session.

With --print the tasks left at exit are written to stdout, optionally
filtered, sorted, grouped or summarised.`,
	Example: `  pocketdesk todo --print
  pocketdesk todo --print --open --sort due
  pocketdesk todo --print --group-by category --json`,
	Args: cobra.NoArgs,
	RunE: runTodo,
}

func init() {
	f := todoCmd.Flags()
	f.Bool("print", false, "print the tasks on exit")
	f.Bool("detail", false, "print descriptions too (with --print)")
	f.Bool("summary", false, "print counts instead of tasks (with --print)")
	f.String("sort", "", "sort by: "+strings.Join(board.ValidSortFields(), ", "))
	f.BoolP("reverse", "r", false, "reverse sort order")
	f.String("group-by", "", "group by: "+strings.Join(board.ValidGroupByFields(), ", "))
	f.StringSlice("priority", nil, "only these priorities (comma-separated)")
	f.String("category", "", "only this category ("+task.Uncategorized+" matches none)")
	f.StringP("search", "s", "", "case-insensitive text search")
	f.Bool("open", false, "only open tasks")
	f.Bool("done", false, "only completed tasks")
	todoCmd.MarkFlagsMutuallyExclusive("open", "done")
	todoCmd.MarkFlagsMutuallyExclusive("summary", "group-by")
	rootCmd.AddCommand(todoCmd)
}

// printOptions controls what runTodo writes after the list closes.
type printOptions struct {
	filter  board.FilterOptions
	sort    string
	reverse bool
	groupBy string
	summary bool
	detail  bool
}

func runTodo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(cfg)
	defer closeLog() //nolint:errcheck // best-effort log flush
	if err != nil {
		return err
	}

	printOnExit, _ := cmd.Flags().GetBool("print")
	var opts printOptions
	if printOnExit {
		if opts, err = parsePrintOptions(cmd, cfg); err != nil {
			return err
		}
	}

	model, err := runTodoTUI(cmd.Context(), cfg, log)
	if err != nil || !printOnExit {
		return err
	}
	return printTasks(cmd.OutOrStdout(), cfg, model.State().Ordered(), opts, time.Now())
}

func parsePrintOptions(cmd *cobra.Command, cfg *config.Config) (printOptions, error) {
	var opts printOptions
	f := cmd.Flags()
	opts.detail, _ = f.GetBool("detail")
	opts.summary, _ = f.GetBool("summary")
	opts.reverse, _ = f.GetBool("reverse")

	opts.sort, _ = f.GetString("sort")
	if opts.sort != "" && !slices.Contains(board.ValidSortFields(), opts.sort) {
		return opts, clierr.Newf(clierr.InvalidInput, "invalid sort field %q", opts.sort).
			WithDetails(map[string]any{"allowed": board.ValidSortFields()})
	}
	opts.groupBy, _ = f.GetString("group-by")
	if opts.groupBy != "" && !slices.Contains(board.ValidGroupByFields(), opts.groupBy) {
		return opts, clierr.Newf(clierr.InvalidInput, "invalid group-by field %q", opts.groupBy).
			WithDetails(map[string]any{"allowed": board.ValidGroupByFields()})
	}

	priorities, _ := f.GetStringSlice("priority")
	for _, p := range priorities {
		if err := task.ValidatePriority(p, cfg.Todo.Priorities); err != nil {
			return opts, err
		}
	}
	opts.filter.Priorities = priorities

	category, _ := f.GetString("category")
	if category != task.Uncategorized {
		if err := task.ValidateCategory(category, cfg.Todo.Categories); err != nil {
			return opts, err
		}
	}
	opts.filter.Category = category
	opts.filter.Search, _ = f.GetString("search")

	if open, _ := f.GetBool("open"); open {
		completed := false
		opts.filter.Completed = &completed
	}
	if done, _ := f.GetBool("done"); done {
		completed := true
		opts.filter.Completed = &completed
	}
	return opts, nil
}

// printTasks writes tasks (already in display order) per opts and the
// selected output format.
func printTasks(w io.Writer, cfg *config.Config, tasks []task.Task, opts printOptions, now time.Time) error {
	tasks = board.Filter(tasks, opts.filter)
	if opts.sort != "" {
		board.Sort(tasks, opts.sort, opts.reverse, cfg)
	} else if opts.reverse {
		slices.Reverse(tasks)
	}
	format := outputFormat()

	switch {
	case opts.summary:
		s := board.Summary(cfg, tasks, now)
		switch format {
		case output.FormatJSON:
			return output.JSON(w, s)
		case output.FormatCompact:
			output.OverviewCompact(w, s)
		default:
			output.OverviewTable(w, s)
		}

	case opts.groupBy != "":
		groups := board.GroupBy(tasks, opts.groupBy, cfg)
		if format == output.FormatJSON {
			return output.JSON(w, groups)
		}
		output.GroupedTable(w, groups)

	case opts.detail:
		if format == output.FormatJSON {
			return output.JSON(w, nonNil(tasks))
		}
		if len(tasks) == 0 {
			fmt.Fprintln(w, output.EmptyTasksMessage)
		}
		for i, t := range tasks {
			if format == output.FormatCompact {
				output.TaskDetailCompact(w, t)
				continue
			}
			if i > 0 {
				fmt.Fprintln(w)
			}
			output.TaskDetail(w, t)
		}

	default:
		switch format {
		case output.FormatJSON:
			return output.JSON(w, nonNil(tasks))
		case output.FormatCompact:
			output.TaskCompact(w, tasks)
		default:
			output.TaskTable(w, tasks)
		}
	}
	return nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}
