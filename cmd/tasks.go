package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/lowkey/internal/export"
	"github.com/sadopc/lowkey/internal/focus"
	"github.com/sadopc/lowkey/internal/session"
	"github.com/sadopc/lowkey/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetString("list")
		return withSession(func(c *session.Coordinator) error {
			return addTask(c, cmd.OutOrStdout(), strings.Join(args, " "), list)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session counter and open tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(c *session.Coordinator) error {
			return printStatus(c, cmd.OutOrStdout(), time.Now())
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks as CSV or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		return withSession(func(c *session.Coordinator) error {
			return exportTasks(c, cmd.OutOrStdout(), format, out)
		})
	},
}

func init() {
	addCmd.Flags().StringP("list", "l", "", "list id or name (default: the active list)")
	exportCmd.Flags().StringP("format", "f", "csv", "export format (csv, json)")
	exportCmd.Flags().StringP("out", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(addCmd, statusCmd, exportCmd)
}

// withSession runs fn against a coordinator over the configured database.
func withSession(fn func(*session.Coordinator) error) error {
	logs, err := setupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer logs.Close()

	c, s, err := openSession(session.Deps{})
	if err != nil {
		return err
	}
	defer s.Close()
	defer c.Close()
	return fn(c)
}

// resolveList matches ref against list ids first, then names.
func resolveList(lists []store.List, ref string) (store.List, bool) {
	for _, l := range lists {
		if l.ID == ref {
			return l, true
		}
	}
	for _, l := range lists {
		if strings.EqualFold(l.Name, ref) {
			return l, true
		}
	}
	return store.List{}, false
}

func addTask(c *session.Coordinator, out io.Writer, title, listRef string) error {
	v := c.View()
	list := v.ActiveList
	if listRef != "" {
		l, ok := resolveList(v.Lists, listRef)
		if !ok {
			return fmt.Errorf("unknown list %q", listRef)
		}
		list = l
	}
	t, err := c.AddTaskTo(title, list.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %q to %s\n", t.Title, list.Name)
	return nil
}

func printStatus(c *session.Coordinator, out io.Writer, now time.Time) error {
	v := c.View()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := c.Store().CountFocus(focus.Pomodoro.String(), day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Pomodoros: %d total, %d today\n", v.Counter, today)
	fmt.Fprintf(out, "Timer:     %s %s\n", v.Mode.Label(), v.Clock)
	fmt.Fprintf(out, "Channel:   %s\n", v.NowPlaying)
	fmt.Fprintf(out, "List:      %s (%s)\n", v.ActiveList.Name, v.ItemsLeftLabel)
	for _, t := range v.Tasks {
		if t.Completed {
			continue
		}
		due := ""
		if t.DueDate != "" {
			due = "  due " + strings.TrimSpace(t.DueDate+" "+t.DueTime)
		}
		fmt.Fprintf(out, "  [ ] %s (%s)%s\n", t.Title, t.Priority, due)
	}
	return nil
}

func exportTasks(c *session.Coordinator, out io.Writer, format, path string) error {
	tasks, lists := c.AllTasks(), c.View().Lists
	switch format {
	case "csv":
		if path != "" {
			return export.ToCSV(tasks, lists, path)
		}
		return export.WriteCSV(out, tasks, lists)
	case "json":
		if path != "" {
			return export.ToJSON(tasks, lists, path)
		}
		return export.WriteJSON(out, tasks, lists, time.Now())
	default:
		return fmt.Errorf("unknown format %q (want %s)", format, joinNames([]string{"csv", "json"}))
	}
}
