package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/lowkey/internal/focus"
	"github.com/sadopc/lowkey/internal/notify"
	"github.com/sadopc/lowkey/internal/session"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run the countdown without the TUI",
	Long: `Run one or more countdowns in the terminal. Completed pomodoros count
toward the same session counter and history as the TUI.`,
	Args: cobra.NoArgs,
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().StringP("mode", "m", focus.Pomodoro.String(),
		"mode to start in (pomodoro, shortBreak, longBreak)")
	focusCmd.Flags().IntP("cycles", "n", 1, "number of countdowns to run back to back")
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	modeFlag, _ := cmd.Flags().GetString("mode")
	cycles, _ := cmd.Flags().GetInt("cycles")
	mode, err := focus.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	if cycles < 1 {
		return fmt.Errorf("cycles must be at least 1")
	}

	logs, err := setupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer logs.Close()

	out := cmd.OutOrStdout()
	coord, s, err := openSession(headlessDeps(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()
	defer coord.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord.SwitchMode(mode)
	done := runCycles(ctx, coord, out, cycles, time.Second)
	fmt.Fprintf(out, "%d of %d countdowns completed, %d pomodoros in total\n",
		done, cycles, coord.View().Counter)
	return nil
}

// headlessDeps keeps notifications and cues off the countdown line, which
// countdown rewrites in place on stdout.
func headlessDeps(errOut io.Writer) session.Deps {
	return session.Deps{
		Notifier: notify.NewWriter(errOut),
		Cues:     notify.NewBell(errOut),
	}
}

// runCycles runs up to n countdowns, each continuing in the mode the
// previous one switched to. It returns how many completed.
func runCycles(ctx context.Context, c *session.Coordinator, out io.Writer, n int, interval time.Duration) int {
	done := 0
	for done < n {
		if !countdown(ctx, c, out, interval) {
			break
		}
		done++
	}
	return done
}

// countdown drives one countdown from a real ticker. It reports false when
// ctx ended first; the countdown is left paused in that case.
func countdown(ctx context.Context, c *session.Coordinator, out io.Writer, interval time.Duration) bool {
	tok, ok := c.StartTimer()
	if !ok {
		return false
	}
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	label := c.Session().Mode.Label()
	fmt.Fprintf(out, "%s %s", label, c.View().Clock)
	for t := range focus.Every(loopCtx, interval, tok) {
		if !c.Tick(t) {
			// The engine has already moved on to the next mode.
			fmt.Fprintf(out, "\r%s %s\n%s\n", label, focus.FormatClock(0), c.View().Message)
			return true
		}
		fmt.Fprintf(out, "\r%s %s", label, c.View().Clock)
	}
	c.PauseTimer()
	fmt.Fprintln(out)
	return false
}
