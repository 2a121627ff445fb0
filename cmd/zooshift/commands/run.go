package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script of session commands",
	Long: `Run every line of a script against a fresh zoo built from the roster.

Lines use the shell's command syntax; blank lines and # comments are
skipped. Failed lines are reported with their line number. Use --strict to
stop at the first failure and --watch to rerun the script whenever it
changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		strict, _ := cmd.Flags().GetBool("strict")
		watch, _ := cmd.Flags().GetBool("watch")

		once := func() error { return runScriptFile(cmd, path, strict) }
		if !watch {
			return once()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := once(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return watchScript(ctx, path, func() {
			fmt.Printf("\n--- %s changed, rerunning ---\n", filepath.Base(path))
			if err := once(); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		})
	},
}

func init() {
	runCmd.Flags().Bool("strict", false, "Stop at the first failing line")
	runCmd.Flags().BoolP("watch", "w", false, "Rerun the script when it changes")
	rootCmd.AddCommand(runCmd)
}

// runScriptFile runs a script against a fresh environment.
func runScriptFile(cmd *cobra.Command, path string, strict bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	e, err := openEnv(cmd, path)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	failed, err := newSession(e.orch, os.Stdout).Run(f, strict)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d line(s) failed", failed)
	}
	return nil
}

// watchScript calls rerun after each change to path until ctx is done. The
// directory is watched because editors often replace the file on save.
func watchScript(ctx context.Context, path string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
