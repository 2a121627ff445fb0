package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/ui"
)

var boardCmd = &cobra.Command{
	Use:   "board [script]",
	Short: "Open the interactive schedule board",
	Long: `Open the schedule board for the configured roster. If a script is given
it is run first, so the board opens on the schedule it builds.

Keys: tab switches panel, [ and ] change date, a auto-schedules the shown
date, c completes the selected task, q quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed := ui.NewFeed()
		source := "board"
		if len(args) == 1 {
			source = args[0]
		}
		e, err := openEnv(cmd, source, feed.Observe)
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			failed, err := newSession(e.orch, os.Stdout).Run(f, false)
			_ = f.Close()
			if err != nil {
				return err
			}
			if failed > 0 {
				fmt.Fprintf(os.Stderr, "%d script line(s) failed\n", failed)
			}
		}

		return ui.New(e.orch, feed).Run()
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
