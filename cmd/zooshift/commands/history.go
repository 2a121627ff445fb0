package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/db"
	"github.com/marcus/zooshift/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded schedule events",
	Long: `Show schedule events recorded by earlier shell, run, plan and board
sessions, newest first. Use --task to follow one task and --sessions to
list the sessions themselves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("limit")
		taskID, _ := cmd.Flags().GetString("task")
		sessions, _ := cmd.Flags().GetBool("sessions")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		if sessions {
			list, err := journal.Sessions(database, n)
			if err != nil {
				return err
			}
			renderSessions(os.Stdout, list)
			return nil
		}
		entries, err := journal.Recent(database, n, taskID)
		if err != nil {
			return err
		}
		renderHistory(os.Stdout, entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().String("task", "", "Only events for this task id")
	historyCmd.Flags().Bool("sessions", false, "List sessions instead of events")
	rootCmd.AddCommand(historyCmd)
}

func renderHistory(out io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No events recorded.")
		return
	}
	styles := newOutputStyles()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tEVENT\tOP\tTASK\tOWNER\tDETAIL")
	for _, e := range entries {
		detail := e.Message
		if e.Error != "" {
			detail = styles.Error.Render(e.Error)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(e.Time), e.Event, orDash(e.Op), orDash(e.TaskID), orDash(e.Owner), detail)
	}
	_ = w.Flush()
}

func renderSessions(out io.Writer, sessions []journal.Session) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, "No sessions recorded.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STARTED\tZOO\tSOURCE\tEVENTS\tDURATION")
	for _, s := range sessions {
		duration := "running"
		if s.EndedAt != nil {
			duration = humanize.RelTime(s.StartedAt, *s.EndedAt, "", "")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(s.StartedAt), s.Zoo, s.Source, humanize.Comma(int64(s.Events)), duration)
	}
	_ = w.Flush()
}
