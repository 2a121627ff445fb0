package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/scheduler"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Auto-schedule the coming care rounds",
	Long: `Expand the care-round cron expression (schedule.rounds) over the next
days and run every auto-scheduling pass once per round date, then print the
resulting schedule.

The zoo is taken as it is now: animals that are hungry or ailing today get
tasks on every planned day.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "plan")
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = e.cfg.Schedule.Days
		}
		expr, _ := cmd.Flags().GetString("rounds")
		if expr == "" {
			expr = e.cfg.Schedule.Rounds
		}
		from := time.Now()
		if start, _ := cmd.Flags().GetString("from"); start != "" {
			key, err := schedule.ResolveDate(start, from)
			if err != nil {
				return err
			}
			if from, err = schedule.ParseKey(key); err != nil {
				return err
			}
		}

		rounds, err := scheduler.Parse(expr)
		if err != nil {
			return err
		}
		plans, err := scheduler.Plan(e.orch, rounds, from, days)
		if err != nil {
			return err
		}
		printPlan(os.Stdout, rounds, plans)

		if showAll, _ := cmd.Flags().GetBool("tasks"); showAll {
			var entries []schedule.Entry
			for entry := range e.orch.Store().Tasks(schedule.Filter{}) {
				entries = append(entries, entry)
			}
			if len(entries) > 0 {
				fmt.Println()
				renderTaskTable(os.Stdout, entries)
			}
		}
		return nil
	},
}

func init() {
	planCmd.Flags().IntP("days", "n", 0, "Days to plan (default schedule.days)")
	planCmd.Flags().String("rounds", "", "Cron expression for care rounds (default schedule.rounds)")
	planCmd.Flags().String("from", "", "First day (DD/MM/YYYY, default today)")
	planCmd.Flags().Bool("tasks", false, "Print the full task table afterwards")
	rootCmd.AddCommand(planCmd)
}

func printPlan(out io.Writer, rounds *scheduler.Rounds, plans []scheduler.DayPlan) {
	styles := newOutputStyles()
	_, _ = fmt.Fprintln(out, styles.Title.Render("Care rounds: "+rounds.String()))

	total := 0
	for _, p := range plans {
		total += len(p.Created)
		summary := fmt.Sprintf("%d round(s), %d new task(s)", p.Rounds, len(p.Created))
		_, _ = fmt.Fprintf(out, "\n%s  %s\n", styles.Accent.Render(p.DateKey), styles.Muted.Render(summary))
		for _, t := range p.Created {
			_, _ = fmt.Fprintf(out, "  %s\n", t.ID())
		}
	}
	_, _ = fmt.Fprintf(out, "\n%d day(s) planned, %d task(s) created\n", len(plans), total)
}
