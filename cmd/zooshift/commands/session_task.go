package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zooerr"
)

func (s *session) autoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto <feeding|cleaning|treatment|all> [date]",
		Short: "Create the tasks the zoo currently needs",
		Long: `Run an auto-scheduling pass for a date (default today).

feeding creates one task per enclosure with hungry animals, cleaning one per
enclosure below the cleanliness threshold, and treatment one per ailing
animal. Tasks already scheduled for that date are skipped.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := "today"
			if len(args) == 2 {
				date = args[1]
			}

			var (
				created []*tasks.Task
				err     error
			)
			switch strings.ToLower(args[0]) {
			case "feeding":
				created, err = s.orch.ScheduleFeeding(date)
			case "cleaning":
				created, err = s.orch.ScheduleCleaning(date)
			case "treatment":
				created, err = s.orch.ScheduleTreatment(date)
			case "all":
				created, err = s.orch.ScheduleAll(date)
			default:
				return zooerr.New(zooerr.IncompleteTask, "unknown pass %q (use feeding, cleaning, treatment or all)", args[0])
			}
			if err != nil {
				return err
			}

			if len(created) == 0 {
				fmt.Fprintln(s.out, "Nothing new to schedule.")
				return nil
			}
			for _, t := range created {
				fmt.Fprintf(s.out, "created %s\n", t.ID())
			}
			return nil
		},
	}
}

func (s *session) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, assign, complete and list tasks",
	}

	create := &cobra.Command{
		Use:   "create <feeding|cleaning|treatment> <enclosure|animal>",
		Short: "Schedule a task by hand",
		Long: `Schedule a task by hand. Feeding and cleaning take an enclosure id,
treatment takes an animal name. Feeding defaults to all animals in the
enclosure; use --animals to feed specific residents.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			animals, _ := cmd.Flags().GetStringSlice("animals")

			typ, err := tasks.ParseType(args[0])
			if err != nil {
				return err
			}
			var target tasks.Target
			switch typ {
			case tasks.TypeTreatment:
				target.AnimalID = args[1]
			case tasks.TypeFeeding:
				target.EnclosureID = args[1]
				target.Animals = animals
				if len(animals) == 0 {
					target.Animals = []string{tasks.AllAnimals}
				}
			default:
				target.EnclosureID = args[1]
			}

			t, err := s.orch.CreateTask(args[0], target, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "created %s\n", t.ID())
			return nil
		},
	}
	create.Flags().StringP("date", "d", "", "Date (DD/MM/YYYY or today); empty leaves the task unscheduled")
	create.Flags().StringSlice("animals", nil, "Animals to feed (default all animals)")

	assign := &cobra.Command{
		Use:   "assign <staff-id> <task-id>",
		Short: "Give a task to a keeper or vet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := s.orch.AssignTask(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "assigned %s to %s\n", loc.Task.ID(), loc.Owner)
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark an assigned task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := s.orch.CompleteTask(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "completed %s\n", loc.Task.ID())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List scheduled tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := taskFilter(cmd)
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			seq, err := s.orch.Tasks(date, f)
			if err != nil {
				return err
			}

			var entries []schedule.Entry
			for e := range seq {
				entries = append(entries, e)
			}
			if len(entries) == 0 {
				fmt.Fprintln(s.out, "No tasks match.")
				return nil
			}
			renderTaskTable(s.out, entries)
			return nil
		},
	}
	list.Flags().StringP("date", "d", "", "Only this date (DD/MM/YYYY, today or UNSCHEDULED)")
	list.Flags().String("status", "", "uncompleted or completed")
	list.Flags().String("owner", "", "Staff id or UNASSIGNED")
	list.Flags().Bool("assigned", false, "Only assigned tasks")
	list.Flags().Bool("unassigned", false, "Only unassigned tasks")
	list.MarkFlagsMutuallyExclusive("assigned", "unassigned")

	show := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show where a task sits and what it targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := s.orch.FindTask(args[0])
			if err != nil {
				return err
			}
			renderTaskDetail(s.out, loc)
			return nil
		},
	}

	cmd.AddCommand(create, assign, complete, list, show)
	return cmd
}

// taskFilter builds a store filter from the list flags. The date is
// resolved by the orchestrator.
func taskFilter(cmd *cobra.Command) (schedule.Filter, error) {
	var f schedule.Filter
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		st, err := schedule.ParseStatus(status)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	f.Owner, _ = cmd.Flags().GetString("owner")
	if assigned, _ := cmd.Flags().GetBool("assigned"); assigned {
		f.Assigned = schedule.BoolPtr(true)
	}
	if unassigned, _ := cmd.Flags().GetBool("unassigned"); unassigned {
		f.Assigned = schedule.BoolPtr(false)
	}
	return f, nil
}
