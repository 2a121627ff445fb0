package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/zoo"
	"github.com/marcus/zooshift/internal/zooerr"
)

func (s *session) animalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animal",
		Short: "Register and care for animals",
	}
	reg := s.orch.Zoo()

	add := &cobra.Command{
		Use:   "add <name> <species> <age>",
		Short: "Register an animal",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := parseInt("age", args[2])
			if err != nil {
				return err
			}
			a, err := reg.AddAnimal(args[0], args[1], age)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "added %s the %s\n", a.Name, a.Species)
			return nil
		},
	}

	cmd.AddCommand(
		add,
		s.simple("feed <name>", "Feed an animal", reg.Feed, "fed %s"),
		s.simple("hungry <name>", "Mark an animal hungry", reg.MakeHungry, "%s is hungry"),
		s.simple("ail <name>", "Record an ailment", reg.Ail, "%s is unwell"),
		s.simple("heal <name>", "Clear an ailment and its treatment", reg.Heal, "%s is healthy"),
		&cobra.Command{
			Use:   "treat <vet-id> <name>",
			Short: "Start treating an ailing animal",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := reg.Treat(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%s is treating %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "move <name> <enclosure-id>",
			Short: "House an animal in an enclosure",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := reg.AssignAnimalToEnclosure(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "moved %s to %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove an animal and the tasks that target it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, pruned, err := s.orch.RemoveAnimal(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "removed %s (%d task(s) dropped)\n", a.Name, len(pruned))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List animals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				renderAnimals(s.out, reg.Animals())
				return nil
			},
		},
	)
	return cmd
}

func (s *session) enclosureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enclosure",
		Short: "Manage enclosures",
	}
	reg := s.orch.Zoo()

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <size> <type...>",
			Short: "Build an enclosure",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				size, err := parseInt("size", args[0])
				if err != nil {
					return err
				}
				e, err := reg.AddEnclosure(size, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "added enclosure %s\n", e.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clean <enclosure-id>",
			Short: "Raise cleanliness by one level",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := reg.Clean(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%s cleanliness %d/%d\n", args[0], level, zoo.MaxCleanliness)
				return nil
			},
		},
		&cobra.Command{
			Use:   "soil <enclosure-id> <level>",
			Short: "Set cleanliness directly",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := parseInt("level", args[1])
				if err != nil {
					return err
				}
				if err := reg.Soil(args[0], level); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%s cleanliness %d/%d\n", args[0], level, zoo.MaxCleanliness)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <enclosure-id>",
			Short: "Remove an empty enclosure and its tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, pruned, err := s.orch.RemoveEnclosure(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "removed %s (%d task(s) dropped)\n", e.ID, len(pruned))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List enclosures",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				renderEnclosures(s.out, reg.Enclosures(), s.orch.Config().CleaningThreshold)
				return nil
			},
		},
	)
	return cmd
}

func (s *session) staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage keepers and vets",
	}
	reg := s.orch.Zoo()

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <birthday> <keeper|vet>",
			Short: "Hire a staff member",
			Long: `Hire a staff member. Quote names with spaces, e.g.

  staff add "Peter Parker" 10/08/2002 keeper`,
			Args: cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				role, err := zoo.ParseRole(args[2])
				if err != nil {
					return err
				}
				st, err := reg.AddStaff(args[0], args[1], role)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "added %s %s (%s)\n", st.Role, st.Name, st.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "assign-enclosure <keeper-id> <enclosure-id>",
			Short: "Make a keeper responsible for an enclosure",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := reg.AssignEnclosureToKeeper(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%s now keeps %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "assign-animal <vet-id> <name>",
			Short: "Make a vet responsible for an animal",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := reg.AssignAnimalToVet(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "%s now looks after %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <staff-id>",
			Short: "Remove a staff member and release their tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, released, err := s.orch.RemoveStaff(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "removed %s (%d task(s) released)\n", st.ID, len(released))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List staff",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				renderStaff(s.out, reg.Staff())
				return nil
			},
		},
	)
	return cmd
}

// simple builds a one-argument command over a registry mutation.
func (s *session) simple(use, short string, fn func(string) error, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fn(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(s.out, done+"\n", args[0])
			return nil
		},
	}
}

func parseInt(field, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, zooerr.Wrap(zooerr.IncompleteTask, fmt.Sprintf("%s must be a whole number, got %q", field, v), err)
	}
	return n, nil
}
