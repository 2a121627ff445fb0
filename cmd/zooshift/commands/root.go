// Package commands implements the zooshift CLI commands using cobra.
package commands

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "zooshift",
	Short: "Zoo care task scheduler",
	Long: `Zooshift schedules feeding, cleaning and treatment work for a zoo and
hands it out to keepers and vets.

Describe the zoo in a roster file, point zooshift.yaml at it, then use the
shell, run a script of commands, or plan the coming care rounds.`,
	Version:       Version,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringP("roster", "r", "", "Roster file (overrides zoo.roster)")
	rootCmd.PersistentFlags().String("zoo", "", "Zoo name (overrides the roster and zoo.name)")
	rootCmd.PersistentFlags().Bool("no-journal", false, "Do not record events in the history database")
}
