package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive scheduling session",
	Long: `Start an interactive session over the configured roster.

Type the same commands a script would contain, for example:

  auto all today
  task assign PetPar02 Cln-50Sav1-050625
  task list --date today

Type "help" for the command list and "quit" to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "shell")
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		reg := e.orch.Zoo()
		fmt.Printf("%s: %d animal(s), %d enclosure(s), %d staff\n",
			reg.Name, len(reg.Animals()), len(reg.Enclosures()), len(reg.Staff()))
		return runShell(newSession(e.orch, os.Stdout), os.Stdin, "zooshift> ")
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// runShell reads lines until EOF or quit. Failed lines are reported and
// the session carries on.
func runShell(s *session, in io.Reader, prompt string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		err := s.Exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %s\n", describe(err))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}
