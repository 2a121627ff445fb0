package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/zooerr"
)

// errQuit ends a shell loop.
var errQuit = errors.New("quit")

// session runs zooshift command lines against one orchestrator. Each line
// gets a fresh cobra tree so flag values never leak between lines.
type session struct {
	orch *orchestrator.Orchestrator
	out  io.Writer
}

func newSession(o *orchestrator.Orchestrator, out io.Writer) *session {
	return &session{orch: o, out: out}
}

// Exec runs a single line. Blank lines and # comments are ignored.
func (s *session) Exec(line string) error {
	args, err := splitLine(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "quit", "exit":
		return errQuit
	}

	root := s.commandTree()
	root.SetArgs(args)
	root.SetOut(s.out)
	root.SetErr(s.out)
	return root.Execute()
}

// Run executes every line from r, reporting failures with their line
// number. It stops at the first failure when strict is set, and returns
// the number of failed lines.
func (s *session) Run(r io.Reader, strict bool) (int, error) {
	scanner := bufio.NewScanner(r)
	failed := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		err := s.Exec(scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			failed++
			fmt.Fprintf(s.out, "line %d: %s\n", lineNo, describe(err))
			if strict {
				return failed, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("read script: %w", err)
	}
	return failed, nil
}

// describe renders an error for a person at the prompt.
func describe(err error) string {
	var zerr *zooerr.Error
	if errors.As(err, &zerr) {
		return fmt.Sprintf("%s: %s", zerr.Kind, zerr.Message)
	}
	return err.Error()
}

func (s *session) commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "zooshift",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		s.autoCmd(),
		s.taskCmd(),
		s.animalCmd(),
		s.enclosureCmd(),
		s.staffCmd(),
	)
	return root
}

// splitLine breaks a line into shell words. Quotes group words and an
// unquoted # at the start of a word begins a comment.
func splitLine(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, zooerr.Wrap(zooerr.IncompleteTask, fmt.Sprintf("cannot split %q", line), err)
	}
	if len(words) == 0 {
		return nil, nil
	}
	return words, nil
}
