package declcli

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
)

// RunOptions specifies the standard streams for a command execution. Nil
// fields fall back to the process streams.
type RunOptions struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// ParseAndRun combines [Parse] and [Run] in a single call.
func ParseAndRun(ctx context.Context, root *Command, args []string, options *RunOptions) error {
	if err := Parse(root, args); err != nil {
		return err
	}
	return Run(ctx, root, options)
}

// Run executes the command selected by the most recent [Parse] of the tree.
// A selected command without an execution function shows its help when it has
// subcommands (a group invoked bare), and fails with [*NoExecError]
// otherwise. An error returned by the handler comes back wrapped as an
// [*ExecError] naming the invoked command, with the original error as cause.
//
// options may be nil, in which case the process streams are used.
func Run(ctx context.Context, root *Command, options *RunOptions) error {
	if root == nil {
		return errors.New("failed to run: root command is nil")
	}
	if root.selected == nil {
		return errors.New("failed to run: command has not been parsed")
	}
	s := root.state
	s.applyStreams(options)

	sel := root.selected
	if sel.Exec == nil {
		if len(sel.SubCommands) > 0 {
			return sel.showHelp()
		}
		return &NoExecError{Command: sel}
	}
	if err := sel.Exec(ctx, s); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &ExecError{Command: getCommandPath(s.commandPath), Err: err}
	}
	return nil
}

func (s *State) applyStreams(options *RunOptions) {
	if options != nil {
		s.Stdin = options.Stdin
		s.Stdout = options.Stdout
		s.Stderr = options.Stderr
	}
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
}
