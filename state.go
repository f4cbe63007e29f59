package declcli

import (
	"flag"
	"fmt"
	"io"
)

// State is the parsed result handed to a command's execution function. It
// carries the remaining positional arguments, the standard streams, and the
// path of commands from the root to the selected leaf, through which parent
// flags stay accessible.
type State struct {
	// Args are the positional arguments left after flag parsing, including
	// anything after a bare "--".
	Args []string

	// Standard streams for the execution.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	commandPath []*Command
}

// Path returns the space-joined names of the commands from the root to the
// selected command.
func (s *State) Path() string { return getCommandPath(s.commandPath) }

// GetFlag retrieves a flag value by name with type inference, searching from
// the selected command up through its ancestors so parent flags are visible
// in subcommands:
//
//	verbose := declcli.GetFlag[bool](s, "verbose")
//	count := declcli.GetFlag[int](s, "count")
//
// An unknown flag name or a mismatched type parameter is a programming error
// on the CLI author's side, not a user mistake, so GetFlag panics rather than
// returning a zero value that would mask the bug.
func GetFlag[T any](s *State, name string) T {
	for i := len(s.commandPath) - 1; i >= 0; i-- {
		cmd := s.commandPath[i]
		if cmd.Flags == nil {
			continue
		}
		f := cmd.Flags.Lookup(name)
		if f == nil {
			continue
		}
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			panic(fmt.Errorf("internal error: flag %q in command %q does not implement flag.Getter", "-"+name, cmd.Name))
		}
		value := getter.Get()
		if v, ok := value.(T); ok {
			return v
		}
		panic(fmt.Errorf("internal error: type mismatch for flag %q in command %q: registered %T, requested %T",
			"-"+name, cmd.Name, value, *new(T)))
	}
	terminal := "<none>"
	if len(s.commandPath) > 0 {
		terminal = s.commandPath[len(s.commandPath)-1].Name
	}
	panic(fmt.Errorf("internal error: flag %q not found in command %q flag set", "-"+name, terminal))
}
