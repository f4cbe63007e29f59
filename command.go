package declcli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikhailberg/declcli/pkg/suggest"
)

// Command is one node in a command tree: the root, an intermediate subcommand
// group, or a leaf with an execution function. Trees are usually constructed
// by [Commander.Build], but can be assembled by hand and passed to [Parse]
// and [Run] directly.
//
// A Command belongs to exactly one tree and holds that tree's parse state;
// nodes must not be shared between trees.
type Command struct {
	// Name is a single word identifying the command within its parent.
	Name string

	// Usage overrides the generated usage pattern, for example
	// "builder python static [flags]".
	Usage string

	// ShortHelp is a one-line description shown in command listings.
	ShortHelp string

	// Epilog is trailing text appended to this command's help output.
	Epilog string

	// UsageFunc, when set, generates the full help text for this command
	// instead of [DefaultUsage].
	UsageFunc func(*Command) string

	// Flags holds the command's own flag definitions. May be nil; parsing
	// creates an empty set on demand.
	Flags *flag.FlagSet

	// RequiredFlags lists flag names that must be present when this command
	// is invoked.
	RequiredFlags []string

	// SubCommands are the nested commands under this one.
	SubCommands []*Command

	// Exec is the command's execution logic. A command without Exec but with
	// subcommands shows help when selected.
	Exec func(ctx context.Context, s *State) error

	state    *State
	selected *Command
}

// Selected returns the terminal command chosen by the most recent [Parse] of
// this tree, or nil if the tree has not been parsed.
func (c *Command) Selected() *Command { return c.selected }

// FlagsFunc creates a new [flag.FlagSet] and applies fn to it. A convenience
// for hand-built command literals:
//
//	cmd.Flags = declcli.FlagsFunc(func(f *flag.FlagSet) {
//	    f.Bool("verbose", false, "enable verbose output")
//	})
func FlagsFunc(fn func(f *flag.FlagSet)) *flag.FlagSet {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	fn(fset)
	return fset
}

// findSubCommand returns the direct child with the given name, or nil.
func (c *Command) findSubCommand(name string) *Command {
	for _, sub := range c.SubCommands {
		if strings.EqualFold(sub.Name, name) {
			return sub
		}
	}
	return nil
}

func (c *Command) unknownCommandError(name string) error {
	known := make([]string, 0, len(c.SubCommands))
	for _, sub := range c.SubCommands {
		known = append(known, sub.Name)
	}
	if suggestions := suggest.FindSimilar(name, known, 3); len(suggestions) > 0 {
		return fmt.Errorf("unknown command %q. Did you mean one of these?\n\t%s",
			name, strings.Join(suggestions, "\n\t"))
	}
	return fmt.Errorf("unknown command %q", name)
}

// showHelp writes the command's help text and returns [flag.ErrHelp] so
// callers can treat a help request as a clean exit.
func (c *Command) showHelp() error {
	fmt.Fprintln(c.output(), DefaultUsage(c))
	return flag.ErrHelp
}

func (c *Command) output() io.Writer {
	if c.state != nil && len(c.state.commandPath) > 0 {
		if root := c.state.commandPath[0]; root.Flags != nil {
			return root.Flags.Output()
		}
	}
	if c.Flags != nil {
		return c.Flags.Output()
	}
	return os.Stderr
}

// getCommandPath joins the names along a command path with spaces.
func getCommandPath(commands []*Command) string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// validateTree checks every node's name before parsing: non-empty and no
// internal whitespace. path carries the names above the node for error
// context.
func validateTree(c *Command, path []string) error {
	if c.Name == "" {
		if len(path) == 0 {
			return fmt.Errorf("root command has no name")
		}
		return fmt.Errorf("subcommand in path %q has no name", strings.Join(path, " "))
	}
	if strings.ContainsAny(c.Name, " \t\n") {
		return fmt.Errorf("command name %q contains whitespace, must be a single word", c.Name)
	}
	currentPath := append(path, c.Name)
	for _, sub := range c.SubCommands {
		if err := validateTree(sub, currentPath); err != nil {
			return err
		}
	}
	return nil
}
