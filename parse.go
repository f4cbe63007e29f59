package declcli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mfridman/xflag"
)

// Parse traverses the command tree and parses args against it, typically
// os.Args[1:]. Flags and positional arguments may be intermixed; everything
// after a bare "--" is passed through untouched. Parent flags remain
// available in subcommands, with child definitions taking precedence.
//
// On success the tree records the selected command and its [State], ready for
// [Run]. A help request anywhere in args prints help for the innermost
// command reached so far and returns [flag.ErrHelp].
func Parse(root *Command, args []string) error {
	if root == nil {
		return errors.New("failed to parse: root command is nil")
	}
	if err := validateTree(root, nil); err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	// Fresh state per parse. Nothing from a previous parse of this tree
	// survives.
	root.state = &State{commandPath: []*Command{root}}
	root.selected = nil
	if root.Flags == nil {
		root.Flags = flag.NewFlagSet(root.Name, flag.ContinueOnError)
	}

	argsToParse := args
	var passthrough []string
	for i, arg := range args {
		if arg == "--" {
			argsToParse = args[:i]
			passthrough = args[i+1:]
			break
		}
	}

	// Walk the tree. Help is checked before anything else so a request
	// surfaces even when sibling flags would fail to parse.
	current := root
	for _, arg := range argsToParse {
		switch arg {
		case "-h", "--h", "-help", "--help":
			return current.showHelp()
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if len(current.SubCommands) == 0 {
			break
		}
		sub := current.findSubCommand(arg)
		if sub == nil {
			return current.unknownCommandError(arg)
		}
		if sub.Flags == nil {
			sub.Flags = flag.NewFlagSet(sub.Name, flag.ContinueOnError)
		}
		sub.state = root.state
		root.state.commandPath = append(root.state.commandPath, sub)
		current = sub
	}
	root.selected = current

	path := root.state.commandPath

	// Combine flag definitions leaf-first so a child may shadow a parent.
	combined := flag.NewFlagSet(current.Name, flag.ContinueOnError)
	combined.SetOutput(io.Discard)
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Flags == nil {
			continue
		}
		path[i].Flags.VisitAll(func(f *flag.Flag) {
			if combined.Lookup(f.Name) == nil {
				combined.Var(f.Value, f.Name, f.Usage)
			}
		})
	}

	if err := xflag.ParseToEnd(combined, argsToParse); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return current.showHelp()
		}
		return fmt.Errorf("command %q: %w", current.Name, err)
	}

	if err := checkRequiredFlags(current, combined, argsToParse); err != nil {
		return err
	}

	// Drop the leading command names from the positional arguments.
	parsed := combined.Args()
	pathIdx := 1
	start := 0
	for start < len(parsed) && pathIdx < len(path) && parsed[start] == path[pathIdx].Name {
		start++
		pathIdx++
	}
	var finalArgs []string
	if start < len(parsed) {
		finalArgs = append(finalArgs, parsed[start:]...)
	}
	finalArgs = append(finalArgs, passthrough...)
	root.state.Args = finalArgs

	return nil
}

// checkRequiredFlags verifies by argument presence that every required flag
// of the selected command was given explicitly. Defaults do not satisfy a
// required flag. Any spelling bound to the required flag's storage counts, so
// an alias satisfies its long form.
func checkRequiredFlags(current *Command, combined *flag.FlagSet, args []string) error {
	var missing []string
	for _, name := range current.RequiredFlags {
		f := combined.Lookup(name)
		if f == nil {
			return fmt.Errorf("command %q: internal error: required flag -%s not found in flag set", current.Name, name)
		}
		var spellings []string
		combined.VisitAll(func(other *flag.Flag) {
			if other.Value == f.Value {
				spellings = append(spellings, other.Name)
			}
		})
		found := false
		for _, arg := range args {
			for _, spelling := range spellings {
				if arg == "-"+spelling || arg == "--"+spelling ||
					strings.HasPrefix(arg, "-"+spelling+"=") ||
					strings.HasPrefix(arg, "--"+spelling+"=") {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("command %q: required flags %q not set", current.Name, strings.Join(missing, ", "))
	}
	return nil
}
