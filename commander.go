package declcli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// defaultPrefix is the method prefix used by [Commander.ScanMethods] when none
// is configured.
const defaultPrefix = "Do"

// Commander describes a command-line application and owns its command
// registry. Configure it with a struct literal, populate the registry with
// [Commander.Register] or [Commander.ScanMethods], and call [Commander.Run].
//
// Every call to [Commander.Build] or [Commander.Run] constructs a fresh
// command tree; nothing from a previous build is reused, so concurrent or
// repeated invocations never observe each other's parsed state.
type Commander struct {
	// Name is the program name, shown in usage and version output.
	Name string

	// Version is printed by the -v/-version flag.
	Version string

	// ShortHelp is a one-line description of the program.
	ShortHelp string

	// Epilog is trailing text appended to the root help output.
	Epilog string

	// DefaultArgs are substituted when Run is invoked with no arguments at
	// all. A typical value is []string{"--help"}, so a bare invocation shows
	// help instead of doing nothing.
	DefaultArgs []string

	// Levels is the hierarchy depth: 0 registers every command under its full
	// "_"-joined name, N>0 turns the first N name segments into nested
	// subcommand groups.
	Levels int

	// Prefix is the method prefix for ScanMethods. Empty means "Do". To scan
	// with a genuinely empty prefix, use [Registry.ScanMethods] directly.
	Prefix string

	// Logger, when set, receives debug-level records for command discovery
	// and tree construction.
	Logger *slog.Logger

	// Standard streams for dispatched handlers. Nil values fall back to the
	// process streams.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	registry *Registry
}

// Registry returns the commander's registry, creating it on first use.
func (c *Commander) Registry() *Registry {
	if c.registry == nil {
		c.registry = NewRegistry()
		c.registry.SetLogger(c.Logger)
	}
	return c.registry
}

// Register adds a command to the commander's registry. See
// [Registry.Register].
func (c *Commander) Register(name string, exec Handler, opts ...RegisterOption) error {
	return c.Registry().Register(name, exec, opts...)
}

// MustRegister is like [Commander.Register] but panics on error.
func (c *Commander) MustRegister(name string, exec Handler, opts ...RegisterOption) {
	c.Registry().MustRegister(name, exec, opts...)
}

// ScanMethods discovers commands from the receiver's prefixed methods. See
// [Registry.ScanMethods].
func (c *Commander) ScanMethods(recv any) error {
	prefix := c.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return c.Registry().ScanMethods(recv, prefix)
}

// Build constructs a fresh command tree from the registry. The returned root
// is ready for [Parse]; intermediate group nodes are created on first
// reference and shared between sibling commands.
func (c *Commander) Build() (*Command, error) {
	if c.Name == "" {
		return nil, &ConfigError{Err: errors.New("commander has no name")}
	}
	if c.Levels < 0 {
		return nil, &ConfigError{Err: fmt.Errorf("negative hierarchy depth %d", c.Levels)}
	}

	root := &Command{
		Name:      c.Name,
		ShortHelp: c.ShortHelp,
		Epilog:    c.Epilog,
		Flags:     flag.NewFlagSet(c.Name, flag.ContinueOnError),
	}
	if c.Stderr != nil {
		root.Flags.SetOutput(c.Stderr)
	}
	var version bool
	root.Flags.BoolVar(&version, "version", false, "print version and exit")
	root.Flags.BoolVar(&version, "v", false, "print version and exit")
	root.Exec = func(ctx context.Context, s *State) error {
		if version {
			fmt.Fprintf(s.Stdout, "%s %s\n", c.Name, c.Version)
			return nil
		}
		return root.showHelp()
	}

	if c.registry == nil {
		return root, nil
	}

	groups := make(map[string]*Command)
	for _, name := range c.registry.names {
		spec := c.registry.table[name]
		segments := strings.Split(spec.Name, "_")

		depth := c.Levels
		if m := len(segments) - 1; depth > m {
			depth = m
		}
		parent := root
		for i := 0; i < depth; i++ {
			parent = ensureGroup(parent, groups, strings.Join(segments[:i+1], "_"), segments[i])
		}

		leafName := strings.Join(segments[depth:], "_")
		if err := attachLeaf(parent, spec, leafName); err != nil {
			return nil, err
		}
		if c.Logger != nil {
			c.Logger.Debug("attached command",
				"command", spec.Name, "leaf", leafName, "groups", depth)
		}
	}
	return root, nil
}

// ensureGroup returns the child of parent for the given path segment,
// creating an intermediate group node on first reference. It is a named
// function taking the segment as a parameter, so every call binds its own
// segment; the cache key is the full path prefix, keeping groups unique per
// position in the tree.
func ensureGroup(parent *Command, groups map[string]*Command, pathKey, segment string) *Command {
	if g, ok := groups[pathKey]; ok {
		return g
	}
	// A command registered under this exact name may already exist as a leaf;
	// it then doubles as the group node, staying runnable.
	if existing := parent.findSubCommand(segment); existing != nil {
		groups[pathKey] = existing
		return existing
	}
	g := &Command{Name: segment, ShortHelp: segment + " commands"}
	parent.SubCommands = append(parent.SubCommands, g)
	groups[pathKey] = g
	return g
}

// attachLeaf adds spec as a child of parent under leafName. A leaf landing on
// an existing group node merges into it, making the group runnable; two
// handlers on one node is a configuration error.
func attachLeaf(parent *Command, spec *CommandSpec, leafName string) error {
	fset, required, err := leafFlags(spec, leafName)
	if err != nil {
		return err
	}
	if existing := parent.findSubCommand(leafName); existing != nil {
		if existing.Exec != nil {
			return &ConfigError{
				Command: spec.Name,
				Err:     fmt.Errorf("a handler is already attached at %q", leafName),
			}
		}
		existing.Exec = spec.Exec
		existing.Flags = fset
		existing.RequiredFlags = required
		if spec.Help != "" {
			existing.ShortHelp = spec.Help
		}
		return nil
	}
	parent.SubCommands = append(parent.SubCommands, &Command{
		Name:          leafName,
		ShortHelp:     spec.Help,
		Flags:         fset,
		RequiredFlags: required,
		Exec:          spec.Exec,
	})
	return nil
}

func leafFlags(spec *CommandSpec, leafName string) (*flag.FlagSet, []string, error) {
	if len(spec.Options) == 0 {
		return nil, nil, nil
	}
	fset := flag.NewFlagSet(leafName, flag.ContinueOnError)
	var required []string
	for _, opt := range spec.Options {
		if err := opt.apply(fset); err != nil {
			return nil, nil, &ConfigError{Command: spec.Name, Err: err}
		}
		if opt.required {
			required = append(required, opt.name)
		}
	}
	return fset, required, nil
}

// Run builds a fresh tree, parses args against it, and dispatches to the
// selected handler. Nil args default to os.Args[1:]; empty args are replaced
// by DefaultArgs when configured. Help requests return nil, matching the
// print-and-exit-zero convention. Handler failures come back as an
// [*ExecError] naming the invoked command, with the original error as the
// cause.
func (c *Commander) Run(ctx context.Context, args []string) error {
	root, err := c.Build()
	if err != nil {
		return err
	}
	if args == nil {
		args = os.Args[1:]
	}
	if len(args) == 0 && len(c.DefaultArgs) > 0 {
		args = slices.Clone(c.DefaultArgs)
	}
	err = ParseAndRun(ctx, root, args, &RunOptions{
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	})
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}
