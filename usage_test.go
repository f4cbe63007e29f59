package declcli

import (
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUsage(t *testing.T) {
	t.Parallel()

	t.Run("nil command", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", DefaultUsage(nil))
	})
	t.Run("root sections", func(t *testing.T) {
		t.Parallel()
		root := &Command{
			Name:      "builder",
			ShortHelp: "builds things from source",
			Epilog:    "See the project page for full documentation.",
			Flags: FlagsFunc(func(f *flag.FlagSet) {
				f.Bool("verbose", false, "enable verbose output")
			}),
			SubCommands: []*Command{
				{Name: "python", ShortHelp: "python commands"},
				{Name: "check", ShortHelp: "check commands"},
			},
		}
		out := DefaultUsage(root)

		assert.Contains(t, out, "builds things from source")
		assert.Contains(t, out, "Usage:\n  builder [flags] <command>")
		assert.Contains(t, out, "Available Commands:")
		assert.Contains(t, out, "-verbose")
		assert.Contains(t, out, `Use "builder [command] --help"`)
		assert.Contains(t, out, "See the project page for full documentation.")

		// Commands are listed sorted by name.
		checkIdx := strings.Index(out, "  check")
		pythonIdx := strings.Index(out, "  python")
		require.GreaterOrEqual(t, checkIdx, 0)
		require.GreaterOrEqual(t, pythonIdx, 0)
		assert.Less(t, checkIdx, pythonIdx)
	})
	t.Run("usage override", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{Name: "x", Usage: "x <file> [flags]"}
		assert.Contains(t, DefaultUsage(cmd), "Usage:\n  x <file> [flags]")
	})
	t.Run("usage func override", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{
			Name:      "x",
			UsageFunc: func(c *Command) string { return "custom help for " + c.Name },
		}
		assert.Equal(t, "custom help for x", DefaultUsage(cmd))
	})
	t.Run("local and global flags after parse", func(t *testing.T) {
		t.Parallel()
		sub := &Command{
			Name: "sub",
			Flags: FlagsFunc(func(f *flag.FlagSet) {
				f.String("echo", "", "echo the message")
			}),
			Exec: func(ctx context.Context, s *State) error { return nil },
		}
		root := &Command{
			Name: "app",
			Flags: FlagsFunc(func(f *flag.FlagSet) {
				f.Bool("verbose", false, "enable verbose output")
			}),
			SubCommands: []*Command{sub},
			Exec:        func(ctx context.Context, s *State) error { return nil },
		}
		require.NoError(t, Parse(root, []string{"sub"}))

		out := DefaultUsage(sub)
		assert.Contains(t, out, "Usage:\n  app sub [flags]")
		assert.Contains(t, out, "Flags:\n  -echo")
		assert.Contains(t, out, "Global Flags:\n  -verbose")
	})
	t.Run("defaults shown", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{
			Name: "x",
			Flags: FlagsFunc(func(f *flag.FlagSet) {
				f.Int("count", 3, "number of items")
				f.Bool("quiet", false, "no output")
			}),
		}
		out := DefaultUsage(cmd)
		assert.Contains(t, out, "(default 3)")
		// False bool defaults are noise, not information.
		assert.NotContains(t, out, "(default false)")
	})
	t.Run("string default false is shown", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{
			Name: "x",
			Flags: FlagsFunc(func(f *flag.FlagSet) {
				f.String("mode", "false", "the mode")
			}),
		}
		assert.Contains(t, DefaultUsage(cmd), "(default false)")
	})
	t.Run("long descriptions wrap", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{
			Name: "x",
			SubCommands: []*Command{
				{
					Name: "verbose-command",
					ShortHelp: "this description is long enough that it cannot possibly fit on a " +
						"single eighty column line and must wrap onto a continuation line",
				},
			},
		}
		out := DefaultUsage(cmd)
		lines := strings.Split(out, "\n")
		longest := 0
		for _, line := range lines {
			if len(line) > longest {
				longest = len(line)
			}
		}
		assert.LessOrEqual(t, longest, 82)
	})
}
