package declcli

import (
	"cmp"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/mikhailberg/declcli/pkg/textutil"
)

const helpWidth = 80

// DefaultUsage renders help text for a command: short help, the usage line,
// the sorted list of subcommands, local and inherited flags, and any epilog.
// Output wraps at 80 columns.
func DefaultUsage(c *Command) string {
	if c == nil {
		return ""
	}
	if c.UsageFunc != nil {
		return c.UsageFunc(c)
	}

	path := []*Command{c}
	if c.state != nil && len(c.state.commandPath) > 0 {
		path = c.state.commandPath
	}
	pathName := getCommandPath(path)

	var b strings.Builder

	if c.ShortHelp != "" {
		for _, line := range textutil.Wrap(c.ShortHelp, helpWidth) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Usage:\n")
	if c.Usage != "" {
		b.WriteString("  " + c.Usage + "\n")
	} else {
		usage := pathName
		if c.Flags != nil {
			usage += " [flags]"
		}
		if len(c.SubCommands) > 0 {
			usage += " <command>"
		}
		b.WriteString("  " + usage + "\n")
	}
	b.WriteString("\n")

	if len(c.SubCommands) > 0 {
		b.WriteString("Available Commands:\n")
		writeNameSection(&b, subCommandRows(c))
		b.WriteString("\n")
	}

	local, global := collectFlags(path)
	if len(local) > 0 {
		b.WriteString("Flags:\n")
		writeNameSection(&b, local)
		b.WriteString("\n")
	}
	if len(global) > 0 {
		b.WriteString("Global Flags:\n")
		writeNameSection(&b, global)
		b.WriteString("\n")
	}

	if len(c.SubCommands) > 0 {
		fmt.Fprintf(&b, "Use \"%s [command] --help\" for more information about a command.\n", pathName)
	}

	if c.Epilog != "" {
		b.WriteString("\n")
		for _, line := range textutil.Wrap(c.Epilog, helpWidth) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// row is one left-aligned name with wrapped description text.
type row struct {
	name string
	desc string
}

func subCommandRows(c *Command) []row {
	sorted := slices.Clone(c.SubCommands)
	slices.SortFunc(sorted, func(a, b *Command) int {
		return cmp.Compare(a.Name, b.Name)
	})
	rows := make([]row, 0, len(sorted))
	for _, sub := range sorted {
		rows = append(rows, row{name: sub.Name, desc: sub.ShortHelp})
	}
	return rows
}

// collectFlags gathers flag rows along the command path. Flags defined on the
// terminal command are local; everything inherited from ancestors is global.
func collectFlags(path []*Command) (local, global []row) {
	for i, cmd := range path {
		if cmd.Flags == nil {
			continue
		}
		inherited := i < len(path)-1
		cmd.Flags.VisitAll(func(f *flag.Flag) {
			desc := f.Usage
			if f.DefValue != "" && !isFalseBoolFlag(f) {
				desc += fmt.Sprintf(" (default %s)", f.DefValue)
			}
			r := row{name: "-" + f.Name, desc: desc}
			if inherited {
				global = append(global, r)
			} else {
				local = append(local, r)
			}
		})
	}
	sortRows := func(rows []row) {
		slices.SortFunc(rows, func(a, b row) int {
			return cmp.Compare(a.name, b.name)
		})
	}
	sortRows(local)
	sortRows(global)
	return local, global
}

// isFalseBoolFlag reports whether f is a boolean flag defaulting to false.
// Such defaults are noise in help output; a string flag whose default happens
// to be the text "false" still shows it.
func isFalseBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag() && f.DefValue == "false"
}

// writeNameSection renders rows as a two-column listing, wrapping the
// description column and indenting continuation lines under it.
func writeNameSection(b *strings.Builder, rows []row) {
	maxLen := 0
	for _, r := range rows {
		if len(r.name) > maxLen {
			maxLen = len(r.name)
		}
	}
	nameWidth := maxLen + 4
	wrapWidth := helpWidth - nameWidth

	for _, r := range rows {
		if r.desc == "" {
			fmt.Fprintf(b, "  %s\n", r.name)
			continue
		}
		lines := textutil.Wrap(r.desc, wrapWidth)
		padding := strings.Repeat(" ", maxLen-len(r.name)+4)
		fmt.Fprintf(b, "  %s%s%s\n", r.name, padding, lines[0])
		indent := strings.Repeat(" ", nameWidth+2)
		for _, line := range lines[1:] {
			fmt.Fprintf(b, "%s%s\n", indent, line)
		}
	}
}
