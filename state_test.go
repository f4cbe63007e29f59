package declcli

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFlag(t *testing.T) {
	t.Parallel()

	t.Run("flag not found", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{
			Name:  "root",
			Flags: flag.NewFlagSet("root", flag.ContinueOnError),
		}
		state := &State{commandPath: []*Command{cmd}}
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorContains(t, err, `flag "-version" not found in command "root" flag set`)
		}()
		_ = GetFlag[string](state, "version")
	})
	t.Run("type mismatch", func(t *testing.T) {
		t.Parallel()
		cmd := &Command{
			Name:  "root",
			Flags: FlagsFunc(func(f *flag.FlagSet) { f.String("version", "1.0.0", "show version") }),
		}
		state := &State{commandPath: []*Command{cmd}}
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorContains(t, err, `type mismatch for flag "-version" in command "root": registered string, requested int`)
		}()
		_ = GetFlag[int](state, "version")
	})
	t.Run("child shadows parent", func(t *testing.T) {
		t.Parallel()
		parent := &Command{
			Name:  "parent",
			Flags: FlagsFunc(func(f *flag.FlagSet) { f.String("output", "parent", "") }),
		}
		child := &Command{
			Name:  "child",
			Flags: FlagsFunc(func(f *flag.FlagSet) { f.String("output", "child", "") }),
		}
		state := &State{commandPath: []*Command{parent, child}}
		assert.Equal(t, "child", GetFlag[string](state, "output"))
	})
	t.Run("parent flag visible from child", func(t *testing.T) {
		t.Parallel()
		parent := &Command{
			Name:  "parent",
			Flags: FlagsFunc(func(f *flag.FlagSet) { f.Bool("verbose", true, "") }),
		}
		child := &Command{Name: "child"}
		state := &State{commandPath: []*Command{parent, child}}
		assert.True(t, GetFlag[bool](state, "verbose"))
	})
}

func TestStatePath(t *testing.T) {
	t.Parallel()

	state := &State{commandPath: []*Command{{Name: "builder"}, {Name: "python"}, {Name: "static"}}}
	assert.Equal(t, "builder python static", state.Path())
}
