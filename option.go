package declcli

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"time"
)

// Option describes a single flag belonging to a command: a long name, an
// optional short alias, usage text, a typed default value, and whether the
// flag must be present on invocation. Options are values; the modifier
// methods return copies, so a shared option (see [Group]) is never mutated by
// one of its users.
//
// An Option does not own flag storage. Storage is created when the option is
// applied to a [flag.FlagSet] during tree construction, so two trees built
// from the same option never share parsed values.
type Option struct {
	name     string
	alias    string
	usage    string
	required bool
	register func(fset *flag.FlagSet, name, usage string)
}

// Bool describes a boolean flag.
func Bool(name string, value bool, usage string) Option {
	return Option{name: name, usage: usage, register: func(fset *flag.FlagSet, name, usage string) {
		fset.Bool(name, value, usage)
	}}
}

// String describes a string flag.
func String(name string, value string, usage string) Option {
	return Option{name: name, usage: usage, register: func(fset *flag.FlagSet, name, usage string) {
		fset.String(name, value, usage)
	}}
}

// Int describes an integer flag.
func Int(name string, value int, usage string) Option {
	return Option{name: name, usage: usage, register: func(fset *flag.FlagSet, name, usage string) {
		fset.Int(name, value, usage)
	}}
}

// Float64 describes a float flag.
func Float64(name string, value float64, usage string) Option {
	return Option{name: name, usage: usage, register: func(fset *flag.FlagSet, name, usage string) {
		fset.Float64(name, value, usage)
	}}
}

// Duration describes a [time.Duration] flag.
func Duration(name string, value time.Duration, usage string) Option {
	return Option{name: name, usage: usage, register: func(fset *flag.FlagSet, name, usage string) {
		fset.Duration(name, value, usage)
	}}
}

// Var describes a flag backed by a custom [flag.Value]. The newValue function
// is called once per application so each built tree gets its own storage; the
// value should implement [flag.Getter] if it is to be read with [GetFlag].
func Var(newValue func() flag.Value, name, usage string) Option {
	return Option{name: name, usage: usage, register: func(fset *flag.FlagSet, name, usage string) {
		fset.Var(newValue(), name, usage)
	}}
}

// Alias returns a copy of the option that also answers to the given short
// name. Both names share the same storage, so either spelling sets the same
// value.
func (o Option) Alias(name string) Option {
	o.alias = name
	return o
}

// Required returns a copy of the option that must be present on invocation.
// Missing required flags are reported as a parse error naming the command.
func (o Option) Required() Option {
	o.required = true
	return o
}

// Name returns the option's long flag name.
func (o Option) Name() string { return o.name }

// apply registers the option on fset, creating fresh storage. Registering two
// options under the same name within one command is an error; the stdlib flag
// package would panic here, so the conflict is detected first.
func (o Option) apply(fset *flag.FlagSet) error {
	if o.name == "" {
		return errors.New("option has no name")
	}
	if o.register == nil {
		return fmt.Errorf("option -%s has no value constructor", o.name)
	}
	if fset.Lookup(o.name) != nil {
		return fmt.Errorf("flag -%s declared more than once", o.name)
	}
	o.register(fset, o.name, o.usage)
	if o.alias != "" {
		if fset.Lookup(o.alias) != nil {
			return fmt.Errorf("flag -%s declared more than once", o.alias)
		}
		// Same Value under both names. The flag package inspects the Value for
		// bool semantics, so the alias behaves exactly like the long form.
		fset.Var(fset.Lookup(o.name).Value, o.alias, o.usage)
	}
	return nil
}

// Group clones a list of options for reuse across commands. A command
// registered with a group plus its own options sees the group's members
// first, in the group's declaration order, followed by the command's own
// options in the order given.
func Group(opts ...Option) []Option {
	return slices.Clone(opts)
}
