package declcli

import (
	"errors"
	"fmt"
)

// Sentinel reasons for configuration errors. Use [errors.Is] to distinguish
// them on a wrapped [ConfigError].
var (
	// ErrInvalidName reports a command name that is empty after prefix
	// stripping or contains whitespace.
	ErrInvalidName = errors.New("invalid command name")

	// ErrDuplicateCommand reports a second registration under a name that is
	// already taken within the same registry.
	ErrDuplicateCommand = errors.New("duplicate command")
)

// ConfigError reports a problem with how commands were declared: an invalid or
// duplicate name at registration time, or a declaration the tree builder
// cannot honor (conflicting flags within one command, two handlers landing on
// the same node, a negative hierarchy depth). These are author mistakes and
// surface eagerly, before any arguments are parsed.
type ConfigError struct {
	// Command is the offending command name, empty when the error is not tied
	// to a single command.
	Command string

	// Err is the underlying reason, possibly one of the sentinel errors above.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("commands misconfigured: %v", e.Err)
	}
	return fmt.Sprintf("command %q misconfigured: %v", e.Command, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ExecError wraps an error returned by a command handler during dispatch. The
// original error is available via [errors.Unwrap] or [errors.Is]/[errors.As].
type ExecError struct {
	// Command is the full space-joined path of the invoked command.
	Command string

	// Err is the error returned by the handler.
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Command, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// NoExecError is returned when the selected command has no execution function
// and no subcommands to show help for.
type NoExecError struct {
	Command *Command
}

func (e *NoExecError) Error() string {
	return fmt.Sprintf("command %q has no execution function", getCommandPath(e.Command.state.commandPath))
}
