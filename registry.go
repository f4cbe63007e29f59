package declcli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// Handler is the execution function for a registered command. It receives the
// parsed [State] for the invocation.
type Handler func(ctx context.Context, s *State) error

// CommandSpec is one validated entry in a [Registry]: the command's full name
// (with "_" marking hierarchy boundaries), its help text, its options, and
// its handler. Specs are not mutated after registration.
type CommandSpec struct {
	Name    string
	Help    string
	Options []Option
	Exec    Handler
}

// HelpProvider supplies help text for commands discovered by
// [Registry.ScanMethods]. The map is keyed by method name, for example
// "DoPythonStatic". Methods without an entry get empty help text.
type HelpProvider interface {
	CommandHelp() map[string]string
}

// OptionsProvider supplies options for commands discovered by
// [Registry.ScanMethods], keyed by method name. Methods without an entry get
// no options.
type OptionsProvider interface {
	CommandOptions() map[string][]Option
}

// Registry holds the validated command table for one application. Names are
// unique within a registry and registration order is preserved; validation
// failures are reported eagerly, at registration time, never deferred to
// parsing.
type Registry struct {
	names  []string
	table  map[string]*CommandSpec
	logger *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string]*CommandSpec)}
}

// SetLogger configures a logger for discovery diagnostics. Nil disables them.
func (r *Registry) SetLogger(logger *slog.Logger) { r.logger = logger }

// RegisterOption configures a command at registration time.
type RegisterOption func(*CommandSpec)

// WithHelp sets the command's help text.
func WithHelp(help string) RegisterOption {
	return func(spec *CommandSpec) { spec.Help = help }
}

// WithOptions appends flag descriptors to the command. May be given multiple
// times; options accumulate in the order given.
func WithOptions(opts ...Option) RegisterOption {
	return func(spec *CommandSpec) { spec.Options = append(spec.Options, opts...) }
}

// Register adds a command under the given name. The name must be non-empty,
// contain no whitespace, and not already be registered; violations return a
// [ConfigError] wrapping [ErrInvalidName] or [ErrDuplicateCommand].
func (r *Registry) Register(name string, exec Handler, opts ...RegisterOption) error {
	if err := validateName(name); err != nil {
		return &ConfigError{Command: name, Err: err}
	}
	if _, ok := r.table[name]; ok {
		return &ConfigError{Command: name, Err: ErrDuplicateCommand}
	}
	spec := &CommandSpec{Name: name, Exec: exec}
	for _, opt := range opts {
		opt(spec)
	}
	r.names = append(r.names, name)
	r.table[name] = spec
	if r.logger != nil {
		r.logger.Debug("registered command", "command", name, "options", len(spec.Options))
	}
	return nil
}

// MustRegister is like [Registry.Register] but panics on error. Intended for
// package-level wiring where a bad declaration should abort before the
// program can run at all.
func (r *Registry) MustRegister(name string, exec Handler, opts ...RegisterOption) {
	if err := r.Register(name, exec, opts...); err != nil {
		panic(err)
	}
}

// Len reports the number of registered commands.
func (r *Registry) Len() int { return len(r.names) }

// Names returns the registered command names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Lookup returns the spec registered under name, or nil.
func (r *Registry) Lookup(name string) *CommandSpec { return r.table[name] }

var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	stateType = reflect.TypeOf((*State)(nil))
	errType   = reflect.TypeOf((*error)(nil)).Elem()
)

func isHandlerType(t reflect.Type) bool {
	return t.Kind() == reflect.Func &&
		t.NumIn() == 2 && t.In(0) == ctxType && t.In(1) == stateType &&
		t.NumOut() == 1 && t.Out(0) == errType
}

// ScanMethods discovers commands from the receiver's method set. A method
// participates when its name starts with prefix and it has the [Handler]
// signature; a prefixed method with any other signature is a [ConfigError].
// The command name is the prefix-stripped method name lowered to snake_case,
// so DoPythonStatic becomes "python_static". Methods promoted from embedded
// types are part of the method set and are discovered like any other.
//
// Help text and options come from the receiver's [HelpProvider] and
// [OptionsProvider] side tables when implemented. A side-table key that
// matches no discovered method is a [ConfigError], since it is almost
// certainly a typo.
//
// Reflection enumerates methods sorted by name, so discovery order is
// deterministic regardless of declaration order.
func (r *Registry) ScanMethods(recv any, prefix string) error {
	rv := reflect.ValueOf(recv)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return &ConfigError{Err: errors.New("nil receiver")}
	}
	rt := rv.Type()

	var helpTable map[string]string
	if p, ok := recv.(HelpProvider); ok {
		helpTable = p.CommandHelp()
	}
	var optTable map[string][]Option
	if p, ok := recv.(OptionsProvider); ok {
		optTable = p.CommandOptions()
	}

	matched := make(map[string]bool)
	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !strings.HasPrefix(method.Name, prefix) {
			continue
		}
		bound := rv.Method(i)
		if !isHandlerType(bound.Type()) {
			if prefix == "" {
				// An empty prefix matches everything; only methods with the
				// handler signature are commands, the rest are ordinary
				// methods (including the side-table providers).
				continue
			}
			return &ConfigError{
				Command: method.Name,
				Err:     fmt.Errorf("method %s.%s does not have signature func(context.Context, *State) error", rt, method.Name),
			}
		}
		name, err := commandNameFromMethod(method.Name, prefix)
		if err != nil {
			return &ConfigError{Command: method.Name, Err: err}
		}
		matched[method.Name] = true

		opts := []RegisterOption{WithHelp(helpTable[method.Name])}
		if groupOpts, ok := optTable[method.Name]; ok {
			opts = append(opts, WithOptions(groupOpts...))
		}
		exec := bound.Interface().(func(context.Context, *State) error)
		if err := r.Register(name, exec, opts...); err != nil {
			return err
		}
		if r.logger != nil {
			r.logger.Debug("discovered command", "method", method.Name, "command", name)
		}
	}

	if err := checkSideTableKeys("help", helpKeys(helpTable), matched); err != nil {
		return err
	}
	return checkSideTableKeys("options", optKeys(optTable), matched)
}

func helpKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func optKeys(m map[string][]Option) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func checkSideTableKeys(table string, keys []string, matched map[string]bool) error {
	sort.Strings(keys)
	for _, k := range keys {
		if !matched[k] {
			return &ConfigError{
				Command: k,
				Err:     fmt.Errorf("%s entry %q does not match any discovered method", table, k),
			}
		}
	}
	return nil
}

// commandNameFromMethod derives the registered command name from a method
// name: strip the prefix, then lower CamelCase to snake_case. Explicit
// underscores in the method name are kept as separators.
func commandNameFromMethod(method, prefix string) (string, error) {
	name := snakeCase(strings.TrimPrefix(method, prefix))
	if err := validateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	// "_" marks hierarchy boundaries, so an empty segment would become an
	// unnamed group node at build time.
	for _, segment := range strings.Split(name, "_") {
		if segment == "" {
			return fmt.Errorf("%w: %q contains an empty segment", ErrInvalidName, name)
		}
	}
	return nil
}

// snakeCase lowers a CamelCase identifier, inserting "_" at word boundaries.
// Acronym runs stay together: HTTPServer becomes http_server.
func snakeCase(s string) string {
	rs := []rune(s)
	out := make([]rune, 0, len(rs)+4)
	for i, r := range rs {
		if r == '_' {
			if len(out) > 0 && out[len(out)-1] != '_' {
				out = append(out, '_')
			}
			continue
		}
		if unicode.IsUpper(r) {
			boundary := false
			if i > 0 && rs[i-1] != '_' {
				if !unicode.IsUpper(rs[i-1]) {
					boundary = true
				} else if i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
					boundary = true
				}
			}
			if boundary && len(out) > 0 && out[len(out)-1] != '_' {
				out = append(out, '_')
			}
			out = append(out, unicode.ToLower(r))
			continue
		}
		out = append(out, r)
	}
	return strings.Trim(string(out), "_")
}
