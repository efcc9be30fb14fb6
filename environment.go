package environment

import (
	"io/fs"
	"maps"
	"slices"

	"github.com/ygrebnov/environment/streams"
)

const defaultDirMode fs.FileMode = 0o755

// Variable declares one environment variable: its default Value and whether
// it must be set in the environment or names a directory.
type Variable struct {
	Value       Value
	Required    bool
	IsDirectory bool
}

// Default declares an optional variable with default v.
func Default(v Value) Variable { return Variable{Value: v} }

// Required declares a variable that must be present in the environment.
// v is still used as its value when it is missing.
func Required(v Value) Variable { return Variable{Value: v, Required: true} }

// Dir declares a variable holding a directory path.
func Dir(path string) Variable {
	return Variable{Value: String(path), IsDirectory: true}
}

// Defaults maps environment variable names to their declarations.
type Defaults map[string]Variable

// Environment holds the values resolved from a Source against a set of
// Defaults.
//
// Resolution happens once, in New. Variables are kept in lexicographic name
// order, which is the order used by every ordered result (VariableList,
// CreateDirectories, Check). An Environment is never mutated after New and
// is safe for concurrent use.
type Environment struct {
	defaults    Defaults
	names       []string
	values      map[string]Value
	source      Source
	streams     streams.IOStreams
	dirMode     fs.FileMode
	concurrency int
}

// Option configures an Environment at construction time.
type Option func(*Environment)

// New resolves defaults against the environment. For every declared name
// found in the Source, the raw string is coerced to the kind of the default
// value; otherwise the default is used. New never fails: missing required
// variables and directories are reported by Check.
func New(defaults Defaults, opts ...Option) *Environment {
	e := &Environment{
		defaults: maps.Clone(defaults),
		dirMode:  defaultDirMode,
	}
	if e.defaults == nil {
		e.defaults = Defaults{}
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		e.source = OSSource()
	}

	e.names = slices.Sorted(maps.Keys(e.defaults))
	e.values = make(map[string]Value, len(e.names))
	for _, name := range e.names {
		def := e.defaults[name].Value
		if raw, ok := e.source.LookupEnv(name); ok {
			e.values[name] = coerce(def, raw)
		} else {
			e.values[name] = def
		}
	}

	return e
}

// WithSource sets the Source variables are read from. The default is the
// process environment. Panics if src is nil.
func WithSource(src Source) Option {
	return func(e *Environment) {
		if src == nil {
			panic("environment: WithSource: src cannot be nil")
		}
		e.source = src
	}
}

// WithStreams wires user-facing message streams: created directories are
// announced on Out, unexpected stat failures on ErrOut.
func WithStreams(s streams.IOStreams) Option {
	return func(e *Environment) {
		e.streams = s
	}
}

// WithDirMode sets the permission bits used by CreateDirectories.
// Panics if mode has no permission bits set.
func WithDirMode(mode fs.FileMode) Option {
	return func(e *Environment) {
		if mode.Perm() == 0 {
			panic("environment: WithDirMode: mode must grant some permission")
		}
		e.dirMode = mode.Perm()
	}
}

// WithConcurrency limits the number of directories checked at the same time.
// Zero (the default) checks all of them at once. Panics if n is negative.
func WithConcurrency(n int) Option {
	return func(e *Environment) {
		if n < 0 {
			panic("environment: WithConcurrency: n cannot be negative")
		}
		e.concurrency = n
	}
}

// Get returns the resolved value of name and whether name was declared.
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Value returns the resolved value of name, or the zero Value when name was
// not declared.
func (e *Environment) Value(name string) Value {
	return e.values[name]
}

// Names returns the declared names in order.
func (e *Environment) Names() []string {
	return slices.Clone(e.names)
}

// Defaults returns a copy of the declarations the Environment was built from.
func (e *Environment) Defaults() Defaults {
	return maps.Clone(e.defaults)
}

// VariableInfo describes one declared variable.
type VariableInfo struct {
	Value    Value
	Required bool
	// Exists reports whether the Source had a value for the variable when
	// Variables was called.
	Exists bool
}

// NamedVariable is a VariableInfo with its name, as returned by VariableList.
type NamedVariable struct {
	Name string
	VariableInfo
}

// Variables returns every declared variable keyed by name.
func (e *Environment) Variables() map[string]VariableInfo {
	out := make(map[string]VariableInfo, len(e.names))
	for _, nv := range e.VariableList() {
		out[nv.Name] = nv.VariableInfo
	}
	return out
}

// VariableList returns every declared variable in declared order.
func (e *Environment) VariableList() []NamedVariable {
	out := make([]NamedVariable, 0, len(e.names))
	for _, name := range e.names {
		_, exists := e.source.LookupEnv(name)
		out = append(out, NamedVariable{
			Name: name,
			VariableInfo: VariableInfo{
				Value:    e.values[name],
				Required: e.defaults[name].Required,
				Exists:   exists,
			},
		})
	}
	return out
}
