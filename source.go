package environment

import "os"

// Source is a read-only key-value view of environment variables.
type Source interface {
	LookupEnv(name string) (string, bool)
}

// SourceFunc adapts a lookup function to Source.
type SourceFunc func(name string) (string, bool)

func (f SourceFunc) LookupEnv(name string) (string, bool) { return f(name) }

// OSSource returns a Source backed by the process environment.
func OSSource() Source { return SourceFunc(os.LookupEnv) }

// MapSource is a Source backed by a map. A key mapped to the empty string is
// present; an absent key is not.
type MapSource map[string]string

func (m MapSource) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}
