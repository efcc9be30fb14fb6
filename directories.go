package environment

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Directory is the state of one directory variable.
type Directory struct {
	Value  string
	Exists bool
}

type namedDirectory struct {
	name string
	Directory
}

// Directories checks every directory variable on disk and returns the result
// keyed by variable name. Paths are checked with os.Lstat, so a symbolic link
// exists even when its target does not. Any stat failure counts as
// "does not exist". Nothing is cached: every call observes the filesystem.
func (e *Environment) Directories() map[string]Directory {
	list := e.directoryList()
	out := make(map[string]Directory, len(list))
	for _, d := range list {
		out[d.name] = d.Directory
	}
	return out
}

// DirectoriesAsync runs Directories in a new goroutine. The returned channel
// receives the result once and is then closed.
func (e *Environment) DirectoriesAsync() <-chan map[string]Directory {
	ch := make(chan map[string]Directory, 1)
	go func() {
		defer close(ch)
		ch <- e.Directories()
	}()
	return ch
}

// directoryList checks all directory variables concurrently and returns them
// in declared order.
func (e *Environment) directoryList() []namedDirectory {
	var list []namedDirectory
	for _, name := range e.names {
		if e.defaults[name].IsDirectory {
			list = append(list, namedDirectory{
				name:      name,
				Directory: Directory{Value: e.values[name].String()},
			})
		}
	}

	var (
		g  errgroup.Group
		mu sync.Mutex // guards ErrOut writes
	)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i := range list {
		d := &list[i]
		g.Go(func() error {
			_, err := os.Lstat(d.Value)
			d.Exists = err == nil
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				mu.Lock()
				e.warnf("environment: warning: cannot stat %s=%q: %v\n", d.name, d.Value, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // stat failures are folded into Exists

	return list
}

// CreateDirectories creates every directory variable whose path does not
// exist, one at a time in declared order. The first failure stops the
// sequence and is returned as a *CreateDirectoryError; directories created
// before it are kept. Missing parent directories are created as well.
func (e *Environment) CreateDirectories() error {
	for _, d := range e.directoryList() {
		if d.Exists {
			continue
		}
		if err := os.MkdirAll(d.Value, e.dirMode); err != nil {
			return &CreateDirectoryError{Variable: d.name, Path: d.Value, Err: err}
		}
		e.printf("environment: created directory %s=%q\n", d.name, d.Value)
	}
	return nil
}

func (e *Environment) printf(format string, args ...any) {
	if e.streams != nil && e.streams.Out() != nil {
		fmt.Fprintf(e.streams.Out(), format, args...)
	}
}

func (e *Environment) warnf(format string, args ...any) {
	if e.streams != nil && e.streams.ErrOut() != nil {
		fmt.Fprintf(e.streams.ErrOut(), format, args...)
	}
}
