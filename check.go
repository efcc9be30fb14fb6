package environment

import "path/filepath"

type checkOptions struct {
	skipRequired    bool
	skipDirectories bool
}

// CheckOption adjusts a single Check call.
type CheckOption func(*checkOptions)

// SkipRequired disables the required-variable pass of Check.
func SkipRequired() CheckOption {
	return func(o *checkOptions) { o.skipRequired = true }
}

// SkipDirectories disables the directory pass of Check.
func SkipDirectories() CheckOption {
	return func(o *checkOptions) { o.skipDirectories = true }
}

// Check validates the environment. It records a *RequiredError for each
// required variable absent from the Source, then a *DirectoryError for each
// directory variable whose path does not exist. Check returns nil when
// nothing was recorded and an Errors value otherwise.
func (e *Environment) Check(opts ...CheckOption) error {
	var o checkOptions
	for _, opt := range opts {
		opt(&o)
	}

	var errs Errors
	if !o.skipRequired {
		for _, v := range e.VariableList() {
			if v.Required && !v.Exists {
				errs = append(errs, &RequiredError{Variable: v.Name})
			}
		}
	}
	if !o.skipDirectories {
		for _, d := range e.directoryList() {
			if !d.Exists {
				errs = append(errs, &DirectoryError{Variable: d.name, Path: absPath(d.Value)})
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckAsync runs Check in a new goroutine. The returned channel receives
// the result once and is then closed.
func (e *Environment) CheckAsync(opts ...CheckOption) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- e.Check(opts...)
	}()
	return ch
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
