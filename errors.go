package environment

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories returned by this package. Use errors.Is to detect them:
//   - ErrRequired: a required variable is not set in the environment.
//   - ErrDirectoryMissing: a directory variable names a path that does not exist.
//   - ErrCreateDirectory: a missing directory could not be created.
//   - ErrDecode: a resolved value does not fit the destination struct field.
//   - ErrUnsupportedFormat: Encode was asked for an unknown format.
var (
	ErrRequired          = errors.New("required variable is not set")
	ErrDirectoryMissing  = errors.New("directory does not exist")
	ErrCreateDirectory   = errors.New("create directory")
	ErrDecode            = errors.New("decode environment")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Names reported by the Name method of the validation errors.
const (
	ErrorsName         = "EnvironmentErrors"
	RequiredErrorName  = "EnvironmentRequiredError"
	DirectoryErrorName = "EnvironmentDirectoryError"
)

// RequiredError reports a required variable missing from the environment.
type RequiredError struct {
	Variable string
}

func (e *RequiredError) Name() string  { return RequiredErrorName }
func (e *RequiredError) Error() string { return "Variable is required: " + e.Variable }
func (e *RequiredError) Is(target error) bool {
	return target == ErrRequired
}

// DirectoryError reports a directory variable whose path does not exist.
// Path is absolute.
type DirectoryError struct {
	Variable string
	Path     string
}

func (e *DirectoryError) Name() string { return DirectoryErrorName }
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("Path does not exist: %s=\"%s\"", e.Variable, e.Path)
}
func (e *DirectoryError) Is(target error) bool {
	return target == ErrDirectoryMissing
}

// CreateDirectoryError is returned by CreateDirectories when a directory
// could not be created. It unwraps to ErrCreateDirectory and the
// underlying filesystem error.
type CreateDirectoryError struct {
	Variable string
	Path     string
	Err      error
}

func (e *CreateDirectoryError) Error() string {
	return fmt.Sprintf("%v %s=%q: %v", ErrCreateDirectory, e.Variable, e.Path, e.Err)
}

func (e *CreateDirectoryError) Unwrap() []error {
	return []error{ErrCreateDirectory, e.Err}
}

// Errors is the ordered collection of validation failures returned by Check.
type Errors []error

func (es Errors) Name() string { return ErrorsName }

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, err := range es {
		msgs[i] = err.Error()
	}
	return ErrorsName + ": " + strings.Join(msgs, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (es Errors) Unwrap() []error { return es }
