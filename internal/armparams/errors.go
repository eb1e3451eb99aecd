package armparams

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTTY is returned by a Prompter when no interactive terminal is
// attached. The resolver answers it with a fallback value instead of failing
// the key.
var ErrNoTTY = errors.New("no interactive terminal available")

// UnrecognizedParameterError reports a key=value token naming a parameter the
// template does not declare.
type UnrecognizedParameterError struct {
	Name    string
	Allowed []string // sorted
}

func (e *UnrecognizedParameterError) Error() string {
	return fmt.Sprintf("unrecognized template parameter '%s'. Allowed parameters: %s",
		e.Name, strings.Join(e.Allowed, ", "))
}

// UnparseableTokenError reports a token that is neither a parameter file,
// a JSON object nor a key=value pair.
type UnparseableTokenError struct {
	Token string
}

func (e *UnparseableTokenError) Error() string {
	return fmt.Sprintf("unable to parse parameter: %s", e.Token)
}

// InvalidValueError reports a key=value token whose value cannot be coerced
// to the declared parameter type.
type InvalidValueError struct {
	Name  string
	Kind  Kind
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s value for parameter '%s': %v", e.Kind, e.Name, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// ParameterFileError reports a parameter file that exists but cannot be
// read or decoded.
type ParameterFileError struct {
	Path string
	Err  error
}

func (e *ParameterFileError) Error() string {
	return fmt.Sprintf("reading parameter file %s: %v", e.Path, e.Err)
}

func (e *ParameterFileError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports a supplied value that does not match the type
// the template declares for it.
type TypeMismatchError struct {
	Name    string
	Kind    Kind
	Value   any
	Allowed []string // sorted
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter '%s' expects a %s value, got %T. Allowed parameters: %s",
		e.Name, e.Kind, e.Value, strings.Join(e.Allowed, ", "))
}

// NoInteractiveTerminalError is returned when missing parameters had to take
// fallback values and the caller did not accept them.
type NoInteractiveTerminalError struct {
	Parameters []string // names that received a fallback, in prompting order
}

func (e *NoInteractiveTerminalError) Error() string {
	return fmt.Sprintf("no interactive terminal available to prompt for parameters: %s",
		strings.Join(e.Parameters, ", "))
}

func (e *NoInteractiveTerminalError) Unwrap() error {
	return ErrNoTTY
}
