package output

import (
	"errors"
	"fmt"
)

// CLIError is an error meant for the person at the terminal. Fix, when set,
// is printed as a suggestion under the message.
type CLIError struct {
	Message string
	Cause   error
	Fix     string
}

func (e *CLIError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *CLIError) Unwrap() error { return e.Cause }

func NewError(message string) *CLIError {
	return &CLIError{Message: message}
}

func NewErrorWithFix(message, fix string) *CLIError {
	return &CLIError{Message: message, Fix: fix}
}

func WrapErrorWithFix(err error, message, fix string) *CLIError {
	return &CLIError{Message: message, Cause: err, Fix: fix}
}

// PrintError reports err on the diagnostics writer, or as a JSON error
// envelope on Stdout in --json mode. The cause of a CLIError is only shown
// with -v.
func PrintError(err error) {
	if JSONMode {
		JSONError(err)
		return
	}
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		Error(err.Error())
		return
	}
	Error(cliErr.Message)
	if cliErr.Cause != nil {
		Debug("cause", "err", cliErr.Cause)
	}
	if cliErr.Fix != "" {
		Info(markFix.prefix(cliErr.Fix))
	}
}
