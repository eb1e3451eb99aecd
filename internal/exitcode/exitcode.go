// Package exitcode maps errors to process exit codes.
package exitcode

import (
	"errors"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/kjourdan1/meshctl/internal/armparams"
	"github.com/kjourdan1/meshctl/internal/azauth"
	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/deploy"
	"github.com/kjourdan1/meshctl/internal/prompt"
	"github.com/kjourdan1/meshctl/internal/template"
)

const (
	OK            = 0
	Generic       = 1
	Validation    = 2
	Azure         = 3
	NoTTY         = 4
	Deployment    = 5
	SecurityBlock = 6
	Canceled      = 130
)

type Error struct {
	Code  int
	Cause error
}

func (e *Error) Error() string {
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Cause: err}
}

func Of(err error) int {
	if err == nil {
		return OK
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	switch {
	case errors.Is(err, prompt.ErrCanceled):
		return Canceled
	case errors.Is(err, armparams.ErrNoTTY):
		return NoTTY
	case errors.Is(err, deploy.ErrDeploymentFailed):
		return Deployment
	case errors.Is(err, template.ErrNoSource), errors.Is(err, template.ErrBothSources):
		return Validation
	}

	var tenantErr *azauth.TenantMismatchError
	if errors.As(err, &tenantErr) {
		return SecurityBlock
	}
	if isValidation(err) {
		return Validation
	}

	var authErr *azauth.AuthError
	var respErr *azcore.ResponseError
	if errors.As(err, &authErr) || errors.As(err, &respErr) {
		return Azure
	}

	// Fallback: string-based classification for errors not yet wrapped with typed codes.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "validation") || strings.Contains(msg, "invalid"):
		return Validation
	case strings.Contains(msg, "azure"):
		return Azure
	default:
		return Generic
	}
}

func isValidation(err error) bool {
	var (
		unrecognized *armparams.UnrecognizedParameterError
		unparseable  *armparams.UnparseableTokenError
		invalidValue *armparams.InvalidValueError
		paramFile    *armparams.ParameterFileError
		mismatch     *armparams.TypeMismatchError
		settings     config.ValidationErrors
	)
	return errors.As(err, &unrecognized) ||
		errors.As(err, &unparseable) ||
		errors.As(err, &invalidValue) ||
		errors.As(err, &paramFile) ||
		errors.As(err, &mismatch) ||
		errors.As(err, &settings)
}
