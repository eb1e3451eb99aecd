package azauth

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"
)

// CLIRunner runs the az CLI with args and returns its stdout.
type CLIRunner func(ctx context.Context, args ...string) ([]byte, error)

var runAz CLIRunner = func(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "az", args...).Output()
}

// SetCLIRunner replaces the az runner and returns a function restoring the
// previous one.
func SetCLIRunner(r CLIRunner) (restore func()) {
	prev := runAz
	runAz = r
	return func() { runAz = prev }
}

// Account is the default account of the Azure CLI session.
type Account struct {
	SubscriptionID string
	Name           string
	TenantID       string
	State          string
}

// CLIAccount reads `az account show`.
func CLIAccount(ctx context.Context) (*Account, error) {
	out, err := runAz(ctx, "account", "show", "--output", "json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCLISession, err)
	}
	if !gjson.ValidBytes(out) {
		return nil, fmt.Errorf("%w: unexpected output from az account show", ErrNoCLISession)
	}
	doc := gjson.ParseBytes(out)
	acct := &Account{
		SubscriptionID: strings.TrimSpace(doc.Get("id").String()),
		Name:           doc.Get("name").String(),
		TenantID:       doc.Get("tenantId").String(),
		State:          doc.Get("state").String(),
	}
	if acct.SubscriptionID == "" {
		return nil, ErrNoCLISession
	}
	return acct, nil
}
