// Package azauth obtains the Azure credential meshctl talks to ARM with.
//
// Credentials are tried in order: a service principal from AZURE_* environment
// variables, the Azure CLI session, then a browser sign-in when a terminal is
// attached. The winning credential must produce an ARM token for the requested
// tenant and is cached for the rest of the invocation.
package azauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fatih/color"
)

// ManagementScope is the token scope for Azure Resource Manager.
const ManagementScope = "https://management.azure.com/.default"

// Credential methods, in the order they are tried.
const (
	MethodEnvironment = "environment"
	MethodCLI         = "cli"
	MethodBrowser     = "browser"
)

// Credential is a verified credential and the tenant its token belongs to.
type Credential struct {
	TokenCredential azcore.TokenCredential
	TenantID        string
	Method          string
}

// Options configures Login.
type Options struct {
	TenantID    string // empty accepts the credential's home tenant
	Interactive bool   // allow the browser fallback
	Verbose     bool
	Out         io.Writer
}

type strategy struct {
	method string
	label  string
	usable func(Options) bool
	build  func(Options) (azcore.TokenCredential, error)
}

var strategies = []strategy{
	{
		method: MethodEnvironment,
		label:  "environment variables",
		usable: func(Options) bool {
			return os.Getenv("AZURE_CLIENT_ID") != "" && os.Getenv("AZURE_TENANT_ID") != ""
		},
		build: func(Options) (azcore.TokenCredential, error) {
			return azidentity.NewEnvironmentCredential(nil)
		},
	},
	{
		method: MethodCLI,
		label:  "Azure CLI",
		usable: func(Options) bool { return true },
		build: func(o Options) (azcore.TokenCredential, error) {
			return azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{TenantID: o.TenantID})
		},
	},
	{
		method: MethodBrowser,
		label:  "browser login",
		usable: func(o Options) bool { return o.Interactive },
		build: func(o Options) (azcore.TokenCredential, error) {
			return azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{TenantID: o.TenantID})
		},
	},
}

var (
	cacheMu sync.Mutex
	cached  *Credential
)

// Login returns the first credential that yields an ARM token. A token from
// a tenant other than opts.TenantID stops the search with a
// *TenantMismatchError; otherwise every failure is collected into the
// returned *AuthError.
func Login(ctx context.Context, opts Options) (*Credential, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cached != nil && (opts.TenantID == "" || strings.EqualFold(cached.TenantID, opts.TenantID)) {
		return cached, nil
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	trace := func(format string, args ...any) {
		if opts.Verbose {
			color.New(color.FgCyan).Fprintf(out, "   "+format+"\n", args...)
		}
	}

	var failures []error
	for _, st := range strategies {
		if !st.usable(opts) {
			continue
		}
		if st.method == MethodBrowser {
			color.New(color.Bold).Fprintln(out, "🌐 Opening a browser to sign in to Azure...")
		}
		trace("trying %s", st.label)

		cred, err := st.build(opts)
		if err == nil {
			var c *Credential
			if c, err = verify(ctx, st.method, cred, opts.TenantID); err == nil {
				cached = c
				color.New(color.FgGreen).Fprintf(out, "🔐 Authenticated via %s (tenant %s)\n", st.label, orHome(c.TenantID))
				return c, nil
			}
		}
		if isTenantMismatch(err) {
			return nil, err
		}
		trace("%s failed: %v", st.label, err)
		failures = append(failures, fmt.Errorf("%s: %w", st.label, err))
	}
	return nil, &AuthError{TenantID: opts.TenantID, Failures: failures}
}

// ResetCache forgets the cached credential.
func ResetCache() {
	cacheMu.Lock()
	cached = nil
	cacheMu.Unlock()
}

func verify(ctx context.Context, method string, cred azcore.TokenCredential, tenantID string) (*Credential, error) {
	tok, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{ManagementScope}})
	if err != nil {
		return nil, err
	}
	tenant, err := VerifyTenant(tok.Token, tenantID)
	if err != nil {
		return nil, err
	}
	return &Credential{TokenCredential: cred, TenantID: tenant, Method: method}, nil
}

func orHome(tenant string) string {
	if tenant == "" {
		return "home"
	}
	return tenant
}

// AuthError reports that no credential could be obtained and how to get one.
type AuthError struct {
	TenantID string
	Failures []error
}

func (e *AuthError) Unwrap() []error { return e.Failures }

func (e *AuthError) Error() string {
	tenant := e.TenantID
	if tenant == "" {
		tenant = "<tenant-id>"
	}

	var sb strings.Builder
	sb.WriteString("Azure authentication failed: no credential produced an ARM token.\n")
	if len(e.Failures) > 0 {
		sb.WriteString("\n")
		for _, f := range e.Failures {
			fmt.Fprintf(&sb, "  - %v\n", f)
		}
	}
	sb.WriteString("\nSign in with one of:\n")
	fmt.Fprintf(&sb, "  az login --tenant %s\n", tenant)
	fmt.Fprintf(&sb, "  export AZURE_TENANT_ID=%s AZURE_CLIENT_ID=<app-id> AZURE_CLIENT_SECRET=<secret>\n", tenant)
	sb.WriteString("  or run meshctl from a terminal without --ci to sign in through a browser.\n")
	sb.WriteString("\nMesh deployments need Contributor on the resource group; cross-connections need Network Contributor.\n")
	return sb.String()
}

// ErrNoCLISession is returned when the Azure CLI has no usable account.
var ErrNoCLISession = errors.New("no Azure CLI session; run 'az login' first")
