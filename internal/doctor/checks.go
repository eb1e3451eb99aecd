// Package doctor implements prerequisite checks for meshctl.
//
// It validates that the Azure CLI is installed at a supported version, that
// the Azure session is active, that the Service Fabric Mesh and network
// resource providers are registered, and that local settings are usable.
package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/kjourdan1/meshctl/internal/config"
)

// Status is how a check ended.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// MinAzCLIVersion is the oldest supported Azure CLI.
const MinAzCLIVersion = "2.50.0"

// CheckResult is what one check found. Name and Category are filled in by RunAll.
type CheckResult struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Check is one prerequisite. A failing Critical check makes doctor exit non-zero.
type Check struct {
	Name     string
	Category string
	Critical bool
	Run      func(ctx context.Context, exec CmdExecutor) CheckResult
}

// CmdExecutor runs an external tool and returns its trimmed combined output.
type CmdExecutor interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// NewRealExecutor runs tools from PATH.
func NewRealExecutor() CmdExecutor { return execRunner{} }

// Options feeds the local checks.
type Options struct {
	Fs          afero.Fs
	ConfigPath  string
	Interactive func() bool
}

// Summary counts results by status, in check order.
type Summary struct {
	Results    []CheckResult `json:"results"`
	TotalPass  int           `json:"totalPass"`
	TotalFail  int           `json:"totalFail"`
	TotalWarn  int           `json:"totalWarn"`
	TotalSkip  int           `json:"totalSkip"`
	HasFailure bool          `json:"hasFailure"`
}

// RunAll runs AllChecks(opts) in order.
func RunAll(ctx context.Context, executor CmdExecutor, opts Options) Summary {
	checks := AllChecks(opts)
	sum := Summary{Results: make([]CheckResult, 0, len(checks))}
	for _, c := range checks {
		r := c.Run(ctx, executor)
		r.Name, r.Category = c.Name, c.Category
		sum.add(r, c.Critical)
	}
	return sum
}

func (s *Summary) add(r CheckResult, critical bool) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusPass:
		s.TotalPass++
	case StatusFail:
		s.TotalFail++
		s.HasFailure = s.HasFailure || critical
	case StatusWarn:
		s.TotalWarn++
	case StatusSkip:
		s.TotalSkip++
	}
}

// AllChecks lists the checks in the order they run and are reported.
func AllChecks(opts Options) []Check {
	return []Check{
		checkAzCLI(),
		checkAzSession(),
		checkResourceProvider("Microsoft.ServiceFabricMesh", true),
		checkResourceProvider("Microsoft.Network", false),
		checkResourceProvider("Microsoft.Resources", true),
		checkConfigFile(opts.Fs, opts.ConfigPath),
		checkTerminal(opts.Interactive),
	}
}

func checkAzCLI() Check {
	return Check{
		Name:     "az-cli",
		Category: "tool",
		Critical: false,
		Run: func(ctx context.Context, ex CmdExecutor) CheckResult {
			return checkToolVersion(ctx, ex, "az", []string{"version", "--output", "json"}, `"azure-cli"\s*:\s*"([^"]+)"`, MinAzCLIVersion,
				"Install Azure CLI >= "+MinAzCLIVersion+": https://learn.microsoft.com/cli/azure/install-azure-cli")
		},
	}
}

func checkAzSession() Check {
	return Check{
		Name:     "az-session",
		Category: "auth",
		Critical: true,
		Run: func(ctx context.Context, ex CmdExecutor) CheckResult {
			out, err := ex.Run(ctx, "az", "account", "show", "--output", "json")
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: "No active Azure session",
					Fix:     "Run: az login, or set AZURE_CLIENT_ID, AZURE_CLIENT_SECRET and AZURE_TENANT_ID",
				}
			}

			account := gjson.Parse(out)
			tenantID := orUnknown(account.Get("tenantId").String())
			subID := orUnknown(account.Get("id").String())
			subName := orUnknown(account.Get("name").String())

			if state := account.Get("state").String(); state != "" && !strings.EqualFold(state, "Enabled") {
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("Default subscription %s (%s) is %s", subID, subName, state),
					Fix:     "Run: az account set --subscription <enabled-subscription-id>",
				}
			}

			return CheckResult{
				Status:  StatusPass,
				Message: fmt.Sprintf("Logged in, tenant: %s, subscription: %s (%s)", tenantID, subID, subName),
			}
		},
	}
}

func checkResourceProvider(provider string, critical bool) Check {
	name := "provider-" + strings.ToLower(strings.TrimPrefix(provider, "Microsoft."))
	return Check{
		Name:     name,
		Category: "azure",
		Critical: critical,
		Run: func(ctx context.Context, ex CmdExecutor) CheckResult {
			out, err := ex.Run(ctx, "az", "provider", "show", "-n", provider, "--query", "registrationState", "-o", "tsv")
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("Cannot query provider %s", provider),
					Fix:     fmt.Sprintf("Run: az provider register -n %s", provider),
				}
			}
			state := strings.TrimSpace(out)
			if strings.EqualFold(state, "Registered") {
				return CheckResult{
					Status:  StatusPass,
					Message: fmt.Sprintf("%s is registered", provider),
				}
			}
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("%s is %s (not registered)", provider, state),
				Fix:     fmt.Sprintf("Run: az provider register -n %s", provider),
			}
		},
	}
}

// --- Local checks ---

func checkConfigFile(fs afero.Fs, path string) Check {
	return Check{
		Name:     "config",
		Category: "local",
		Critical: true,
		Run: func(context.Context, CmdExecutor) CheckResult {
			if fs == nil || path == "" {
				return CheckResult{Status: StatusSkip, Message: "No config file in use"}
			}
			if ok, _ := afero.Exists(fs, path); !ok {
				return CheckResult{
					Status:  StatusSkip,
					Message: fmt.Sprintf("No config file at %s", path),
					Fix:     "Run: meshctl configure --resource-group <name>",
				}
			}
			s, err := config.Load(fs, path)
			if err == nil {
				err = config.Validate(s)
			}
			if err != nil {
				return CheckResult{
					Status:  StatusFail,
					Message: fmt.Sprintf("Config file %s is invalid: %v", path, err),
					Fix:     "Fix the file or rewrite it with: meshctl configure",
				}
			}
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("Config file %s is valid", path)}
		},
	}
}

func checkTerminal(interactive func() bool) Check {
	return Check{
		Name:     "terminal",
		Category: "local",
		Critical: false,
		Run: func(context.Context, CmdExecutor) CheckResult {
			if interactive != nil && interactive() {
				return CheckResult{Status: StatusPass, Message: "Interactive terminal attached; missing parameters will be prompted"}
			}
			return CheckResult{
				Status:  StatusWarn,
				Message: "No interactive terminal; missing template parameters cannot be prompted",
				Fix:     "Pass every required parameter with --parameters, or use --accept-fallback",
			}
		},
	}
}

// --- Helpers ---

// checkToolVersion extracts the first submatch of pattern from the tool output
// and compares it with minVersion.
func checkToolVersion(ctx context.Context, ex CmdExecutor, tool string, args []string, pattern, minVersion, fix string) CheckResult {
	out, err := ex.Run(ctx, tool, args...)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s not found or not in PATH", tool),
			Fix:     fix,
		}
	}

	re := regexp.MustCompile(pattern)
	matches := re.FindStringSubmatch(out)
	if len(matches) < 2 {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s found but could not parse version from output", tool),
		}
	}

	version := matches[1]
	ok, err := semverGTE(version, minVersion)
	if err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s reported an unparseable version %q", tool, version),
		}
	}
	if !ok {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s %s found, but >= %s required", tool, version, minVersion),
			Fix:     fix,
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s %s", tool, version),
	}
}

// semverGTE reports whether version >= min. Pre-release versions count as
// their release.
func semverGTE(version, min string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, err
	}
	m, err := semver.NewVersion(min)
	if err != nil {
		return false, err
	}
	release, err := v.SetPrerelease("")
	if err != nil {
		return false, err
	}
	return !release.LessThan(m), nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
