package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/meshctl/internal/audit"
	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/doctor"
)

// ── History command ─────────────────────────────────────────

func writeAuditLog(t *testing.T, events ...audit.Event) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	auditDir := filepath.Join(home, ".meshctl")
	require.NoError(t, os.MkdirAll(auditDir, 0o755))

	var lines []string
	for _, event := range events {
		b, err := json.Marshal(event)
		require.NoError(t, err)
		lines = append(lines, string(b))
	}
	require.NoError(t, os.WriteFile(filepath.Join(auditDir, "audit.log"), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestHistoryCmd_WithEvents(t *testing.T) {
	newTestEnv(t)
	writeAuditLog(t,
		audit.Event{Timestamp: "2026-02-19T10:00:00Z", Operation: "deployment create", ResourceGroup: "rg-a", Result: "success", DurationMs: 120},
		audit.Event{Timestamp: "2026-02-19T10:05:00Z", Operation: "app delete", ResourceGroup: "rg-b", Result: "failure", ExitCode: 3},
	)

	_, stderr, err := executeCommand("history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "op=app delete")
	assert.NotContains(t, stderr, "op=deployment create")
}

func TestHistoryCmd_Filters(t *testing.T) {
	newTestEnv(t)
	writeAuditLog(t,
		audit.Event{Timestamp: "2026-02-19T10:00:00Z", Operation: "deployment create", ResourceGroup: "rg-a", Result: "success"},
		audit.Event{Timestamp: "2026-02-19T10:05:00Z", Operation: "app delete", ResourceGroup: "rg-b", Result: "failure", ExitCode: 3},
	)

	_, stderr, err := executeCommand("history", "-g", "rg-a")
	require.NoError(t, err)
	assert.Contains(t, stderr, "rg=rg-a")
	assert.NotContains(t, stderr, "rg=rg-b")

	_, stderr, err = executeCommand("history", "--failed")
	require.NoError(t, err)
	assert.Contains(t, stderr, "exit=3")
	assert.NotContains(t, stderr, "op=deployment create")
}

func TestHistoryCmd_JSON(t *testing.T) {
	newTestEnv(t)
	writeAuditLog(t, audit.Event{Timestamp: "2026-02-19T10:00:00Z", Operation: "app list", Result: "success"})

	stdout, _, err := executeCommand("history", "--json")
	require.NoError(t, err)
	var events []audit.Event
	require.NoError(t, json.Unmarshal([]byte(stdout), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "app list", events[0].Operation)
}

func TestHistoryCmd_Empty(t *testing.T) {
	newTestEnv(t)
	t.Setenv("HOME", t.TempDir())

	_, stderr, err := executeCommand("history")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No audit events found.")
}

// ── Configure command ───────────────────────────────────────

func TestConfigureCmd_WritesAndMerges(t *testing.T) {
	env := newTestEnv(t)
	path := "/cfg/meshctl.yaml"

	_, _, err := executeCommand("configure", "--config", path, "-g", "rg-mesh", "--location", "westus")
	require.NoError(t, err)

	_, _, err = executeCommand("configure", "--config", path, "-o", "json", "--retry-attempts", "5")
	require.NoError(t, err)

	s, err := config.Load(env.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "rg-mesh", s.ResourceGroup)
	assert.Equal(t, "westus", s.Location)
	assert.Equal(t, "json", s.Output)
	assert.Equal(t, 5, s.RetryAttempts)

	info, err := env.fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigureCmd_PrintsWithoutFlags(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, afero.WriteFile(env.fs, "/cfg/meshctl.yaml", []byte("resourceGroup: rg-mesh\n"), 0o600))

	stdout, _, err := executeCommand("configure", "--config", "/cfg/meshctl.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "resourceGroup: rg-mesh")
}

func TestConfigureCmd_RejectsInvalid(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := executeCommand("configure", "--config", "/cfg/meshctl.yaml", "--subscription", "not-a-uuid")
	require.Error(t, err)
	exists, _ := afero.Exists(env.fs, "/cfg/meshctl.yaml")
	assert.False(t, exists)
}

func TestSettings_FlagBeatsConfigFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, afero.WriteFile(env.fs, "/cfg/meshctl.yaml", []byte("resourceGroup: rg-file\noutput: yaml\n"), 0o600))

	stdout, _, err := executeCommand("app", "list", "--config", "/cfg/meshctl.yaml", "-s", testSubscription, "-g", "rg-flag")
	require.NoError(t, err)
	assert.Equal(t, "rg-flag", env.resources.listGroup)
	assert.Contains(t, stdout, "name: helloworld", "output format comes from the file")
}

func TestSettings_EnvBeatsConfigFile(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("MESHCTL_RESOURCE_GROUP", "rg-env")
	require.NoError(t, afero.WriteFile(env.fs, "/cfg/meshctl.yaml", []byte("resourceGroup: rg-file\n"), 0o600))

	_, _, err := executeCommand("app", "list", "--config", "/cfg/meshctl.yaml", "-s", testSubscription)
	require.NoError(t, err)
	assert.Equal(t, "rg-env", env.resources.listGroup)
}

func TestSettings_MissingExplicitConfigFails(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCommand("app", "list", "--config", "/nope/meshctl.yaml", "-s", testSubscription)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

// ── Doctor command ──────────────────────────────────────────

type fakeExecutor map[string]string

func (f fakeExecutor) Run(_ context.Context, name string, args ...string) (string, error) {
	out, ok := f[name+" "+strings.Join(args, " ")]
	if !ok {
		return "", errors.New("not found")
	}
	return out, nil
}

func withDoctorExecutor(t *testing.T, ex doctor.CmdExecutor) {
	t.Helper()
	orig := doctorExecutor
	t.Cleanup(func() { doctorExecutor = orig })
	doctorExecutor = func() doctor.CmdExecutor { return ex }
}

func TestDoctorCmd_Healthy(t *testing.T) {
	newTestEnv(t)
	withDoctorExecutor(t, fakeExecutor{
		"az version --output json":                                                         `{"azure-cli": "2.61.0"}`,
		"az account show --output json":                                                    `{"id": "sub", "name": "Dev", "tenantId": "t"}`,
		"az provider show -n Microsoft.ServiceFabricMesh --query registrationState -o tsv": "Registered",
		"az provider show -n Microsoft.Network --query registrationState -o tsv":           "Registered",
		"az provider show -n Microsoft.Resources --query registrationState -o tsv":         "Registered",
	})

	stdout, _, err := executeCommand("doctor", "--config", "/cfg/meshctl.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Microsoft.ServiceFabricMesh is registered")
	assert.Contains(t, stdout, "[WARN]", "tests run without a terminal")
}

func TestDoctorCmd_CriticalFailure(t *testing.T) {
	newTestEnv(t)
	withDoctorExecutor(t, fakeExecutor{})

	_, _, err := executeCommand("doctor", "--config", "/cfg/meshctl.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prerequisite checks failed")
}
