package output

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appList []struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

func (a appList) Headers() []string { return []string{"NAME", "STATE"} }

func (a appList) Rows() [][]string {
	rows := make([][]string, len(a))
	for i, app := range a {
		rows[i] = []string{app.Name, app.State}
	}
	return rows
}

func sampleApps() appList {
	return appList{{"helloworld", "Succeeded"}, {"todo", "Failed"}}
}

func TestRender(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		format string
		want   []string
	}{
		{FormatJSON, []string{`"name": "helloworld"`, `"state": "Failed"`}},
		{FormatYAML, []string{"- name: helloworld\n  state: Succeeded"}},
		{FormatTable, []string{"NAME", "helloworld", "Succeeded", "todo"}},
		{"", []string{"STATE"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("format %q", tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.format, sampleApps()))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRender_TableFallsBackToYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatTable, map[string]string{"name": "vol"}))
	assert.Equal(t, "name: vol\n", buf.String())
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", sampleApps())
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestJSONWritesToStdout(t *testing.T) {
	var buf bytes.Buffer
	orig := Stdout
	Stdout = &buf
	t.Cleanup(func() { Stdout = orig })

	JSON(map[string]int{"count": 5})
	assert.JSONEq(t, `{"status":"ok","data":{"count":5}}`, buf.String())

	buf.Reset()
	JSONError(errors.New("boom"))
	assert.JSONEq(t, `{"status":"error","error":"boom"}`, buf.String())
}

func TestLoggerSetOutput(t *testing.T) {
	buf := captureLogs(t, false, false)

	Logger().Warn("Unrecognized type", "parameter", "count")
	Step("deploying")
	assert.Contains(t, buf.String(), "Unrecognized type")
	assert.Contains(t, buf.String(), "parameter=count")
	assert.Contains(t, buf.String(), "deploying")
}

func TestPrintError_WrappedCLIError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := captureLogs(t, false, false)

	err := fmt.Errorf("outer: %w", NewErrorWithFix("no template", "pass --template-file"))
	PrintError(err)
	assert.Contains(t, buf.String(), "no template")
	assert.Contains(t, buf.String(), "Fix: pass --template-file")
}

func TestPrintError_JSONMode(t *testing.T) {
	captureLogs(t, false, true)
	var out bytes.Buffer
	orig := Stdout
	Stdout = &out
	t.Cleanup(func() { Stdout = orig })

	PrintError(NewError("no template"))
	assert.JSONEq(t, `{"status":"error","error":"no template"}`, out.String())
}
