package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"sigs.k8s.io/yaml"
)

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Tabular is implemented by results that know their table layout.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Render writes v to w in format. The table format needs a Tabular value;
// anything else falls back to YAML.
func Render(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		return renderYAML(w, v)
	case FormatTable, "":
		t, ok := v.(Tabular)
		if !ok {
			return renderYAML(w, v)
		}
		_, err := fmt.Fprintln(w, Table(t.Headers(), t.Rows()))
		return err
	default:
		return fmt.Errorf("unknown output format %q, allowed values: %s", format, strings.Join(Formats, ", "))
	}
}

// Table renders rows under headers as a bordered table.
func Table(headers []string, rows [][]string) string {
	header := headerStyle()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return styleCell.Padding(0, 1)
		})
	return t.Render()
}

func renderYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
