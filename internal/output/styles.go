package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// NoColor reports whether NO_COLOR is set, whatever its value.
func NoColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

var (
	colorHeader = lipgloss.Color("#3498DB")

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	styleCell   = lipgloss.NewStyle()
)

// headerStyle is the table header style, plain under NO_COLOR.
func headerStyle() lipgloss.Style {
	if NoColor() {
		return styleCell
	}
	return styleHeader
}

// marker is the prefix put in front of a status line.
type marker struct {
	glyph string
	plain string
}

var (
	markSuccess = marker{glyph: "✅", plain: "[OK]"}
	markFail    = marker{glyph: "❌", plain: "[FAIL]"}
	markStep    = marker{glyph: "▸", plain: ">>"}
	markFix     = marker{glyph: "💡", plain: "Fix:"}
)

func (m marker) prefix(msg string) string {
	if NoColor() {
		return m.plain + " " + msg
	}
	return m.glyph + " " + msg
}
