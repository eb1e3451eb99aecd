package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/kjourdan1/meshctl/internal/output"
)

// StatusIcon returns the emoji/icon for a check status.
func StatusIcon(s Status) string {
	if output.NoColor() {
		switch s {
		case StatusPass:
			return "[PASS]"
		case StatusFail:
			return "[FAIL]"
		case StatusWarn:
			return "[WARN]"
		case StatusSkip:
			return "[SKIP]"
		default:
			return "[????]"
		}
	}
	switch s {
	case StatusPass:
		return "✅"
	case StatusFail:
		return "❌"
	case StatusWarn:
		return "⚠️"
	case StatusSkip:
		return "⏭️"
	default:
		return "❓"
	}
}

// PrintResults writes check results grouped by category to output.Stdout.
// The caller should check summary.HasFailure for the exit code.
func PrintResults(summary Summary) {
	if output.JSONMode {
		output.JSON(summary)
		return
	}
	WriteResults(output.Stdout, summary)
	printSummaryLine(summary)
}

// WriteResults renders the per-check lines without the summary log line.
func WriteResults(w io.Writer, summary Summary) {
	lastCategory := ""
	for _, r := range summary.Results {
		if r.Category != lastCategory {
			writeCategoryHeader(w, r.Category)
			lastCategory = r.Category
		}
		writeCheckResult(w, r)
	}
	fmt.Fprintln(w)
}

func categoryLabel(cat string) string {
	switch cat {
	case "tool":
		return "Required Tools"
	case "auth":
		return "Authentication"
	case "azure":
		return "Resource Providers"
	case "local":
		return "Local Environment"
	case "":
		return "Other"
	default:
		return strings.ToUpper(cat[:1]) + cat[1:]
	}
}

func writeCategoryHeader(w io.Writer, cat string) {
	label := categoryLabel(cat)
	fmt.Fprintln(w)
	if output.NoColor() {
		fmt.Fprintf(w, "--- %s ---\n", label)
	} else {
		fmt.Fprintf(w, "━━ %s ━━\n", label)
	}
}

func writeCheckResult(w io.Writer, r CheckResult) {
	fmt.Fprintf(w, "  %s  %s\n", StatusIcon(r.Status), r.Message)
	if r.Fix != "" && r.Status != StatusPass {
		if output.NoColor() {
			fmt.Fprintf(w, "       Fix: %s\n", r.Fix)
		} else {
			fmt.Fprintf(w, "       💡 %s\n", r.Fix)
		}
	}
}

func summaryLine(s Summary) string {
	parts := []string{}
	if s.TotalPass > 0 {
		parts = append(parts, fmt.Sprintf("%d passed", s.TotalPass))
	}
	if s.TotalWarn > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.TotalWarn))
	}
	if s.TotalFail > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.TotalFail))
	}
	if s.TotalSkip > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.TotalSkip))
	}
	return strings.Join(parts, ", ")
}

func printSummaryLine(s Summary) {
	line := summaryLine(s)
	switch {
	case s.HasFailure:
		output.Fail(fmt.Sprintf("Doctor found issues: %s", line))
	case s.TotalWarn > 0 || s.TotalFail > 0:
		output.Warn(fmt.Sprintf("Doctor completed with warnings: %s", line))
	default:
		output.Success(fmt.Sprintf("All checks passed (%d)", s.TotalPass))
	}
}
