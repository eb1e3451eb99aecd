package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/doctor"
	"github.com/kjourdan1/meshctl/internal/exitcode"
	"github.com/kjourdan1/meshctl/internal/output"
	"github.com/kjourdan1/meshctl/internal/prompt"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check prerequisites and environment readiness",
	Long: heredoc.Doc(`
		Verify the Azure CLI session, the Service Fabric Mesh and network
		resource provider registrations, the config file and whether
		parameters can be prompted for.

		Each check reports ✅ (pass), ❌ (fail), ⚠️ (warning) or ⏭️ (skip)
		with an actionable fix suggestion.

		Exit code 0 if all critical checks pass, 1 otherwise.
	`),
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// doctorExecutor runs the external commands checks rely on.
var doctorExecutor = doctor.NewRealExecutor

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	path, err := configFilePath()
	if err != nil {
		path = ""
	}
	summary := doctor.RunAll(cmd.Context(), doctorExecutor(), doctor.Options{
		Fs:         appFs,
		ConfigPath: path,
		Interactive: func() bool {
			return !effectiveCIMode() && prompt.IsInteractive()
		},
	})

	doctor.PrintResults(summary)

	if summary.HasFailure {
		return exitcode.Wrap(exitcode.Generic, output.NewError("prerequisite checks failed"))
	}
	return nil
}
