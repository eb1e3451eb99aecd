package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/output"
)

// Set with -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	BuildDate      string `json:"buildDate"`
	GoVersion      string `json:"goVersion"`
	MeshAPIVersion string `json:"meshApiVersion"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:        Version,
		Commit:         Commit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		MeshAPIVersion: config.DefaultMeshAPIVersion,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the meshctl build and the Mesh API version it targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := currentVersion()
		if jsonOutput {
			return output.Render(cmd.OutOrStdout(), output.FormatJSON, v)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(),
			"meshctl version %s (commit: %s, built: %s, %s)\nService Fabric Mesh API: %s (default)\n",
			v.Version, v.Commit, v.BuildDate, v.GoVersion, v.MeshAPIVersion)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
