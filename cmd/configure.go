package cmd

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/output"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store default settings in meshctl.yaml",
	Long: heredoc.Doc(`
		Write the given settings to the meshctl config file
		(~/.meshctl/meshctl.yaml, or --config). Settings not named on the
		command line keep their stored value. Without any setting flag the
		stored settings are printed.
	`),
	Example: heredoc.Doc(`
		meshctl configure -g rg-mesh --location westus
		meshctl configure --subscription 00000000-0000-0000-0000-000000000001 --output json
	`),
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var (
	configureLocation          string
	configureMeshAPIVersion    string
	configureDeploymentTimeout time.Duration
	configureRetryAttempts     int
)

func init() {
	f := configureCmd.Flags()
	f.StringVarP(&configureLocation, "location", "l", "", "default Azure region")
	f.StringVar(&configureMeshAPIVersion, "mesh-api-version", "", "Service Fabric Mesh API version")
	f.DurationVar(&configureDeploymentTimeout, "deployment-timeout", 0, "how long deployment create waits")
	f.IntVar(&configureRetryAttempts, "retry-attempts", 0, "retries for ARM calls and template downloads")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	s, err := config.Load(appFs, path)
	if err != nil {
		return err
	}

	changed := false
	set := func(flag string, apply func()) {
		if cmd.Flags().Changed(flag) {
			apply()
			changed = true
		}
	}
	set("subscription", func() { s.Subscription = subscription })
	set("tenant", func() { s.Tenant = tenant })
	set("resource-group", func() { s.ResourceGroup = resourceGroup })
	set("output", func() { s.Output = outputFormat })
	set("accept-fallback", func() { s.AcceptFallback = acceptFallback })
	set("location", func() { s.Location = configureLocation })
	set("mesh-api-version", func() { s.MeshAPIVersion = configureMeshAPIVersion })
	set("deployment-timeout", func() { s.DeploymentTimeout = configureDeploymentTimeout })
	set("retry-attempts", func() { s.RetryAttempts = configureRetryAttempts })

	if !changed {
		return output.Render(output.Stdout, output.FormatYAML, s)
	}
	if err := config.Save(appFs, s, path); err != nil {
		return err
	}
	output.Success(fmt.Sprintf("Settings saved to %s", path))
	return nil
}
