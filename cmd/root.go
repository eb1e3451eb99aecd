// Package cmd implements the Cobra-based CLI for meshctl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/output"
)

var (
	cfgFile        string
	verbosity      int
	jsonOutput     bool // --json flag for machine-readable output
	ciMode         bool
	subscription   string
	tenant         string
	resourceGroup  string
	outputFormat   string
	acceptFallback bool
)

// flagKeys maps persistent flags onto setting keys.
var flagKeys = map[string]string{
	"subscription":    config.KeySubscription,
	"tenant":          config.KeyTenant,
	"resource-group":  config.KeyResourceGroup,
	"output":          config.KeyOutput,
	"accept-fallback": config.KeyAcceptFallback,
}

// rootCmd is the top-level command for meshctl.
var rootCmd = &cobra.Command{
	Use:   "meshctl",
	Short: "Service Fabric Mesh and ExpressRoute cross-connection CLI",
	Long: heredoc.Doc(`
		meshctl deploys Service Fabric Mesh applications from ARM templates and
		manages the mesh resources and ExpressRoute cross-connections they use.

		Template parameters are merged from parameter files, inline JSON and
		key=value pairs. Anything the template still requires is prompted for
		when a terminal is attached.

		Settings are read from meshctl.yaml (./ or ~/.meshctl/), MESHCTL_*
		environment variables and flags, flags winning.

		Workflow: configure → deployment create → app show`),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		output.Init(verbosity > 0, jsonOutput)
		output.SetOutput(cmd.ErrOrStderr())
		output.Stdout = cmd.OutOrStdout()
	},
}

// Execute runs the root command. Ctrl-C cancels in-flight Azure calls.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./meshctl.yaml, then ~/.meshctl/meshctl.yaml)")
	pf.CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv, -vvv)")
	pf.BoolVar(&jsonOutput, "json", false, "output results as JSON (machine-readable)")
	pf.BoolVar(&ciMode, "ci", false, "strict non-interactive mode (fails when required inputs are missing)")
	pf.StringVarP(&subscription, "subscription", "s", "", "Azure subscription ID")
	pf.StringVar(&tenant, "tenant", "", "Azure AD tenant ID the token has to belong to")
	pf.StringVarP(&resourceGroup, "resource-group", "g", "", "resource group name")
	pf.StringVarP(&outputFormat, "output", "o", "", "output format: "+strings.Join(output.Formats, ", "))
	pf.BoolVar(&acceptFallback, "accept-fallback", false, "use fallback values for parameters that cannot be prompted")
}

func effectiveCIMode() bool {
	if ciMode {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(os.Getenv("CI")), "true")
}

// loadSettings layers the config file, MESHCTL_* variables and the
// persistent flags of cmd into validated settings.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := viper.New()
	v.SetFs(appFs)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(config.FileName, filepath.Ext(config.FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".meshctl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		output.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	config.BindEnv(v)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	return config.Resolve(v)
}

// configFilePath returns the file configure writes to and doctor checks.
func configFilePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

// requireResourceGroup returns the resource group from flags or settings.
func requireResourceGroup(s *config.Settings) (string, error) {
	if s.ResourceGroup == "" {
		return "", output.NewErrorWithFix(
			"a resource group is required",
			"Pass --resource-group, set MESHCTL_RESOURCE_GROUP, or run: meshctl configure --resource-group <name>")
	}
	return s.ResourceGroup, nil
}

// render prints v in the configured format; --json wins over --output.
func render(s *config.Settings, v any) error {
	format := s.Output
	if jsonOutput {
		format = output.FormatJSON
	}
	return output.Render(output.Stdout, format, v)
}
