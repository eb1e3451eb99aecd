package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/armparams"
	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/deploy"
	"github.com/kjourdan1/meshctl/internal/output"
	"github.com/kjourdan1/meshctl/internal/template"
)

var deploymentCmd = &cobra.Command{
	Use:     "deployment",
	Aliases: []string{"deploy"},
	Short:   "Deploy Service Fabric Mesh applications from ARM templates",
}

var deploymentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Deploy an ARM template to a resource group",
	Long: heredoc.Doc(`
		Resolve the template parameters and submit an incremental deployment.

		Each --parameters value is a parameter file path, an inline JSON
		object, or a single key=value pair; the value after '=' is taken
		verbatim, spaces included. Files and JSON objects may wrap their
		entries in a "parameters" key. Later values replace earlier ones.

		Required parameters that are still missing are prompted for. Without
		a terminal (or with --ci) the command fails, unless --accept-fallback
		is set.
	`),
	Example: heredoc.Doc(`
		meshctl deployment create -g rg-mesh --template-file mesh.json -p params.json
		meshctl deployment create -g rg-mesh --template-uri https://example.com/mesh.json -p location=westus -p replicas=3
		meshctl deployment create -g rg-mesh --template-file mesh.json -p "description=my mesh app" -p 'tags={"env": "dev"}'
	`),
	Args: cobra.NoArgs,
	RunE: runDeploymentCreate,
}

var deploymentShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the status of a deployment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeploymentShow,
}

var deploymentParametersCmd = &cobra.Command{
	Use:   "parameters",
	Short: "Resolve template parameters without deploying",
	Long: heredoc.Doc(`
		Merge and prompt for parameters exactly like "deployment create", then
		print the resulting ARM parameters object. The output can be passed
		back with --parameters.
	`),
	Args: cobra.NoArgs,
	RunE: runDeploymentParameters,
}

var (
	deployTemplateFile string
	deployTemplateURI  string
	deployParameters   []string
	deployName         string
	deployMode         string
	deployNoWait       bool
	deployValidateOnly bool
)

func init() {
	for _, c := range []*cobra.Command{deploymentCreateCmd, deploymentParametersCmd} {
		c.Flags().StringVar(&deployTemplateFile, "template-file", "", "local path to the ARM template")
		c.Flags().StringVar(&deployTemplateURI, "template-uri", "", "HTTPS URI of the ARM template")
		c.Flags().StringArrayVarP(&deployParameters, "parameters", "p", nil, "parameter file, inline JSON or key=value pairs (repeatable)")
		c.MarkFlagsMutuallyExclusive("template-file", "template-uri")
	}
	deploymentCreateCmd.Flags().StringVarP(&deployName, "name", "n", "", "deployment name (default: template file name)")
	deploymentCreateCmd.Flags().StringVar(&deployMode, "mode", deploy.ModeIncremental, "deployment mode; only Incremental is supported")
	deploymentCreateCmd.Flags().BoolVar(&deployNoWait, "no-wait", false, "do not wait for the deployment to finish")
	deploymentCreateCmd.Flags().BoolVar(&deployValidateOnly, "validate-only", false, "validate the deployment without creating it")

	deploymentCmd.AddCommand(deploymentCreateCmd, deploymentShowCmd, deploymentParametersCmd)
	rootCmd.AddCommand(deploymentCmd)
}

// parameterGroups turns --parameters values into one group per flag
// occurrence. A value is never split, so key=value strings keep their spaces
// and formatted JSON survives. Blank values are dropped.
func parameterGroups(values []string) [][]string {
	groups := make([][]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		groups = append(groups, []string{v})
	}
	return groups
}

func templateSource() (template.Source, error) {
	src := template.Source{File: deployTemplateFile, URI: deployTemplateURI}
	return src, src.Validate()
}

func newLoader(s *config.Settings) *template.Loader {
	l := template.NewLoader()
	l.Fs = appFs
	l.Retry.MaxAttempts = s.RetryAttempts + 1
	return l
}

// resolveParameters loads the template at src and resolves its parameters.
func resolveParameters(ctx context.Context, s *config.Settings, p armparams.Prompter, src template.Source) (*template.Loaded, *armparams.Parameters, error) {
	loaded, err := newLoader(s).Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	resolver := &armparams.Resolver{
		Prompter:       p,
		Logger:         output.Logger(),
		Fs:             appFs,
		AcceptFallback: s.AcceptFallback,
	}
	params, err := resolver.Resolve(loaded.Template, parameterGroups(deployParameters))
	if err != nil {
		return nil, nil, err
	}
	return loaded, params, nil
}

func runDeploymentCreate(cmd *cobra.Command, _ []string) error {
	src, err := templateSource()
	if err != nil {
		return err
	}
	sess, err := connect(cmd)
	if err != nil {
		return err
	}
	rg, err := requireResourceGroup(sess.Settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	loaded, params, err := resolveParameters(ctx, sess.Settings, sess.Prompter, src)
	if err != nil {
		return err
	}

	client, err := newDeploymentsClient(sess.Subscription, sess.Credential, sess.clientOptions())
	if err != nil {
		return err
	}
	deployer := &deploy.Deployer{Client: client, Logger: output.Logger()}

	name := deployName
	if name == "" {
		name = deploy.DefaultName(deployTemplateFile)
	}

	if !deployNoWait && sess.Settings.DeploymentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sess.Settings.DeploymentTimeout)
		defer cancel()
	}

	var result *deploy.Result
	run := func() error {
		var runErr error
		result, runErr = deployer.Deploy(ctx, deploy.Request{
			ResourceGroup: rg,
			Name:          name,
			Template:      loaded.Body,
			TemplateLink:  loaded.Link,
			Parameters:    params,
			Mode:          deployMode,
			ValidateOnly:  deployValidateOnly,
			NoWait:        deployNoWait,
		})
		return runErr
	}
	if deployNoWait || jsonOutput {
		err = run()
	} else {
		err = output.WithSpinner(fmt.Sprintf("Deploying %s to %s", name, rg), run)
	}
	if result != nil {
		if renderErr := render(sess.Settings, deploymentView{result}); renderErr != nil && err == nil {
			err = renderErr
		}
	}
	if err != nil {
		return err
	}

	if !deployValidateOnly {
		output.Info(fmt.Sprintf("Deployment %s %s. Check application status with: meshctl app show -g %s <application>",
			name, strings.ToLower(result.Status), rg))
	}
	return nil
}

func runDeploymentShow(cmd *cobra.Command, args []string) error {
	sess, err := connect(cmd)
	if err != nil {
		return err
	}
	rg, err := requireResourceGroup(sess.Settings)
	if err != nil {
		return err
	}
	client, err := newDeploymentsClient(sess.Subscription, sess.Credential, sess.clientOptions())
	if err != nil {
		return err
	}
	result, err := (&deploy.Deployer{Client: client, Logger: output.Logger()}).Show(cmd.Context(), rg, args[0])
	if err != nil {
		return err
	}
	return render(sess.Settings, deploymentView{result})
}

func runDeploymentParameters(cmd *cobra.Command, _ []string) error {
	src, err := templateSource()
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	_, params, err := resolveParameters(cmd.Context(), s, newPrompter(), src)
	if err != nil {
		return err
	}
	output.Debug("Parameters resolved", "count", params.Len(), "elapsed", time.Since(start))

	format := output.FormatJSON
	if s.Output == output.FormatYAML && !jsonOutput {
		format = output.FormatYAML
	}
	return output.Render(output.Stdout, format, params)
}
