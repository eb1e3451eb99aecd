package cmd

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/armparams"
	"github.com/kjourdan1/meshctl/internal/azauth"
	"github.com/kjourdan1/meshctl/internal/config"
	"github.com/kjourdan1/meshctl/internal/crossconnect"
	"github.com/kjourdan1/meshctl/internal/deploy"
	"github.com/kjourdan1/meshctl/internal/mesh"
	"github.com/kjourdan1/meshctl/internal/prompt"
)

// Prompter is what commands need from the terminal.
type Prompter interface {
	armparams.Prompter
	Confirm(label string, defaultValue bool) (bool, error)
}

// Factories for the collaborators commands use. Tests replace them.
var (
	appFs afero.Fs = afero.NewOsFs()

	login = azauth.Login

	newSubscriptionLister = azauth.NewSubscriptionLister

	newPrompter = func() Prompter {
		if effectiveCIMode() || !prompt.IsInteractive() {
			return prompt.NewSurveyPrompter(prompt.WithNonInteractive())
		}
		return prompt.NewSurveyPrompter()
	}

	newDeploymentsClient = func(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (deploy.DeploymentsClient, error) {
		return deploy.NewARMDeploymentsClient(subscriptionID, cred, opts)
	}

	newResourcesClient = func(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (mesh.ResourcesClient, error) {
		return mesh.NewARMResourcesClient(subscriptionID, cred, opts)
	}

	newCrossConnectClient = func(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (crossconnect.Client, error) {
		return crossconnect.NewARMClient(subscriptionID, cred, opts)
	}
)

// session is the authenticated context shared by Azure-facing commands.
type session struct {
	Settings     *config.Settings
	Subscription string
	Credential   azcore.TokenCredential
	Prompter     Prompter
}

// connect loads settings, authenticates and picks the subscription.
func connect(cmd *cobra.Command) (*session, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	p := newPrompter()

	cred, err := login(cmd.Context(), azauth.Options{
		TenantID:    s.Tenant,
		Interactive: !effectiveCIMode(),
		Verbose:     verbosity > 0,
		Out:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	var lister azauth.SubscriptionLister
	if s.Subscription == "" {
		if lister, err = newSubscriptionLister(cred.TokenCredential); err != nil {
			return nil, err
		}
	}
	sub, err := azauth.ResolveSubscription(cmd.Context(), s.Subscription, lister, p)
	if err != nil {
		return nil, err
	}

	return &session{Settings: s, Subscription: sub, Credential: cred.TokenCredential, Prompter: p}, nil
}

// clientOptions applies the retry settings to ARM clients.
func (s *session) clientOptions() *arm.ClientOptions {
	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: int32(s.Settings.RetryAttempts)},
		},
	}
}

func (s *session) meshService() (*mesh.Service, error) {
	client, err := newResourcesClient(s.Subscription, s.Credential, s.clientOptions())
	if err != nil {
		return nil, err
	}
	return mesh.NewService(client, s.Settings.MeshAPIVersion), nil
}

func (s *session) crossConnectService() (*crossconnect.Service, error) {
	client, err := newCrossConnectClient(s.Subscription, s.Credential, s.clientOptions())
	if err != nil {
		return nil, err
	}
	return &crossconnect.Service{Client: client}, nil
}
