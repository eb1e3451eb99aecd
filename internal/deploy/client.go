package deploy

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// DeploymentsClient is the subset of the ARM deployments API used by meshctl.
type DeploymentsClient interface {
	// CreateOrUpdate submits a deployment. When wait is false it returns as
	// soon as ARM accepts the request.
	CreateOrUpdate(ctx context.Context, resourceGroup, name string, d armresources.Deployment, wait bool) (*armresources.DeploymentExtended, error)
	Validate(ctx context.Context, resourceGroup, name string, d armresources.Deployment, wait bool) (*armresources.DeploymentValidateResult, error)
	Get(ctx context.Context, resourceGroup, name string) (*armresources.DeploymentExtended, error)
}

type armDeploymentsClient struct {
	client *armresources.DeploymentsClient
	poll   *runtime.PollUntilDoneOptions
}

// NewARMDeploymentsClient adapts the Azure SDK deployments client.
func NewARMDeploymentsClient(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (DeploymentsClient, error) {
	c, err := armresources.NewDeploymentsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	return &armDeploymentsClient{client: c}, nil
}

func (a *armDeploymentsClient) CreateOrUpdate(ctx context.Context, resourceGroup, name string, d armresources.Deployment, wait bool) (*armresources.DeploymentExtended, error) {
	poller, err := a.client.BeginCreateOrUpdate(ctx, resourceGroup, name, d, nil)
	if err != nil {
		return nil, err
	}
	if !wait {
		return accepted(name), nil
	}
	resp, err := poller.PollUntilDone(ctx, a.poll)
	if err != nil {
		return nil, err
	}
	return &resp.DeploymentExtended, nil
}

func (a *armDeploymentsClient) Validate(ctx context.Context, resourceGroup, name string, d armresources.Deployment, wait bool) (*armresources.DeploymentValidateResult, error) {
	poller, err := a.client.BeginValidate(ctx, resourceGroup, name, d, nil)
	if err != nil {
		return nil, err
	}
	if !wait {
		return &armresources.DeploymentValidateResult{
			Properties: &armresources.DeploymentPropertiesExtended{
				ProvisioningState: to.Ptr(armresources.ProvisioningStateAccepted),
			},
		}, nil
	}
	resp, err := poller.PollUntilDone(ctx, a.poll)
	if err != nil {
		return nil, err
	}
	return &resp.DeploymentValidateResult, nil
}

func (a *armDeploymentsClient) Get(ctx context.Context, resourceGroup, name string) (*armresources.DeploymentExtended, error) {
	resp, err := a.client.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, err
	}
	return &resp.DeploymentExtended, nil
}

func accepted(name string) *armresources.DeploymentExtended {
	return &armresources.DeploymentExtended{
		Name: to.Ptr(name),
		Properties: &armresources.DeploymentPropertiesExtended{
			ProvisioningState: to.Ptr(armresources.ProvisioningStateAccepted),
		},
	}
}
