package mesh

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// ResourceRef identifies one resource of the generic resource API.
type ResourceRef struct {
	ResourceGroup string
	Namespace     string
	Type          string
	Name          string
	APIVersion    string
}

// ResourcesClient is the subset of the generic ARM resource API used for
// mesh resources.
type ResourcesClient interface {
	Get(ctx context.Context, ref ResourceRef) (*armresources.GenericResource, error)
	CreateOrUpdate(ctx context.Context, ref ResourceRef, body armresources.GenericResource) (*armresources.GenericResource, error)
	Delete(ctx context.Context, ref ResourceRef) error

	// List returns the resources matching filter, in resourceGroup or the
	// whole subscription when resourceGroup is empty.
	List(ctx context.Context, resourceGroup, filter string) ([]*armresources.GenericResourceExpanded, error)
}

type armResourcesClient struct {
	client *armresources.Client
}

// NewARMResourcesClient adapts the Azure SDK generic resources client.
func NewARMResourcesClient(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (ResourcesClient, error) {
	c, err := armresources.NewClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	return &armResourcesClient{client: c}, nil
}

func (a *armResourcesClient) Get(ctx context.Context, ref ResourceRef) (*armresources.GenericResource, error) {
	resp, err := a.client.Get(ctx, ref.ResourceGroup, ref.Namespace, "", ref.Type, ref.Name, ref.APIVersion, nil)
	if err != nil {
		return nil, err
	}
	return &resp.GenericResource, nil
}

func (a *armResourcesClient) CreateOrUpdate(ctx context.Context, ref ResourceRef, body armresources.GenericResource) (*armresources.GenericResource, error) {
	poller, err := a.client.BeginCreateOrUpdate(ctx, ref.ResourceGroup, ref.Namespace, "", ref.Type, ref.Name, ref.APIVersion, body, nil)
	if err != nil {
		return nil, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &resp.GenericResource, nil
}

func (a *armResourcesClient) Delete(ctx context.Context, ref ResourceRef) error {
	poller, err := a.client.BeginDelete(ctx, ref.ResourceGroup, ref.Namespace, "", ref.Type, ref.Name, ref.APIVersion, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

func (a *armResourcesClient) List(ctx context.Context, resourceGroup, filter string) ([]*armresources.GenericResourceExpanded, error) {
	var out []*armresources.GenericResourceExpanded
	if resourceGroup != "" {
		pager := a.client.NewListByResourceGroupPager(resourceGroup, &armresources.ClientListByResourceGroupOptions{Filter: to.Ptr(filter)})
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, page.Value...)
		}
		return out, nil
	}

	pager := a.client.NewListPager(&armresources.ClientListOptions{Filter: to.Ptr(filter)})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Value...)
	}
	return out, nil
}
