package crossconnect

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
)

// Client is the subset of the ExpressRoute cross-connection API used by
// meshctl.
type Client interface {
	List(ctx context.Context, resourceGroup string) ([]*armnetwork.ExpressRouteCrossConnection, error)
	Get(ctx context.Context, resourceGroup, name string) (*armnetwork.ExpressRouteCrossConnection, error)
	CreateOrUpdate(ctx context.Context, resourceGroup, name string, cc armnetwork.ExpressRouteCrossConnection) (*armnetwork.ExpressRouteCrossConnection, error)

	ListPeerings(ctx context.Context, resourceGroup, crossConnection string) ([]*armnetwork.ExpressRouteCrossConnectionPeering, error)
	GetPeering(ctx context.Context, resourceGroup, crossConnection, name string) (*armnetwork.ExpressRouteCrossConnectionPeering, error)
	CreateOrUpdatePeering(ctx context.Context, resourceGroup, crossConnection, name string, p armnetwork.ExpressRouteCrossConnectionPeering) (*armnetwork.ExpressRouteCrossConnectionPeering, error)
	DeletePeering(ctx context.Context, resourceGroup, crossConnection, name string) error
}

type armClient struct {
	connections *armnetwork.ExpressRouteCrossConnectionsClient
	peerings    *armnetwork.ExpressRouteCrossConnectionPeeringsClient
}

// NewARMClient adapts the armnetwork cross-connection and peering clients.
func NewARMClient(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (Client, error) {
	factory, err := armnetwork.NewClientFactory(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	return &armClient{
		connections: factory.NewExpressRouteCrossConnectionsClient(),
		peerings:    factory.NewExpressRouteCrossConnectionPeeringsClient(),
	}, nil
}

func (a *armClient) List(ctx context.Context, resourceGroup string) ([]*armnetwork.ExpressRouteCrossConnection, error) {
	var out []*armnetwork.ExpressRouteCrossConnection
	if resourceGroup != "" {
		pager := a.connections.NewListByResourceGroupPager(resourceGroup, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, page.Value...)
		}
		return out, nil
	}

	pager := a.connections.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Value...)
	}
	return out, nil
}

func (a *armClient) Get(ctx context.Context, resourceGroup, name string) (*armnetwork.ExpressRouteCrossConnection, error) {
	resp, err := a.connections.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, err
	}
	return &resp.ExpressRouteCrossConnection, nil
}

func (a *armClient) CreateOrUpdate(ctx context.Context, resourceGroup, name string, cc armnetwork.ExpressRouteCrossConnection) (*armnetwork.ExpressRouteCrossConnection, error) {
	poller, err := a.connections.BeginCreateOrUpdate(ctx, resourceGroup, name, cc, nil)
	if err != nil {
		return nil, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &resp.ExpressRouteCrossConnection, nil
}

func (a *armClient) ListPeerings(ctx context.Context, resourceGroup, crossConnection string) ([]*armnetwork.ExpressRouteCrossConnectionPeering, error) {
	var out []*armnetwork.ExpressRouteCrossConnectionPeering
	pager := a.peerings.NewListPager(resourceGroup, crossConnection, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Value...)
	}
	return out, nil
}

func (a *armClient) GetPeering(ctx context.Context, resourceGroup, crossConnection, name string) (*armnetwork.ExpressRouteCrossConnectionPeering, error) {
	resp, err := a.peerings.Get(ctx, resourceGroup, crossConnection, name, nil)
	if err != nil {
		return nil, err
	}
	return &resp.ExpressRouteCrossConnectionPeering, nil
}

func (a *armClient) CreateOrUpdatePeering(ctx context.Context, resourceGroup, crossConnection, name string, p armnetwork.ExpressRouteCrossConnectionPeering) (*armnetwork.ExpressRouteCrossConnectionPeering, error) {
	poller, err := a.peerings.BeginCreateOrUpdate(ctx, resourceGroup, crossConnection, name, p, nil)
	if err != nil {
		return nil, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &resp.ExpressRouteCrossConnectionPeering, nil
}

func (a *armClient) DeletePeering(ctx context.Context, resourceGroup, crossConnection, name string) error {
	poller, err := a.peerings.BeginDelete(ctx, resourceGroup, crossConnection, name, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}
