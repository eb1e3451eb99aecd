package cmd

import (
	"context"
	"fmt"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCrossConnect struct {
	items    map[string]*armnetwork.ExpressRouteCrossConnection
	peerings map[string]*armnetwork.ExpressRouteCrossConnectionPeering
	deleted  []string
}

func newFakeCrossConnect() *fakeCrossConnect {
	return &fakeCrossConnect{
		items: map[string]*armnetwork.ExpressRouteCrossConnection{
			"xc1": {
				Name:     to.Ptr("xc1"),
				Location: to.Ptr("westus"),
				Properties: &armnetwork.ExpressRouteCrossConnectionProperties{
					PeeringLocation:                  to.Ptr("Silicon Valley"),
					BandwidthInMbps:                  to.Ptr[int32](200),
					ServiceProviderProvisioningState: to.Ptr(armnetwork.ServiceProviderProvisioningStateNotProvisioned),
				},
			},
		},
		peerings: map[string]*armnetwork.ExpressRouteCrossConnectionPeering{},
	}
}

func (f *fakeCrossConnect) List(context.Context, string) ([]*armnetwork.ExpressRouteCrossConnection, error) {
	out := make([]*armnetwork.ExpressRouteCrossConnection, 0, len(f.items))
	for _, cc := range f.items {
		out = append(out, cc)
	}
	return out, nil
}

func (f *fakeCrossConnect) Get(_ context.Context, _, name string) (*armnetwork.ExpressRouteCrossConnection, error) {
	cc, ok := f.items[name]
	if !ok {
		return nil, fmt.Errorf("cross-connection %s not found", name)
	}
	copied := *cc
	return &copied, nil
}

func (f *fakeCrossConnect) CreateOrUpdate(_ context.Context, _, name string, cc armnetwork.ExpressRouteCrossConnection) (*armnetwork.ExpressRouteCrossConnection, error) {
	f.items[name] = &cc
	return &cc, nil
}

func (f *fakeCrossConnect) ListPeerings(context.Context, string, string) ([]*armnetwork.ExpressRouteCrossConnectionPeering, error) {
	out := make([]*armnetwork.ExpressRouteCrossConnectionPeering, 0, len(f.peerings))
	for _, p := range f.peerings {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCrossConnect) GetPeering(_ context.Context, _, _, name string) (*armnetwork.ExpressRouteCrossConnectionPeering, error) {
	p, ok := f.peerings[name]
	if !ok {
		return nil, fmt.Errorf("peering %s not found", name)
	}
	return p, nil
}

func (f *fakeCrossConnect) CreateOrUpdatePeering(_ context.Context, _, _, name string, p armnetwork.ExpressRouteCrossConnectionPeering) (*armnetwork.ExpressRouteCrossConnectionPeering, error) {
	p.Name = to.Ptr(name)
	f.peerings[name] = &p
	return &p, nil
}

func (f *fakeCrossConnect) DeletePeering(_ context.Context, _, _, name string) error {
	f.deleted = append(f.deleted, name)
	delete(f.peerings, name)
	return nil
}

func TestCrossConnectionList(t *testing.T) {
	newTestEnv(t)

	stdout, _, err := executeCommand("cross-connection", "list", "-s", testSubscription)
	require.NoError(t, err)
	assert.Contains(t, stdout, "xc1")
	assert.Contains(t, stdout, "Silicon Valley")
	assert.Contains(t, stdout, "200 Mbps")
}

func TestCrossConnectionShow_RequiresResourceGroup(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCommand("cross-connection", "show", "-s", testSubscription, "-n", "xc1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource group is required")
}

func TestCrossConnectionUpdate(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand("cross-connection", "update", "-s", testSubscription, "-g", "rg-er",
		"-n", "xc1", "--provisioning-state", "provisioned", "--notes", "handed over", "--json")
	require.NoError(t, err)

	props := env.xc.items["xc1"].Properties
	assert.Equal(t, armnetwork.ServiceProviderProvisioningStateProvisioned, *props.ServiceProviderProvisioningState)
	assert.Equal(t, "handed over", *props.ServiceProviderNotes)
	assert.Equal(t, "Silicon Valley", *props.PeeringLocation, "unrelated fields survive the update")
	assert.Contains(t, stdout, `"serviceProviderProvisioningState": "Provisioned"`)
}

func TestCrossConnectionUpdate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nothing to update", nil, "nothing to update"},
		{"bad state", []string{"--provisioning-state", "Done"}, `invalid provisioning state "Done"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestEnv(t)
			args := append([]string{"cross-connection", "update", "-s", testSubscription, "-g", "rg-er", "-n", "xc1"}, tt.args...)
			_, _, err := executeCommand(args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPeeringCreateShowDelete(t *testing.T) {
	env := newTestEnv(t)
	base := []string{"-s", testSubscription, "-g", "rg-er", "--cross-connection-name", "xc1"}

	args := append([]string{"cross-connection", "peering", "create"}, base...)
	args = append(args, "--peering-type", "AzurePrivatePeering", "--peer-asn", "10002", "--vlan-id", "103",
		"--primary-peer-subnet", "10.0.0.0/30", "--secondary-peer-subnet", "10.0.0.4/30")
	_, _, err := executeCommand(args...)
	require.NoError(t, err)

	created, ok := env.xc.peerings["AzurePrivatePeering"]
	require.True(t, ok, "peering is named after its type")
	assert.Equal(t, int64(10002), *created.Properties.PeerASN)
	assert.Equal(t, int32(103), *created.Properties.VlanID)

	stdout, _, err := executeCommand(append([]string{"cross-connection", "peering", "show", "-n", "AzurePrivatePeering"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "10.0.0.0/30")

	_, _, err = executeCommand(append([]string{"cross-connection", "peering", "delete", "-n", "AzurePrivatePeering", "--yes"}, base...)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"AzurePrivatePeering"}, env.xc.deleted)
}

func TestPeeringCreate_MissingFlags(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCommand("cross-connection", "peering", "create", "-s", testSubscription, "-g", "rg-er",
		"--cross-connection-name", "xc1", "--peering-type", "AzurePrivatePeering")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "peer-asn")
}
