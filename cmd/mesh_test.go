package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/meshctl/internal/armparams"
	"github.com/kjourdan1/meshctl/internal/exitcode"
	"github.com/kjourdan1/meshctl/internal/mesh"
)

type fakeResources struct {
	listGroup  string
	listFilter string
	created    *armresources.GenericResource
	deleted    []mesh.ResourceRef
	got        []mesh.ResourceRef
}

func (f *fakeResources) Get(_ context.Context, ref mesh.ResourceRef) (*armresources.GenericResource, error) {
	f.got = append(f.got, ref)
	return &armresources.GenericResource{
		ID:         to.Ptr("/subscriptions/x/resourceGroups/" + ref.ResourceGroup + "/providers/" + ref.Namespace + "/" + ref.Type + "/" + ref.Name),
		Name:       to.Ptr(ref.Name),
		Type:       to.Ptr(ref.Namespace + "/" + ref.Type),
		Location:   to.Ptr("westus"),
		Properties: map[string]any{"provisioningState": "Succeeded"},
	}, nil
}

func (f *fakeResources) CreateOrUpdate(_ context.Context, ref mesh.ResourceRef, body armresources.GenericResource) (*armresources.GenericResource, error) {
	f.created = &body
	body.Name = to.Ptr(ref.Name)
	return &body, nil
}

func (f *fakeResources) Delete(_ context.Context, ref mesh.ResourceRef) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeResources) List(_ context.Context, resourceGroup, filter string) ([]*armresources.GenericResourceExpanded, error) {
	f.listGroup, f.listFilter = resourceGroup, filter
	return []*armresources.GenericResourceExpanded{
		{Name: to.Ptr("helloworld"), Type: to.Ptr("Microsoft.ServiceFabricMesh/applications"), Location: to.Ptr("westus"), ProvisioningState: to.Ptr("Succeeded")},
		{Name: to.Ptr("counter"), Type: to.Ptr("Microsoft.ServiceFabricMesh/applications"), Location: to.Ptr("eastus")},
	}, nil
}

func TestAppList_Subscription(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand("app", "list", "-s", testSubscription)
	require.NoError(t, err)
	assert.Empty(t, env.resources.listGroup)
	assert.Equal(t, "resourceType eq 'Microsoft.ServiceFabricMesh/applications'", env.resources.listFilter)
	assert.Contains(t, stdout, "helloworld")
	assert.Contains(t, stdout, "counter")
}

func TestAppList_ResourceGroupJSON(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand("app", "list", "-s", testSubscription, "-g", "rg-mesh", "--json")
	require.NoError(t, err)
	assert.Equal(t, "rg-mesh", env.resources.listGroup)

	var items []mesh.Resource
	require.NoError(t, json.Unmarshal([]byte(stdout), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "helloworld", items[0].Name)
}

func TestAppShow(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand("app", "show", "-s", testSubscription, "-g", "rg-mesh", "-n", "helloworld", "-o", "yaml")
	require.NoError(t, err)
	require.Len(t, env.resources.got, 1)
	assert.Equal(t, "applications", env.resources.got[0].Type)
	assert.Contains(t, stdout, "name: helloworld")
	assert.Contains(t, stdout, "provisioningState: Succeeded")
}

func TestNetworkShow_RequiresName(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCommand("network", "show", "-s", testSubscription, "-g", "rg-mesh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name" not set`)
}

func TestAppDelete(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		confirms    []bool
		promptErr   error
		wantDeleted bool
		wantCode    int
	}{
		{"yes flag", []string{"--yes"}, nil, nil, true, exitcode.OK},
		{"confirmed", nil, []bool{true}, nil, true, exitcode.OK},
		{"declined", nil, []bool{false}, nil, false, exitcode.Canceled},
		{"no terminal", nil, nil, armparams.ErrNoTTY, false, exitcode.NoTTY},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.prompter.err = tt.promptErr
			env.prompter.confirms = tt.confirms

			args := append([]string{"app", "delete", "-s", testSubscription, "-g", "rg-mesh", "-n", "helloworld"}, tt.args...)
			_, _, err := executeCommand(args...)
			assert.Equal(t, tt.wantCode, exitcode.Of(err))
			if tt.wantDeleted {
				require.Len(t, env.resources.deleted, 1)
				assert.Equal(t, "helloworld", env.resources.deleted[0].Name)
			} else {
				assert.Empty(t, env.resources.deleted)
			}
		})
	}
}

func TestVolumeCreate(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "volume.json", `{"properties": {"provider": "SFAzureFile", "azureFileParameters": {"shareName": "data"}}}`)

	_, _, err := executeCommand("volume", "create", "-s", testSubscription, "-g", "rg-mesh",
		"-n", "data", "--template-file", "volume.json", "--location", "westus")
	require.NoError(t, err)
	require.NotNil(t, env.resources.created)
	assert.Equal(t, "westus", *env.resources.created.Location)
	props, ok := env.resources.created.Properties.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SFAzureFile", props["provider"])
}

func TestVolumeCreate_LocationRequired(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "volume.json", `{"properties": {}}`)

	_, _, err := executeCommand("volume", "create", "-s", testSubscription, "-g", "rg-mesh", "-n", "data", "--template-file", "volume.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location is required")
	assert.Nil(t, env.resources.created)
}
