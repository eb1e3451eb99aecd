package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `subscription: 00000000-0000-0000-0000-000000000001
resourceGroup: mesh-rg
location: westeurope
acceptFallback: true
deploymentTimeout: 45m
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-0000-0000-000000000001", s.Subscription)
	assert.Equal(t, "mesh-rg", s.ResourceGroup)
	assert.Equal(t, "westeurope", s.Location)
	assert.True(t, s.AcceptFallback)
	assert.Equal(t, 45*time.Minute, s.DeploymentTimeout)
	assert.Empty(t, s.MeshAPIVersion, "Parse leaves defaults to ApplyDefaults")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("subscription: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(afero.NewMemMapFs(), "/nope/meshctl.yaml")
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, s)
}

func TestSaveThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.meshctl/meshctl.yaml"
	in := &Settings{ResourceGroup: "mesh-rg", Location: "eastus", RetryAttempts: 5}

	require.NoError(t, Save(fs, in, path))
	out, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "subscription", "unset fields are omitted")
}

func TestSave_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Error(t, Save(fs, nil, "/x.yaml"))
	assert.Error(t, Save(fs, &Settings{Location: "West Europe"}, "/x.yaml"))
}

func TestApplyDefaults(t *testing.T) {
	s := &Settings{RetryAttempts: 7}
	ApplyDefaults(s)
	assert.Equal(t, DefaultOutput, s.Output)
	assert.Equal(t, DefaultMeshAPIVersion, s.MeshAPIVersion)
	assert.Equal(t, DefaultDeploymentTimeout, s.DeploymentTimeout)
	assert.Equal(t, 7, s.RetryAttempts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		field   string
		wantErr bool
	}{
		{"empty", Settings{}, "", false},
		{"full", Settings{
			Subscription:   "00000000-0000-0000-0000-000000000001",
			ResourceGroup:  "my_rg-(1).x",
			Location:       "westeurope",
			Output:         "yaml",
			MeshAPIVersion: "2018-09-01-preview",
			RetryAttempts:  10,
		}, "", false},
		{"subscription not a guid", Settings{Subscription: "my-sub"}, "subscription", true},
		{"location with spaces", Settings{Location: "West Europe"}, "location", true},
		{"group ends with dot", Settings{ResourceGroup: "rg."}, "resourceGroup", true},
		{"unknown output", Settings{Output: "xml"}, "output", true},
		{"bad api version", Settings{MeshAPIVersion: "latest"}, "meshApiVersion", true},
		{"too many retries", Settings{RetryAttempts: 11}, "retryAttempts", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.s
			err := Validate(&s)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Contains(t, err.Error(), "invalid settings")
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	t.Setenv("MESHCTL_RESOURCE_GROUP", "env-rg")
	t.Setenv("MESHCTL_RETRY_ATTEMPTS", "4")

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(sampleYAML)))
	BindEnv(v)
	v.Set(KeyLocation, "northeurope")

	s, err := Resolve(v)
	require.NoError(t, err)
	assert.Equal(t, "env-rg", s.ResourceGroup, "env overrides file")
	assert.Equal(t, "northeurope", s.Location, "explicit value overrides file")
	assert.Equal(t, 4, s.RetryAttempts)
	assert.Equal(t, 45*time.Minute, s.DeploymentTimeout)
	assert.True(t, s.AcceptFallback)
	assert.Equal(t, DefaultMeshAPIVersion, s.MeshAPIVersion)
}

func TestResolve_Invalid(t *testing.T) {
	t.Setenv("MESHCTL_OUTPUT", "xml")
	v := viper.New()
	BindEnv(v)
	_, err := Resolve(v)
	assert.Error(t, err)
}
