// Package config provides the settings schema, loader, validator, and
// default values for meshctl.yaml.
//
// Settings come from, in order of precedence: command-line flags, MESHCTL_*
// environment variables, and the config file.
package config

import "time"

// Settings is the root struct matching meshctl.yaml.
type Settings struct {
	Subscription      string        `yaml:"subscription,omitempty" mapstructure:"subscription" json:"subscription,omitempty" validate:"omitempty,uuid"`
	Tenant            string        `yaml:"tenant,omitempty" mapstructure:"tenant" json:"tenant,omitempty"`
	ResourceGroup     string        `yaml:"resourceGroup,omitempty" mapstructure:"resourceGroup" json:"resourceGroup,omitempty" validate:"omitempty,max=90,resource_group"`
	Location          string        `yaml:"location,omitempty" mapstructure:"location" json:"location,omitempty" validate:"omitempty,location"`
	Output            string        `yaml:"output,omitempty" mapstructure:"output" json:"output,omitempty" validate:"omitempty,oneof=table json yaml"`
	AcceptFallback    bool          `yaml:"acceptFallback,omitempty" mapstructure:"acceptFallback" json:"acceptFallback,omitempty"`
	MeshAPIVersion    string        `yaml:"meshApiVersion,omitempty" mapstructure:"meshApiVersion" json:"meshApiVersion,omitempty" validate:"omitempty,api_version"`
	DeploymentTimeout time.Duration `yaml:"deploymentTimeout,omitempty" mapstructure:"deploymentTimeout" json:"deploymentTimeout,omitempty" validate:"min=0"`
	RetryAttempts     int           `yaml:"retryAttempts,omitempty" mapstructure:"retryAttempts" json:"retryAttempts,omitempty" validate:"min=0,max=10"`
}

// Setting keys, shared by the file, viper and flag bindings.
const (
	KeySubscription      = "subscription"
	KeyTenant            = "tenant"
	KeyResourceGroup     = "resourceGroup"
	KeyLocation          = "location"
	KeyOutput            = "output"
	KeyAcceptFallback    = "acceptFallback"
	KeyMeshAPIVersion    = "meshApiVersion"
	KeyDeploymentTimeout = "deploymentTimeout"
	KeyRetryAttempts     = "retryAttempts"
)

// EnvVars maps each setting key to its environment variable.
var EnvVars = map[string]string{
	KeySubscription:      "MESHCTL_SUBSCRIPTION",
	KeyTenant:            "MESHCTL_TENANT",
	KeyResourceGroup:     "MESHCTL_RESOURCE_GROUP",
	KeyLocation:          "MESHCTL_LOCATION",
	KeyOutput:            "MESHCTL_OUTPUT",
	KeyAcceptFallback:    "MESHCTL_ACCEPT_FALLBACK",
	KeyMeshAPIVersion:    "MESHCTL_MESH_API_VERSION",
	KeyDeploymentTimeout: "MESHCTL_DEPLOYMENT_TIMEOUT",
	KeyRetryAttempts:     "MESHCTL_RETRY_ATTEMPTS",
}

// FileName is the config file base name, searched in the working directory
// and in $HOME/.meshctl.
const FileName = "meshctl.yaml"
