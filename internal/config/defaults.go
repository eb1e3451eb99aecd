package config

import "time"

const (
	DefaultOutput            = "table"
	DefaultMeshAPIVersion    = "2018-09-01-preview"
	DefaultDeploymentTimeout = 30 * time.Minute
	DefaultRetryAttempts     = 3
)

// ApplyDefaults fills in default values for optional fields that were not
// specified. It is called after loading and before validation.
func ApplyDefaults(s *Settings) {
	if s.Output == "" {
		s.Output = DefaultOutput
	}
	if s.MeshAPIVersion == "" {
		s.MeshAPIVersion = DefaultMeshAPIVersion
	}
	if s.DeploymentTimeout == 0 {
		s.DeploymentTimeout = DefaultDeploymentTimeout
	}
	if s.RetryAttempts == 0 {
		s.RetryAttempts = DefaultRetryAttempts
	}
}
