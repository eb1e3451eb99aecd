package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads a meshctl.yaml file. A missing file yields empty settings.
// Defaults are not applied, so Save writes back only what the user set.
func Load(fsys afero.Fs, path string) (*Settings, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses raw YAML bytes into Settings.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &s, nil
}

// DefaultPath returns $HOME/.meshctl/meshctl.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".meshctl", FileName), nil
}

// BindEnv registers the MESHCTL_* environment variables with v.
func BindEnv(v *viper.Viper) {
	for key, env := range EnvVars {
		_ = v.BindEnv(key, env)
	}
}

// Resolve builds the effective Settings from v, which carries the config
// file, environment and flag layers. Defaults are applied and the result is
// validated.
func Resolve(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	ApplyDefaults(&s)
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
