package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Save marshals the Settings to YAML and writes them to path, creating the
// parent directory.
func Save(fsys afero.Fs, s *Settings, path string) error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	if err := Validate(s); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
