package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadOptions configures the behavior of config loading
type LoadOptions struct {
	ValidateImmediately bool
	ResolvePaths        bool
	MergeFiles          bool
}

// LoadFromFile loads an ExperimentConfig from a YAML file
func LoadFromFile(path string, opts LoadOptions) (*ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := &ExperimentConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	resolver := NewPathResolver(filepath.Dir(path))
	if opts.ResolvePaths {
		config.ResolvePaths(resolver)
	}

	if opts.MergeFiles {
		if err := config.LoadAndMerge(); err != nil {
			return nil, fmt.Errorf("merging external files: %w", err)
		}
	}

	if opts.ValidateImmediately {
		errs := config.Validate()
		errs = append(errs, config.ValidateFiles(resolver)...)
		if len(errs) > 0 {
			return nil, fmt.Errorf("validation errors:\n%s", FormatValidationErrors(errs))
		}
	}

	return config, nil
}

// SaveToFile stamps the config's metadata and saves it to a YAML file
func SaveToFile(config *ExperimentConfig, path string) error {
	NewMetadataCollector(time.Now(), CurrentGitCommit).PopulateMetadata(config)

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ResolvePaths resolves all relative paths in the config to absolute paths
func (c *ExperimentConfig) ResolvePaths(resolver *PathResolver) {
	c.Input.Mesh.Path = resolver.ResolvePath(c.Input.Mesh.Path)
	c.Material.FromFile = resolver.ResolvePath(c.Material.FromFile)
}
