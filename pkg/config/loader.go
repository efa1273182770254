package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// PolicyFileName is the policy file looked up in the configuration directory.
const PolicyFileName = "respmask.yaml"

// RespmaskYAMLConfig represents the complete respmask.yaml file structure
type RespmaskYAMLConfig struct {
	Policy     *PolicyOptions    `yaml:"policy"`
	Handlers   map[string]bool   `yaml:"handlers"`
	Types      map[string]string `yaml:"types"`
	Properties map[string]string `yaml:"properties"`
}

// PropertySource supplies policy properties from outside respmask.yaml
// (e.g. the database store). Later sources override earlier ones.
type PropertySource interface {
	LoadProperties(ctx context.Context) (map[string]string, error)
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load respmask.yaml from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge policy options over built-in defaults
//  5. Flatten handlers/types/properties into policy properties
//  6. Validate all configuration
//  7. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"policy_source", cfg.Policy.Source,
		"properties", stats.Properties,
		"handlers", stats.Handlers,
		"types", stats.Types)

	return cfg, nil
}

// Reload re-reads respmask.yaml, overlays the given sources, validates the
// result and swaps it into the policy registry. On error the registry keeps
// its previous content.
func (c *Config) Reload(ctx context.Context, overlays ...PropertySource) error {
	loader := &configLoader{configDir: c.configDir}
	yamlCfg, err := loader.loadRespmaskYAML()
	if err != nil {
		return NewLoadError(PolicyFileName, err)
	}

	properties := BuildProperties(yamlCfg)
	for _, src := range overlays {
		extra, err := src.LoadProperties(ctx)
		if err != nil {
			return fmt.Errorf("failed to load policy overlay: %w", err)
		}
		if properties, err = MergeProperties(properties, extra); err != nil {
			return err
		}
	}

	if err := validateProperties(properties); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	c.PolicyRegistry.Replace(properties)
	stats := c.PolicyRegistry.Stats()
	slog.Info("Masking policy reloaded",
		"properties", stats.Properties,
		"handlers", stats.Handlers,
		"types", stats.Types)
	return nil
}

// BuildProperties flattens a parsed respmask.yaml into policy properties.
// Raw properties come first; the handlers and types sections override them.
func BuildProperties(yc *RespmaskYAMLConfig) map[string]string {
	properties := make(map[string]string, len(yc.Properties)+len(yc.Handlers)+len(yc.Types))
	for key, value := range yc.Properties {
		properties[key] = value
	}
	for handler, enabled := range yc.Handlers {
		properties[PropertyKey(handler)] = strconv.FormatBool(enabled)
	}
	for typeName, spec := range yc.Types {
		properties[PropertyKey(typeName)] = spec
	}
	return properties
}

// MergeProperties returns base with overlay applied on top.
func MergeProperties(base, overlay map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(base)+len(overlay))
	if err := mergo.Merge(&merged, base); err != nil {
		return nil, fmt.Errorf("failed to merge policy properties: %w", err)
	}
	if err := mergo.Merge(&merged, overlay, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge policy properties: %w", err)
	}
	return merged, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{
		configDir: configDir,
	}

	// 1. Load respmask.yaml
	yamlCfg, err := loader.loadRespmaskYAML()
	if err != nil {
		return nil, NewLoadError(PolicyFileName, err)
	}

	// 2. Resolve policy options (YAML overrides built-in defaults)
	options := DefaultPolicyOptions()
	if yamlCfg.Policy != nil {
		if err := mergo.Merge(options, yamlCfg.Policy, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge policy options: %w", err)
		}
	}

	// 3. Build registry
	return &Config{
		configDir:      configDir,
		Policy:         options,
		PolicyRegistry: NewPolicyRegistry(BuildProperties(yamlCfg)),
	}, nil
}

// validate performs comprehensive validation on loaded configuration
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func policyFilePath(configDir string) string {
	return filepath.Join(configDir, PolicyFileName)
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand environment variables using {{.VAR}} template syntax
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadRespmaskYAML() (*RespmaskYAMLConfig, error) {
	var config RespmaskYAMLConfig

	// Initialize maps to avoid nil maps
	config.Handlers = make(map[string]bool)
	config.Types = make(map[string]string)
	config.Properties = make(map[string]string)

	if err := l.loadYAML(PolicyFileName, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
