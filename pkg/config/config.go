package config

// Config is the umbrella configuration object that encapsulates the masking
// policy and the options controlling where it comes from.
// This is the primary object returned by Initialize() and used throughout the application.
type Config struct {
	configDir string // Configuration directory path (for reference)

	// Policy source and reload options
	Policy *PolicyOptions

	// Masking policy (handler switches + type field specifications)
	PolicyRegistry *PolicyRegistry
}

// Initialize is defined in loader.go

// Stats contains statistics about loaded configuration
type Stats struct {
	Properties      int `json:"properties"`
	Handlers        int `json:"handlers"`
	EnabledHandlers int `json:"enabled_handlers"`
	Types           int `json:"types"`
}

// Stats returns configuration statistics for logging/monitoring
func (c *Config) Stats() Stats {
	if c.PolicyRegistry == nil {
		return Stats{}
	}
	return c.PolicyRegistry.Stats()
}

// ConfigDir returns the configuration directory path
func (c *Config) ConfigDir() string {
	return c.configDir
}

// PolicyFile returns the path of the policy file inside the configuration directory.
func (c *Config) PolicyFile() string {
	return policyFilePath(c.configDir)
}
