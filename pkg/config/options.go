package config

import "time"

// PolicyOptions controls where the masking policy comes from and how it is refreshed.
type PolicyOptions struct {
	// Source selects the policy source: "file" or "database".
	Source PolicySource `yaml:"source"`

	// Watch enables hot reload of respmask.yaml.
	Watch bool `yaml:"watch"`

	// ReloadDebounce is how long the watcher waits after the last write
	// before reloading.
	ReloadDebounce time.Duration `yaml:"reload_debounce"`

	// RefreshInterval periodically reloads the policy when a database store
	// is configured. Zero disables periodic reloads.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DefaultPolicyOptions returns the built-in policy option defaults.
func DefaultPolicyOptions() *PolicyOptions {
	return &PolicyOptions{
		Source:          PolicySourceFile,
		Watch:           false,
		ReloadDebounce:  500 * time.Millisecond,
		RefreshInterval: 0,
	}
}
