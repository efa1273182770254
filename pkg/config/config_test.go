package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigStats(t *testing.T) {
	cfg := &Config{
		configDir: "/etc/respmask",
		Policy:    DefaultPolicyOptions(),
		PolicyRegistry: NewPolicyRegistry(map[string]string{
			"GET /accounts.mask": "true",
			"bank.Account.mask":  "iban",
		}),
	}

	assert.Equal(t, Stats{Properties: 2, Handlers: 1, EnabledHandlers: 1, Types: 1}, cfg.Stats())
	assert.Equal(t, "/etc/respmask", cfg.ConfigDir())
	assert.Equal(t, "/etc/respmask/respmask.yaml", cfg.PolicyFile())
}

func TestConfigStatsWithoutRegistry(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, Stats{}, cfg.Stats())
}
