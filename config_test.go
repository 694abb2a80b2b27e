package callgate

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Agent.DefaultName = "ivy"
	return cfg
}

func TestValidateDefaultsWithAgent(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty prefix", func(c *Config) { c.KeyStore.RedisPrefix = "" }},
		{"zero lookup timeout", func(c *Config) { c.KeyStore.LookupTimeout = 0 }},
		{"cache without ttl", func(c *Config) {
			c.KeyStore.CacheEnabled = true
			c.KeyStore.CacheTTL = 0
		}},
		{"stale without cache", func(c *Config) {
			c.KeyStore.CacheEnabled = false
			c.KeyStore.ServeStaleOnError = true
		}},
		{"zero call timeout", func(c *Config) { c.Media.CallTimeout = 0 }},
		{"zero token ttl", func(c *Config) { c.Media.TokenTTL = 0 }},
		{"no default agent", func(c *Config) { c.Agent.DefaultName = "" }},
		{"audit without buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted invalid config")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.KeyStore.LookupTimeout != 2*time.Second {
		t.Fatalf("LookupTimeout = %v", cfg.KeyStore.LookupTimeout)
	}
	if cfg.Media.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.Media.TokenTTL)
	}
	if cfg.KeyStore.ServeStaleOnError {
		t.Fatal("ServeStaleOnError must default to off")
	}
	if cfg.Audit.Enabled || cfg.Metrics.Enabled {
		t.Fatal("observability must default to off")
	}
}
