package callgate

import (
	"errors"
	"time"
)

// Config holds the process-wide configuration for the token service.
//
// Config instances are intended to be loaded once at process start and then
// treated as immutable; they are passed explicitly to the components that
// consume them rather than read ad hoc per request.
type Config struct {
	KeyStore KeyStoreConfig
	Media    MediaConfig
	Agent    AgentConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
KEY STORE CONFIG
====================================
*/

// KeyStoreConfig controls credential resolution against the remote
// allow-list.
type KeyStoreConfig struct {
	// RedisPrefix namespaces all allow-list keys in the store.
	RedisPrefix string
	// LookupTimeout bounds a single store round-trip. An unbounded hang is
	// treated as a defect; on timeout the request fails with
	// ErrKeyStoreUnavailable.
	LookupTimeout time.Duration
	// CacheEnabled turns on the short-lived in-process cache of lookup
	// results. The store remains the source of truth; cache entries expire
	// at CacheTTL.
	CacheEnabled bool
	CacheTTL     time.Duration
	// ServeStaleOnError permits answering from an expired cache entry when
	// the store is unreachable. Off by default: serving stale results masks
	// key revocation.
	ServeStaleOnError bool
}

/*
====================================
MEDIA CONFIG
====================================
*/

// MediaConfig identifies the media-session service and bounds calls to it.
type MediaConfig struct {
	URL       string
	APIKey    string
	APISecret string
	// CallTimeout bounds the room-creation call.
	CallTimeout time.Duration
	// TokenTTL is the validity window of issued access tokens.
	TokenTTL time.Duration
}

// AgentConfig names the automated agent dispatched into each created room.
type AgentConfig struct {
	// DefaultName is the dispatch directive embedded when the request does
	// not name an agent. Fixed per deployment.
	DefaultName string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. Media credentials and
// the default agent name have no safe defaults and must be supplied before
// Build.
func DefaultConfig() Config {
	return Config{
		KeyStore: KeyStoreConfig{
			RedisPrefix:       "cg",
			LookupTimeout:     2 * time.Second,
			CacheEnabled:      false,
			CacheTTL:          30 * time.Second,
			ServeStaleOnError: false,
		},
		Media: MediaConfig{
			CallTimeout: 5 * time.Second,
			TokenTTL:    24 * time.Hour,
		},
		Agent: AgentConfig{
			DefaultName: "",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values the engine cannot operate
// with. It does not verify that remote endpoints are reachable.
func (c *Config) Validate() error {
	// Key store
	if c.KeyStore.RedisPrefix == "" {
		return errors.New("KeyStore RedisPrefix must not be empty")
	}
	if c.KeyStore.LookupTimeout <= 0 {
		return errors.New("KeyStore LookupTimeout must be > 0")
	}
	if c.KeyStore.CacheEnabled && c.KeyStore.CacheTTL <= 0 {
		return errors.New("KeyStore CacheTTL must be > 0 when CacheEnabled is true")
	}
	if c.KeyStore.ServeStaleOnError && !c.KeyStore.CacheEnabled {
		return errors.New("KeyStore ServeStaleOnError requires CacheEnabled")
	}

	// Media
	if c.Media.CallTimeout <= 0 {
		return errors.New("Media CallTimeout must be > 0")
	}
	if c.Media.TokenTTL <= 0 {
		return errors.New("Media TokenTTL must be > 0")
	}

	// Agent
	if c.Agent.DefaultName == "" {
		return errors.New("Agent DefaultName is required")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
