package callgate

import (
	"errors"

	"callgate/keystore"
	"callgate/media"

	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine serves requests.
type Builder struct {
	config Config
	redis  *redis.Client

	resolver  CredentialResolver
	mediaSvc  MediaService
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis supplies the Redis client backing the default credential
// resolver. Ignored when a custom resolver is set.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithResolver overrides the key-store-backed credential resolver. Intended
// for alternative stores and for tests.
func (b *Builder) WithResolver(r CredentialResolver) *Builder {
	b.resolver = r
	return b
}

// WithMediaService overrides the livekit-backed media service. Intended for
// tests and for deployments that front the media server differently.
func (b *Builder) WithMediaService(svc MediaService) *Builder {
	b.mediaSvc = svc
	return b
}

// WithAuditSink attaches the sink that receives audit events when auditing
// is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires default backends for anything
// not overridden, and returns the immutable engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	resolver := b.resolver
	if resolver == nil {
		if b.redis == nil {
			return nil, errors.New("a redis client or a custom resolver is required")
		}
		resolver = keystore.NewStore(b.redis, keystore.Config{
			Prefix:            b.config.KeyStore.RedisPrefix,
			LookupTimeout:     b.config.KeyStore.LookupTimeout,
			CacheEnabled:      b.config.KeyStore.CacheEnabled,
			CacheTTL:          b.config.KeyStore.CacheTTL,
			ServeStaleOnError: b.config.KeyStore.ServeStaleOnError,
		})
	}

	mediaSvc := b.mediaSvc
	if mediaSvc == nil {
		svc, err := media.NewService(media.Config{
			URL:       b.config.Media.URL,
			APIKey:    b.config.Media.APIKey,
			APISecret: b.config.Media.APISecret,
			TokenTTL:  b.config.Media.TokenTTL,
		})
		if err != nil {
			return nil, err
		}
		mediaSvc = svc
	}

	engine := &Engine{
		config:   b.config,
		resolver: resolver,
		media:    mediaSvc,
		metrics:  NewMetrics(b.config.Metrics),
	}
	if b.config.Audit.Enabled {
		engine.audit = newAuditDispatcher(b.config.Audit, b.auditSink)
	}

	b.built = true
	return engine, nil
}
