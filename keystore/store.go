package keystore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable reports that Redis could not answer a lookup. It is a
// reachability signal, not an authorization verdict.
var ErrStoreUnavailable = errors.New("key store unavailable")

// Config controls lookup behavior.
type Config struct {
	// Prefix namespaces every key written and read by the store.
	Prefix string

	// LookupTimeout bounds a single Redis round trip.
	LookupTimeout time.Duration

	// CacheEnabled turns on the in-process positive-result cache.
	CacheEnabled bool

	// CacheTTL is how long a cached verdict stays fresh.
	CacheTTL time.Duration

	// ServeStaleOnError allows an expired cached verdict to answer when
	// Redis is unreachable. Off by default: a dead store should surface as
	// an error, not as silently degraded authorization.
	ServeStaleOnError bool
}

// Store is a Redis-backed credential allow-list.
type Store struct {
	client *redis.Client
	cfg    Config
	cache  *ttlCache
}

// NewStore wraps an existing Redis client. The client's lifecycle belongs to
// the caller.
func NewStore(client *redis.Client, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = "cg"
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 2 * time.Second
	}

	s := &Store{
		client: client,
		cfg:    cfg,
	}
	if cfg.CacheEnabled {
		s.cache = newTTLCache(cfg.CacheTTL)
	}
	return s
}

func (s *Store) key(credential string) string {
	return s.cfg.Prefix + ":key:" + credential
}

// Resolve reports whether a record exists for credential.
//
// An empty credential resolves to false without touching Redis. A missing
// key is (false, nil); only transport or server failures produce an error,
// wrapped around ErrStoreUnavailable.
func (s *Store) Resolve(ctx context.Context, credential string) (bool, error) {
	if credential == "" {
		return false, nil
	}

	if s.cache != nil {
		if authorized, ok, fresh := s.cache.get(credential); ok && fresh {
			return authorized, nil
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	val, err := s.client.Get(lookupCtx, s.key(credential)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		if s.cache != nil && s.cfg.ServeStaleOnError {
			if authorized, ok, _ := s.cache.get(credential); ok {
				return authorized, nil
			}
		}
		return false, errors.Join(ErrStoreUnavailable, err)
	}

	authorized := val != ""
	if s.cache != nil && authorized {
		s.cache.put(credential, authorized)
	}
	return authorized, nil
}

// Allow registers a credential. The label is an operator-facing annotation
// stored as the key's value; it plays no part in resolution beyond being
// non-empty.
func (s *Store) Allow(ctx context.Context, credential, label string) error {
	if credential == "" {
		return errors.New("credential must not be empty")
	}
	if label == "" {
		label = "1"
	}

	opCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	if err := s.client.Set(opCtx, s.key(credential), label, 0).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Revoke removes a credential. Revoking an unknown credential is not an
// error.
func (s *Store) Revoke(ctx context.Context, credential string) error {
	if credential == "" {
		return errors.New("credential must not be empty")
	}

	opCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	if err := s.client.Del(opCtx, s.key(credential)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if s.cache != nil {
		s.cache.invalidate(credential)
	}
	return nil
}
