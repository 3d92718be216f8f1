package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys, with optional
// expiration. Implementations: [FileCache] (local CLI usage), [NullCache]
// (disabled caching), and the redis package's backend (orchestrator
// service deployments).
type Cache interface {
	// Get retrieves the value for key. hit is false on a miss or expiry;
	// err is non-nil only for unexpected I/O failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key, if present. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// GraphKeyOpts parameterizes [Keyer.GraphKey] so that different ingestion
// options (e.g. a document schema version) do not collide in the cache.
type GraphKeyOpts struct {
	SchemaVersion string
}

// OrderKeyOpts parameterizes [Keyer.OrderKey]: a solve result is specific
// to the method used and the options that could change its outcome.
type OrderKeyOpts struct {
	Method    string
	TimeLimit time.Duration
	Seed      int64
}

// ArtifactKeyOpts parameterizes [Keyer.ArtifactKey]: a rendered artifact
// is specific to its output format and style.
type ArtifactKeyOpts struct {
	Format string
	Style  string
}

// Keyer generates cache keys for the pipeline stages that benefit from
// caching: the parsed graph (by content hash), the solved order (by graph
// hash, method, and options), and the rendered artifact (by order hash and
// output options).
type Keyer interface {
	// GraphKey generates a key for a parsed graph identified by its
	// content hash.
	GraphKey(graphHash string, opts GraphKeyOpts) string
	// OrderKey generates a key for a solve result.
	OrderKey(graphHash string, opts OrderKeyOpts) string
	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(orderHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard [Keyer] implementation, hashing each key's
// distinguishing fields together with its namespace prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

func (k *DefaultKeyer) GraphKey(graphHash string, opts GraphKeyOpts) string {
	return hashKey("graph", graphHash, opts)
}

func (k *DefaultKeyer) OrderKey(graphHash string, opts OrderKeyOpts) string {
	return hashKey("order", graphHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(orderHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", orderHash, opts)
}
