package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation. This
// is useful when an orchestrator service serves cache reads/writes across
// multiple callers that must not see each other's solve results.
//
// Example usage:
//
//	// Caller-specific keys for private instances
//	callerKeyer := NewScopedKeyer(NewDefaultKeyer(), "caller:abc123:")
//
//	// Global keys for shared public instances
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix prepended to every
// generated key. A nil inner falls back to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) GraphKey(graphHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(graphHash, opts)
}

func (k *ScopedKeyer) OrderKey(graphHash string, opts OrderKeyOpts) string {
	return k.prefix + k.inner.OrderKey(graphHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(orderHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(orderHash, opts)
}
