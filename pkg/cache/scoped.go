package cache

// ScopedKeyer wraps a Keyer and prefixes every key it produces, so several
// deployments can share one Redis or MongoDB cache without colliding:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey returns the prefixed HTTP response key.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// NetworkKey returns the prefixed network snapshot key.
func (k *ScopedKeyer) NetworkKey(baseURL string, routeTypes []int) string {
	return k.prefix + k.inner.NetworkKey(baseURL, routeTypes)
}
