package cache

// ScopedKeyer wraps a Keyer with a prefix so several producers can share
// one backend without colliding, e.g. the API server and a CLI batch
// pointing at the same Redis.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TaskKey generates a prefixed task key.
func (k *ScopedKeyer) TaskKey(optionsHash string, seed uint64) string {
	return k.prefix + k.inner.TaskKey(optionsHash, seed)
}

// VideoKey generates a prefixed video key.
func (k *ScopedKeyer) VideoKey(optionsHash string, seed uint64, format string) string {
	return k.prefix + k.inner.VideoKey(optionsHash, seed, format)
}
