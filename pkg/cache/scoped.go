package cache

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a cached HTTP response body.
	HTTPKey(namespace, key string) string
	// MetadataKey keys the parsed dependency list of one coordinate.
	MetadataKey(source, coordinate string) string
	// ReportKey keys a rendered report for a snapshot and module.
	ReportKey(snapshotHash, module string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace><key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + key
}

// MetadataKey returns "meta:<source>:<coordinate>".
func (DefaultKeyer) MetadataKey(source, coordinate string) string {
	return "meta:" + source + ":" + coordinate
}

// ReportKey hashes the snapshot hash and module path.
func (DefaultKeyer) ReportKey(snapshotHash, module string) string {
	return hashKey("report", snapshotHash, module)
}

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ci:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// MetadataKey generates a prefixed metadata key.
func (k *ScopedKeyer) MetadataKey(source, coordinate string) string {
	return k.prefix + k.inner.MetadataKey(source, coordinate)
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(snapshotHash, module string) string {
	return k.prefix + k.inner.ReportKey(snapshotHash, module)
}
