package types

// Hashable values can key caches of things derived from them.
type Hashable interface {
	GetHashCode() uint64
}
