package sdbmap

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ItemCache is the local cache collaborator for point lookups. A miss is the
// distinguished false return, never an empty mapping. Implementations must
// provide per-key atomic get and set; the layer adds no locking of its own.
//
// *lru.Cache from github.com/hashicorp/golang-lru/v2 satisfies the interface
// directly.
type ItemCache interface {
	Get(key string) (AttributeMap, bool)
	Add(key string, value AttributeMap) bool
	Remove(key string) bool
}

var _ ItemCache = (*lru.Cache[string, AttributeMap])(nil)

// NewLRUCache returns an ItemCache backed by a fixed-size, thread-safe LRU cache.
func NewLRUCache(size int) (ItemCache, error) {
	return lru.New[string, AttributeMap](size)
}
