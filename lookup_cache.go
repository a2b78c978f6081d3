package segmap

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/minio/blake2b-simd"
)

// lookupCache holds copies of recently-Get values.  Entries are keyed by a
// digest of the key so the cache never retains arbitrarily large caller
// keys.  All maintenance happens under the tree lock (shared for add/get,
// exclusive for remove), so a cached value can never outlive the Put that
// replaces it.
type lookupCache struct {
	arc *lru.ARCCache
}

func newLookupCache(size int) (*lookupCache, error) {
	arc, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &lookupCache{arc: arc}, nil
}

func cacheKey(key []byte) [32]byte {
	return blake2b.Sum256(key)
}

// get returns a copy of the cached value; the cache's own copy is never
// handed out, since callers may scribble on what Get returns.
func (c *lookupCache) get(key []byte) ([]byte, bool) {
	v, ok := c.arc.Get(cacheKey(key))
	if !ok {
		return nil, false
	}
	return cloneBytes(v.([]byte)), true
}

// add takes ownership of value.
func (c *lookupCache) add(key, value []byte) {
	c.arc.Add(cacheKey(key), value)
}

func (c *lookupCache) remove(key []byte) {
	c.arc.Remove(cacheKey(key))
}
