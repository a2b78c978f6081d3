package segmap

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrPoisoned is returned by operations on a tree whose writer panicked
// mid-mutation.  The structure may be inconsistent, so no further reads or
// writes are served.
var ErrPoisoned = errors.New("segmap: tree poisoned by earlier panic")

// Config sets initial parameters for a tree, that would be painful to
// change after the tree has data.
type Config struct {
	// BranchFactor is the target number of entries per node.  0 means use
	// DefaultBranchFactor; values below 2 are rejected.
	BranchFactor int
	// LookupCacheSize, if positive, enables a read-through cache of value
	// copies for Get, with room for that many entries.
	LookupCacheSize int
}

// Tree is a sorted, thread-safe map from byte keys to byte values.  The
// zero value is not usable; construct with New or NewWithConfig.
type Tree struct {
	mu           sync.RWMutex
	root         *node
	size         uint64
	branchFactor int
	cache        *lookupCache
	poisoned     atomic.Bool
}

// New returns an empty tree with default parameters.
func New() *Tree {
	t, err := NewWithConfig(Config{})
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithConfig returns an empty tree with the given parameters.
func NewWithConfig(c Config) (*Tree, error) {
	branchFactor := c.BranchFactor
	if branchFactor == 0 {
		branchFactor = DefaultBranchFactor
	}
	if branchFactor < 2 {
		return nil, fmt.Errorf("branch factor %d is below minimum 2", c.BranchFactor)
	}
	t := &Tree{branchFactor: branchFactor}
	if c.LookupCacheSize > 0 {
		var err error
		t.cache, err = newLookupCache(c.LookupCacheSize)
		if err != nil {
			return nil, fmt.Errorf("lookup cache: %w", err)
		}
	}
	return t, nil
}

// Get returns a copy of the value most recently Put for the given key.
// An absent key is not an error: it yields (nil, false, nil).
func (t *Tree) Get(key []byte) ([]byte, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	defer t.poisonOnPanic()
	// Checked under the lock: a caller that blocked here while the writer
	// panicked must fail, not traverse the half-mutated structure.
	if t.poisoned.Load() {
		return nil, false, ErrPoisoned
	}
	if t.cache != nil {
		if v, ok := t.cache.get(key); ok {
			return v, true, nil
		}
	}
	if t.root == nil {
		return nil, false, nil
	}
	v, ok := t.root.get(key)
	if !ok {
		return nil, false, nil
	}
	if t.cache != nil {
		t.cache.add(key, cloneBytes(v))
	}
	return cloneBytes(v), true, nil
}

// Put adds or replaces the value for the given key.  Both key and value may
// be empty, and both are copied, so the caller's slices stay its own.
func (t *Tree) Put(key, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.poisonOnPanic()
	if t.poisoned.Load() {
		return ErrPoisoned
	}
	if t.root == nil {
		t.root = &node{}
	}
	if t.root.put(key, cloneBytes(value), t.branchFactor) {
		t.size++
	}
	if t.cache != nil {
		t.cache.remove(key)
	}
	return nil
}

// Size returns the number of distinct keys in the tree.
func (t *Tree) Size() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// String renders the tree's structure for debugging, one segment per line,
// subtrees indented.
func (t *Tree) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.poisoned.Load() {
		return "<poisoned>\n"
	}
	if t.root == nil {
		return "{}\n"
	}
	b := &strings.Builder{}
	b.WriteString("{\n")
	t.root.string("   ", b)
	b.WriteString("}\n")
	return b.String()
}

// poisonOnPanic marks the tree unusable when a traversal panics, then lets
// the panic continue.  Subsequent operations fail with ErrPoisoned instead
// of walking a possibly half-mutated structure.
func (t *Tree) poisonOnPanic() {
	if r := recover(); r != nil {
		t.poisoned.Store(true)
		panic(r)
	}
}
