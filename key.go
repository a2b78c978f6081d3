package segmap

import (
	"bytes"
	"sort"
)

// resolution classifies how a key remainder relates to a node's segments.
type resolution int

const (
	// resolveNone: no segment relates to the remainder; the index is the
	// sorted slot where a new entry for it would be inserted.
	resolveNone resolution = iota
	// resolveExact: the segment at the index equals the remainder.
	resolveExact
	// resolvePrefix: the segment at the index is a proper, non-empty
	// prefix of the remainder.
	resolvePrefix
)

// resolve locates the one segment whose relation to the remainder governs
// the next step of a walk.  Segments in a node are strictly increasing and
// (apart from an optional empty terminator) pairwise prefix-free, so at
// most one segment can be a prefix of the remainder, and it is always the
// remainder's immediate predecessor in sort order.
func (n *node) resolve(remainder []byte) (resolution, int) {
	i := sort.Search(len(n.segments), func(i int) bool {
		return bytes.Compare(n.segments[i], remainder) >= 0
	})
	if i < len(n.segments) && bytes.Equal(n.segments[i], remainder) {
		return resolveExact, i
	}
	if i > 0 {
		prev := n.segments[i-1]
		// The empty terminator marks "key ends here"; it never names a
		// subtree, so it is not a descent candidate.
		if len(prev) > 0 && bytes.HasPrefix(remainder, prev) {
			return resolvePrefix, i - 1
		}
	}
	return resolveNone, i
}

// commonPrefixLen returns the length of the longest common prefix of a and b.
func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// prefixRun returns the bounds [lo, hi) of the contiguous run of segments
// that start with the given prefix, seeded with an index known to be in the
// run.  Segments sharing a prefix are always adjacent in sort order.
func (n *node) prefixRun(seed int, prefix []byte) (int, int) {
	lo, hi := seed, seed+1
	for lo > 0 && bytes.HasPrefix(n.segments[lo-1], prefix) {
		lo--
	}
	for hi < len(n.segments) && bytes.HasPrefix(n.segments[hi], prefix) {
		hi++
	}
	return lo, hi
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
