package segmap

import (
	"bytes"
	"fmt"
	"strings"
)

// DefaultBranchFactor is how many entries per node a tree will normally have.
const DefaultBranchFactor = 16

// child is the outcome a segment resolves to: exactly one of value/node is
// set.  A value child means the path from the root down to its segment
// spells a complete key; a node child means the segment is a prefix whose
// extensions live in the subtree.
type child struct {
	value []byte
	node  *node
}

// node is an ordered run of (segment, child) pairs.  segments and children
// are parallel; segments are strictly increasing under bytes.Compare and,
// apart from an optional leading empty terminator, pairwise prefix-free.
type node struct {
	segments [][]byte
	children []child
}

// get resolves a key remainder, copying and returning the matched value.
func (n *node) get(remainder []byte) ([]byte, bool) {
	for {
		res, i := n.resolve(remainder)
		switch res {
		case resolveExact:
			c := n.children[i]
			if c.node == nil {
				return c.value, true
			}
			// The key ends exactly where this subtree's prefix does; only
			// the empty terminator in the child can complete it.
			n = c.node
			remainder = nil
		case resolvePrefix:
			c := n.children[i]
			if c.node == nil {
				// remainder extends a stored key that ends here
				return nil, false
			}
			remainder = remainder[len(n.segments[i]):]
			n = c.node
		default:
			return nil, false
		}
	}
}

// put associates the remainder with the value, reporting whether a new key
// was added (as opposed to an existing one overwritten).  The value must
// already be an owned copy; stored segments are copied here.
func (n *node) put(remainder, value []byte, branchFactor int) bool {
	for {
		res, i := n.resolve(remainder)
		switch res {
		case resolveExact:
			c := &n.children[i]
			if c.node == nil {
				c.value = value
				return false
			}
			n = c.node
			remainder = nil
		case resolvePrefix:
			seg := n.segments[i]
			c := &n.children[i]
			if c.node != nil {
				remainder = remainder[len(seg):]
				n = c.node
				continue
			}
			// A stored key is a proper prefix of the new one.  Demote its
			// value under an empty terminator in a new subtree alongside
			// the new key's suffix.
			sub := &node{
				segments: [][]byte{{}, cloneBytes(remainder[len(seg):])},
				children: []child{{value: c.value}, {value: value}},
			}
			sub.validate()
			*c = child{node: sub}
			return true
		default:
			return n.insertAt(i, remainder, value, branchFactor)
		}
	}
}

// insertAt places a remainder no existing segment relates to, at sorted
// slot i.
func (n *node) insertAt(i int, remainder, value []byte, branchFactor int) bool {
	if len(remainder) > 0 && i < len(n.segments) && bytes.HasPrefix(n.segments[i], remainder) {
		// The new key is a proper prefix of one or more stored segments.
		// Shorten them to the shared prefix: the run moves into a new
		// subtree, suffixed, below an empty terminator holding the new
		// value.
		lo, hi := n.prefixRun(i, remainder)
		sub := &node{
			segments: make([][]byte, 0, hi-lo+1),
			children: make([]child, 0, hi-lo+1),
		}
		sub.segments = append(sub.segments, []byte{})
		sub.children = append(sub.children, child{value: value})
		for j := lo; j < hi; j++ {
			sub.segments = append(sub.segments, cloneBytes(n.segments[j][len(remainder):]))
			sub.children = append(sub.children, n.children[j])
		}
		sub.validate()
		n.replaceRun(lo, hi, cloneBytes(remainder), child{node: sub})
		n.validate()
		return true
	}
	if len(n.segments) < branchFactor {
		n.insertEntry(i, cloneBytes(remainder), child{value: value})
		n.validate()
		return true
	}
	// Node is at capacity: fold the sibling run sharing the longest common
	// prefix with the remainder into one subtree entry, and place the
	// remainder's suffix inside it.
	best := 0
	if i > 0 {
		if l := commonPrefixLen(n.segments[i-1], remainder); l > best {
			best = l
		}
	}
	if i < len(n.segments) {
		if l := commonPrefixLen(n.segments[i], remainder); l > best {
			best = l
		}
	}
	if best == 0 {
		// No sibling shares even a leading byte.  Exceed the target arity
		// rather than relax strict matching: every entry added past
		// capacity has a leading byte no neighbor shares, which keeps the
		// excess bounded.
		n.insertEntry(i, cloneBytes(remainder), child{value: value})
		n.validate()
		return true
	}
	prefix := remainder[:best]
	seed := i
	if i > 0 && bytes.HasPrefix(n.segments[i-1], prefix) {
		seed = i - 1
	}
	lo, hi := n.prefixRun(seed, prefix)
	sub := &node{
		segments: make([][]byte, 0, hi-lo+1),
		children: make([]child, 0, hi-lo+1),
	}
	for j := lo; j < hi; j++ {
		sub.segments = append(sub.segments, cloneBytes(n.segments[j][best:]))
		sub.children = append(sub.children, n.children[j])
	}
	sub.validate()
	sub.put(remainder[best:], value, branchFactor)
	n.replaceRun(lo, hi, cloneBytes(prefix), child{node: sub})
	n.validate()
	return true
}

// insertEntry inserts a (segment, child) pair at slot i, shifting later
// entries right.
func (n *node) insertEntry(i int, segment []byte, c child) {
	n.segments = append(n.segments, nil)
	copy(n.segments[i+1:], n.segments[i:])
	n.segments[i] = segment
	n.children = append(n.children, child{})
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

// replaceRun replaces entries [lo, hi) with a single (segment, child) pair.
func (n *node) replaceRun(lo, hi int, segment []byte, c child) {
	n.segments[lo] = segment
	n.children[lo] = c
	n.segments = append(n.segments[:lo+1], n.segments[hi:]...)
	n.children = append(n.children[:lo+1], n.children[hi:]...)
}

// validate panics if the node's structural invariants don't hold.  A panic
// here is a programming defect, not a caller error; Tree recovers it only
// far enough to mark itself poisoned.
func (n *node) validate() {
	if len(n.segments) != len(n.children) {
		panic(fmt.Sprintf("node %p has %d segments but %d children", n, len(n.segments), len(n.children)))
	}
	for i, seg := range n.segments {
		if i > 0 {
			prev := n.segments[i-1]
			if bytes.Compare(prev, seg) >= 0 {
				panic(fmt.Sprintf("node %p segments out of order: %q >= %q", n, prev, seg))
			}
			if len(prev) > 0 && bytes.HasPrefix(seg, prev) {
				panic(fmt.Sprintf("node %p segment %q shadows sibling %q", n, prev, seg))
			}
		}
		c := n.children[i]
		if (c.node == nil) == (c.value == nil) {
			panic(fmt.Sprintf("node %p child %d is not exactly one of value/subtree", n, i))
		}
		if c.node != nil {
			if len(seg) == 0 {
				panic(fmt.Sprintf("node %p has an empty segment naming a subtree", n))
			}
			if len(c.node.segments) == 0 {
				panic(fmt.Sprintf("node %p child %d is an empty subtree", n, i))
			}
		}
	}
}

func (n *node) string(indent string, b *strings.Builder) {
	for i, seg := range n.segments {
		c := n.children[i]
		if c.node == nil {
			fmt.Fprintf(b, "%s%q: %q\n", indent, seg, c.value)
			continue
		}
		fmt.Fprintf(b, "%s%q: {\n", indent, seg)
		c.node.string(indent+"   ", b)
		fmt.Fprintf(b, "%s}\n", indent)
	}
}
