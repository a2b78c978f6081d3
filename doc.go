/*
Package segmap provides a sorted, thread-safe, in-memory map from
byte-array keys to byte-array values.  Keys are ordered by standard
lexicographic byte comparison, and may be any length, including zero;
keys that are prefixes of one another are stored independently.

Internally, entries live in a radix-style tree of bounded-arity nodes.
Each node holds an ordered list of key segments, and each segment
resolves either to a value (the path from the root spells a complete
key) or to a subtree of keys extending that segment.  Long shared
prefixes are factored into intermediate nodes on demand; there is no
height balancing, so lookup cost depends on how keys share prefixes
rather than being guaranteed logarithmic.

Matching is strict: a lookup descends into a subtree only when the
stored segment exactly equals the corresponding bytes of the key.  A
key that merely sorts into a subtree's range but diverges from the
stored segment is reported absent.

Concurrency

A Tree may be shared freely between goroutines.  One reader/writer
lock guards the whole structure: any number of Gets proceed in
parallel, Puts are serialized, and no Get observes a half-applied
Put.  Values returned by Get are always independent copies, so they
stay valid after later mutations.  If an operation panics while
mutating the tree, the tree is marked poisoned and subsequent
operations fail with ErrPoisoned rather than reading a possibly
inconsistent structure.

An optional read-through cache (Config.LookupCacheSize) serves
repeated Gets of hot keys from an ARC cache of value copies, keyed by
a digest of the key; Put invalidates the affected entry, so cached
reads are never stale.
*/
package segmap
