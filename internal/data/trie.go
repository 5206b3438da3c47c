package data

import (
	"net/netip"

	"github.com/gaissmai/bart"
)

// TrieIndex implements BlockLookup with a prefix trie. It answers the same
// question as RangeTable without merging the prefixes first.
type TrieIndex struct {
	trie *bart.Lite
}

// NewTrieIndex inserts every valid prefix into a new trie.
func NewTrieIndex(prefixes []netip.Prefix) *TrieIndex {
	t := new(bart.Lite)
	for _, p := range prefixes {
		if p.IsValid() {
			t.Insert(p.Masked())
		}
	}
	return &TrieIndex{trie: t}
}

// Blocked reports whether ip is covered by any prefix.
func (t *TrieIndex) Blocked(ip netip.Addr) (bool, error) {
	return t.trie.Contains(ip), nil
}

// Len returns the number of distinct prefixes.
func (t *TrieIndex) Len() int {
	return t.trie.Size()
}

// Close is a no-op.
func (t *TrieIndex) Close() error {
	return nil
}
