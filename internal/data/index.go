package data

import (
	"fmt"
	"net/netip"

	"github.com/TomasB/redblock/internal/config"
)

// Builder turns a parsed block list into a lookup.
type Builder func(prefixes []netip.Prefix) BlockLookup

// NewBuilder returns the Builder for a block-list backed index kind.
func NewBuilder(kind string) (Builder, error) {
	switch kind {
	case config.BackendTable:
		return func(p []netip.Prefix) BlockLookup { return NewRangeTable(p) }, nil
	case config.BackendTrie:
		return func(p []netip.Prefix) BlockLookup { return NewTrieIndex(p) }, nil
	default:
		return nil, fmt.Errorf("index kind %q is not built from a block list", kind)
	}
}
