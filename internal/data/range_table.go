package data

import (
	"net/netip"

	"github.com/TomasB/redblock/internal/iprange"
)

// RangeTable implements BlockLookup with one merged range table per
// address family.
type RangeTable struct {
	v4 iprange.Table[iprange.V4]
	v6 iprange.Table[iprange.V6]
}

// NewRangeTable builds the per-family tables from prefixes.
func NewRangeTable(prefixes []netip.Prefix) *RangeTable {
	var (
		v4 []iprange.Range[iprange.V4]
		v6 []iprange.Range[iprange.V6]
	)
	for _, p := range prefixes {
		r4, is4, r6, is6 := iprange.PrefixRange(p)
		switch {
		case is4:
			v4 = append(v4, r4)
		case is6:
			v6 = append(v6, r6)
		}
	}
	return &RangeTable{
		v4: iprange.Merge(v4),
		v6: iprange.Merge(v6),
	}
}

// Blocked reports whether ip falls inside a merged range of its family.
func (t *RangeTable) Blocked(ip netip.Addr) (bool, error) {
	switch {
	case ip.Is4():
		return t.v4.Contains(iprange.FromAddr4(ip)), nil
	case ip.Is6():
		return t.v6.Contains(iprange.FromAddr6(ip)), nil
	default:
		return false, nil
	}
}

// Len returns the number of merged ranges across both families.
func (t *RangeTable) Len() int {
	return t.v4.Len() + t.v6.Len()
}

// Close is a no-op.
func (t *RangeTable) Close() error {
	return nil
}
