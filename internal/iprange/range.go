package iprange

import (
	"net/netip"
)

// Range is an inclusive address range. Start <= End.
type Range[T Uint[T]] struct {
	Start T
	End   T
}

// NewRange returns the range [start, end], or false when start > end.
func NewRange[T Uint[T]](start, end T) (Range[T], bool) {
	if start.Cmp(end) > 0 {
		return Range[T]{}, false
	}
	return Range[T]{Start: start, End: end}, true
}

// Contains reports whether ip is in r.
func (r Range[T]) Contains(ip T) bool {
	return r.Start.Cmp(ip) <= 0 && ip.Cmp(r.End) <= 0
}

// Block is a CIDR block. Network is aligned to Bits.
type Block[T Uint[T]] struct {
	Network T
	Bits    int
}

// Range returns the addresses covered by b.
func (b Block[T]) Range() Range[T] {
	one := b.Network.Pow2(0)
	// Pow2(width) wraps to zero, so a /0 host mask becomes all ones.
	hostMask := b.Network.Pow2(b.Network.Bits() - b.Bits).Sub(one)
	end, _ := b.Network.Add(hostMask)
	return Range[T]{Start: b.Network, End: end}
}

// Prefix returns b as a netip.Prefix.
func (b Block[T]) Prefix() netip.Prefix {
	return netip.PrefixFrom(b.Network.Addr(), b.Bits)
}

// String returns the canonical CIDR notation of b.
func (b Block[T]) String() string {
	return b.Prefix().String()
}

// PrefixRange splits a prefix into its family range. Exactly one of the
// returned booleans is true for a valid prefix.
func PrefixRange(p netip.Prefix) (v4 Range[V4], is4 bool, v6 Range[V6], is6 bool) {
	if !p.IsValid() {
		return
	}
	p = p.Masked()
	if p.Addr().Is4() {
		b := Block[V4]{Network: FromAddr4(p.Addr()), Bits: p.Bits()}
		return b.Range(), true, Range[V6]{}, false
	}
	b := Block[V6]{Network: FromAddr6(p.Addr()), Bits: p.Bits()}
	return Range[V4]{}, false, b.Range(), true
}
