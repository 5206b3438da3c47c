package iprange

import (
	"cmp"
	"encoding/binary"
	"math/bits"
	"net/netip"

	"lukechampine.com/uint128"
)

// Uint is the fixed-width unsigned integer an address family is stored in.
// Arithmetic wraps at the family width unless a carry is reported.
type Uint[T any] interface {
	comparable

	// Bits returns the family width (32 or 128).
	Bits() int
	Cmp(other T) int
	// Add returns the wrapped sum and whether it carried out of the width.
	Add(other T) (T, bool)
	Sub(other T) T
	// Pow2 returns 2^n in the receiver's width; the receiver value is ignored.
	// Pow2(Bits()) wraps to zero.
	Pow2(n int) T
	// TrailingZeros returns Bits() for zero.
	TrailingZeros() int
	// Len returns the number of bits needed to represent the value.
	Len() int
	Addr() netip.Addr
}

// V4 is an IPv4 address in host order.
type V4 uint32

func (V4) Bits() int { return 32 }

func (a V4) Cmp(b V4) int { return cmp.Compare(a, b) }

func (a V4) Add(b V4) (V4, bool) {
	sum, carry := bits.Add32(uint32(a), uint32(b), 0)
	return V4(sum), carry != 0
}

func (a V4) Sub(b V4) V4 { return a - b }

func (V4) Pow2(n int) V4 { return V4(1) << n }

func (a V4) TrailingZeros() int { return bits.TrailingZeros32(uint32(a)) }

func (a V4) Len() int { return bits.Len32(uint32(a)) }

func (a V4) Addr() netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(a))
	return netip.AddrFrom4(b)
}

// V6 is an IPv6 address in host order.
type V6 uint128.Uint128

func (a V6) u() uint128.Uint128 { return uint128.Uint128(a) }

func (V6) Bits() int { return 128 }

func (a V6) Cmp(b V6) int { return a.u().Cmp(b.u()) }

func (a V6) Add(b V6) (V6, bool) {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, carry := bits.Add64(a.Hi, b.Hi, carry)
	return V6{Lo: lo, Hi: hi}, carry != 0
}

func (a V6) Sub(b V6) V6 { return V6(a.u().SubWrap(b.u())) }

func (V6) Pow2(n int) V6 {
	if n >= 128 {
		return V6{}
	}
	return V6(uint128.From64(1).Lsh(uint(n)))
}

func (a V6) TrailingZeros() int { return a.u().TrailingZeros() }

func (a V6) Len() int { return a.u().Len() }

func (a V6) Addr() netip.Addr {
	var b [16]byte
	a.u().PutBytesBE(b[:])
	return netip.AddrFrom16(b)
}

// String formats the value as an address.
func (a V4) String() string { return a.Addr().String() }

// String formats the value as an address.
func (a V6) String() string { return a.Addr().String() }

// FromAddr4 converts an IPv4 (or IPv4-mapped) address.
func FromAddr4(addr netip.Addr) V4 {
	b := addr.Unmap().As4()
	return V4(binary.BigEndian.Uint32(b[:]))
}

// FromAddr6 converts any address to its 128-bit form.
func FromAddr6(addr netip.Addr) V6 {
	b := addr.As16()
	return V6(uint128.FromBytesBE(b[:]))
}
