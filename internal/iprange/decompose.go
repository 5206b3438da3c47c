package iprange

import (
	"net/netip"
)

// MaxV6Addresses is the largest IPv6 range that DecomposeV6Capped expands.
const MaxV6Addresses = 1024

// Decompose returns the minimal ordered list of CIDR blocks whose union is
// exactly r. At each step it emits the largest block that is both aligned
// at the cursor and fits in what is left of the range.
func Decompose[T Uint[T]](r Range[T]) []Block[T] {
	if r.Start.Cmp(r.End) > 0 {
		return nil
	}

	width := r.Start.Bits()
	one := r.Start.Pow2(0)

	var blocks []Block[T]
	cur := r.Start
	for {
		size := cur.TrailingZeros()

		// Largest k with 2^k <= end - cur + 1.
		fit := width
		if count, carry := r.End.Sub(cur).Add(one); !carry {
			fit = count.Len() - 1
		}
		size = min(size, fit)

		blocks = append(blocks, Block[T]{Network: cur, Bits: width - size})
		if size == width {
			return blocks
		}

		next, carry := cur.Add(cur.Pow2(size))
		if carry || next.Cmp(r.End) > 0 {
			return blocks
		}
		cur = next
	}
}

// DecomposeV6Capped expands an IPv6 range into one /128 per address. Ranges
// larger than MaxV6Addresses yield no blocks at all.
func DecomposeV6Capped(r Range[V6]) []Block[V6] {
	if r.Start.Cmp(r.End) > 0 {
		return nil
	}

	one := r.Start.Pow2(0)
	count, carry := r.End.Sub(r.Start).Add(one)
	if carry || count.Cmp(V6{Lo: MaxV6Addresses}) > 0 {
		return nil
	}

	blocks := make([]Block[V6], 0, count.Lo)
	for cur := r.Start; ; {
		blocks = append(blocks, Block[V6]{Network: cur, Bits: 128})
		if cur == r.End {
			return blocks
		}
		cur, _ = cur.Add(one)
	}
}

// RangeToCIDRs converts a textual start–end address range to CIDR strings.
// Unparsable endpoints, mixed families and reversed ranges produce nil.
func RangeToCIDRs(start, end string) []string {
	s, err := netip.ParseAddr(start)
	if err != nil {
		return nil
	}
	e, err := netip.ParseAddr(end)
	if err != nil {
		return nil
	}
	s, e = s.WithZone(""), e.WithZone("")

	switch {
	case s.Is4() && e.Is4():
		r, ok := NewRange(FromAddr4(s), FromAddr4(e))
		if !ok {
			return nil
		}
		return blockStrings(Decompose(r))
	case s.Is6() && e.Is6():
		r, ok := NewRange(FromAddr6(s), FromAddr6(e))
		if !ok {
			return nil
		}
		return blockStrings(DecomposeV6Capped(r))
	default:
		return nil
	}
}

func blockStrings[T Uint[T]](blocks []Block[T]) []string {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.String()
	}
	return out
}
