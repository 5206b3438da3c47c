package iprange

import (
	"math/big"
	"slices"
)

// Table is a sorted list of ranges in which no two ranges overlap or touch.
// A Table is never modified after Merge returns it and is safe for
// concurrent readers.
type Table[T Uint[T]] struct {
	ranges []Range[T]
}

// Merge sorts ranges by start and folds overlapping and adjacent ranges
// together. Reversed ranges are dropped. The input slice is not modified.
func Merge[T Uint[T]](ranges []Range[T]) Table[T] {
	sorted := make([]Range[T], 0, len(ranges))
	for _, r := range ranges {
		if r.Start.Cmp(r.End) <= 0 {
			sorted = append(sorted, r)
		}
	}
	slices.SortFunc(sorted, func(a, b Range[T]) int {
		return a.Start.Cmp(b.Start)
	})

	out := sorted[:0]
	for _, r := range sorted {
		if n := len(out); n > 0 {
			last := &out[n-1]
			// Closed intervals: [0,10] and [11,20] merge.
			next, carry := last.End.Add(last.End.Pow2(0))
			if carry || r.Start.Cmp(next) <= 0 {
				if r.End.Cmp(last.End) > 0 {
					last.End = r.End
				}
				continue
			}
		}
		out = append(out, r)
	}
	return Table[T]{ranges: slices.Clip(out)}
}

// Contains reports whether ip falls inside any range of t.
func (t Table[T]) Contains(ip T) bool {
	i, found := slices.BinarySearchFunc(t.ranges, ip, func(r Range[T], ip T) int {
		return r.Start.Cmp(ip)
	})
	if found {
		return true
	}
	if i == 0 {
		return false
	}
	return ip.Cmp(t.ranges[i-1].End) <= 0
}

// Len returns the number of ranges.
func (t Table[T]) Len() int { return len(t.ranges) }

// Ranges returns a copy of the ranges in ascending order.
func (t Table[T]) Ranges() []Range[T] { return slices.Clone(t.ranges) }

// Size returns the number of addresses covered by t.
func (t Table[T]) Size() *big.Int {
	total := new(big.Int)
	for _, r := range t.ranges {
		total.Add(total, rangeSize(r))
	}
	return total
}

func rangeSize[T Uint[T]](r Range[T]) *big.Int {
	one := r.Start.Pow2(0)
	n, carry := r.End.Sub(r.Start).Add(one)
	if carry {
		return new(big.Int).Lsh(big.NewInt(1), uint(r.Start.Bits()))
	}
	return new(big.Int).SetBytes(n.Addr().AsSlice())
}
