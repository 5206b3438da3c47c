package data

import (
	"errors"
	"net/netip"
	"strings"
)

// BlockLookup decides whether an address belongs to a blocked jurisdiction.
type BlockLookup interface {
	// Blocked reports whether ip is inside the blocked address space.
	// Returns an error only if the underlying lookup fails.
	Blocked(ip netip.Addr) (bool, error)

	// Len returns the number of entries backing the lookup.
	Len() int

	// Close releases any resources held by the lookup implementation.
	Close() error
}

var (
	// ErrMissingIP is returned by ParseQuery for an empty address.
	ErrMissingIP = errors.New("missing ip")
	// ErrInvalidIP is returned by ParseQuery for an unparsable address.
	ErrInvalidIP = errors.New("invalid ip")
)

// ParseQuery parses a caller-supplied address. Zones are dropped and
// IPv4-mapped IPv6 addresses are treated as IPv4.
func ParseQuery(raw string) (netip.Addr, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Addr{}, ErrMissingIP
	}
	ip, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, ErrInvalidIP
	}
	return ip.WithZone("").Unmap(), nil
}
