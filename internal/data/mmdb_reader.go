package data

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/TomasB/redblock/internal/config"
	"github.com/oschwald/geoip2-golang"
)

// MmdbIndex implements BlockLookup by geolocating each address with a
// MaxMind MMDB file and checking the result against a jurisdiction policy.
type MmdbIndex struct {
	db     *geoip2.Reader
	policy *config.Policy
	city   bool
}

// NewMmdbIndex opens the MMDB file at the given path. City databases are
// needed for US state granularity; country databases only match countries.
func NewMmdbIndex(path string, policy *config.Policy) (*MmdbIndex, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MMDB file: %w", err)
	}
	return &MmdbIndex{
		db:     db,
		policy: policy,
		city:   strings.Contains(db.Metadata().DatabaseType, "City"),
	}, nil
}

// Label returns the jurisdiction label for ip, or "" when it is not blocked.
func (r *MmdbIndex) Label(ip netip.Addr) (string, error) {
	country, state, err := r.locate(net.IP(ip.AsSlice()))
	if err != nil {
		return "", err
	}
	label, _ := r.policy.Label(country, state)
	return label, nil
}

// Blocked reports whether ip geolocates to a blocked jurisdiction.
func (r *MmdbIndex) Blocked(ip netip.Addr) (bool, error) {
	label, err := r.Label(ip)
	if err != nil {
		return false, err
	}
	return label != "", nil
}

func (r *MmdbIndex) locate(ip net.IP) (country, state string, err error) {
	if !r.city {
		record, err := r.db.Country(ip)
		if err != nil {
			return "", "", fmt.Errorf("country lookup failed: %w", err)
		}
		return record.Country.IsoCode, "", nil
	}

	record, err := r.db.City(ip)
	if err != nil {
		return "", "", fmt.Errorf("city lookup failed: %w", err)
	}
	if len(record.Subdivisions) > 0 {
		state = record.Subdivisions[0].Names["en"]
	}
	return record.Country.IsoCode, state, nil
}

// Len returns the number of nodes in the MMDB search tree.
func (r *MmdbIndex) Len() int {
	return int(r.db.Metadata().NodeCount)
}

// Close releases the MMDB reader resources.
func (r *MmdbIndex) Close() error {
	return r.db.Close()
}
