package data

import (
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleList = `# A list of IP ranges
# Total CIDR entries: 4

# US Texas
10.0.0.0/24
10.0.0.7/32
not-a-cidr
# DE
2001:db8::1/128
  192.0.2.9/24  
10.0.0.999/32
`

func TestParseBlocklist(t *testing.T) {
	prefixes, sum, err := ParseBlocklist(strings.NewReader(sampleList))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("10.0.0.7/32"),
		netip.MustParsePrefix("2001:db8::1/128"),
		netip.MustParsePrefix("192.0.2.0/24"),
	}
	if len(prefixes) != len(want) {
		t.Fatalf("expected %d prefixes, got %v", len(want), prefixes)
	}
	for i := range want {
		if prefixes[i] != want[i] {
			t.Errorf("prefix %d = %s, want %s", i, prefixes[i], want[i])
		}
	}

	if sum.Prefixes != 4 || sum.Comments != 4 || sum.Invalid != 2 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestParseBlocklist_LongLine(t *testing.T) {
	input := "10.0.0.0/24\n" + strings.Repeat("x", 2<<20) + "\n192.0.2.0/24"

	prefixes, sum, err := ParseBlocklist(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prefixes) != 2 {
		t.Fatalf("expected 2 prefixes, got %v", prefixes)
	}
	if prefixes[1] != netip.MustParsePrefix("192.0.2.0/24") {
		t.Errorf("last line without newline not parsed, got %s", prefixes[1])
	}
	if sum.Invalid != 1 {
		t.Errorf("expected the long line counted invalid, got %+v", sum)
	}
}

func TestLoadBlocklist_Missing(t *testing.T) {
	if got := LoadBlocklist(filepath.Join(t.TempDir(), "missing.txt")); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestLoadBlocklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(sampleList), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadBlocklist(path); len(got) != 4 {
		t.Errorf("expected 4 prefixes, got %d", len(got))
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "10.0.0.5", want: "10.0.0.5"},
		{raw: " 10.0.0.5 ", want: "10.0.0.5"},
		{raw: "2001:db8::1", want: "2001:db8::1"},
		{raw: "::ffff:10.0.0.5", want: "10.0.0.5"},
		{raw: "fe80::1%eth0", want: "fe80::1"},
		{raw: "", wantErr: ErrMissingIP},
		{raw: "   ", wantErr: ErrMissingIP},
		{raw: "10.0.0.999", wantErr: ErrInvalidIP},
		{raw: "example.com", wantErr: ErrInvalidIP},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQuery(tt.raw)
			if err != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
