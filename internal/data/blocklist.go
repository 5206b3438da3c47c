package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/netip"
	"os"
	"strings"
)

// ParseSummary counts the lines seen while parsing a block list.
type ParseSummary struct {
	Prefixes int
	Comments int
	Invalid  int
}

// ParseBlocklist reads newline-delimited CIDR blocks. Lines starting with
// '#' and blank lines are skipped; lines that do not parse are discarded.
// Lines have no length limit.
func ParseBlocklist(r io.Reader) ([]netip.Prefix, ParseSummary, error) {
	var (
		prefixes []netip.Prefix
		sum      ParseSummary
	)

	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, sum, fmt.Errorf("read block list: %w", err)
		}

		line := strings.TrimSpace(raw)
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			sum.Comments++
		default:
			if p, perr := netip.ParsePrefix(line); perr == nil {
				prefixes = append(prefixes, p.Masked())
			} else {
				sum.Invalid++
			}
		}

		if err != nil {
			break
		}
	}

	sum.Prefixes = len(prefixes)
	return prefixes, sum, nil
}

// LoadBlocklist reads the block list at path. A missing or unreadable file
// yields an empty list so that the service starts with nothing blocked.
func LoadBlocklist(path string) []netip.Prefix {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("block list not found, serving empty table", "path", path)
		} else {
			slog.Error("failed to open block list, serving empty table", "path", path, "error", err)
		}
		return nil
	}
	defer f.Close()

	prefixes, sum, err := ParseBlocklist(f)
	if err != nil {
		slog.Error("failed to read block list, serving empty table", "path", path, "error", err)
		return nil
	}

	slog.Info("block list loaded",
		"path", path,
		"prefixes", sum.Prefixes,
		"comments", sum.Comments,
		"invalid", sum.Invalid,
	)
	return prefixes
}
