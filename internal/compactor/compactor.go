package compactor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/TomasB/redblock/internal/config"
	"github.com/TomasB/redblock/internal/iprange"
)

const progressEvery = 1_000_000

// Row is one geolocation database record reduced to the fields the
// compactor uses.
type Row struct {
	StartIP string
	EndIP   string
	Country string
	State   string
}

// Summary counts what happened to the input rows.
type Summary struct {
	Rows      int
	Malformed int
	Labeled   int
	// Empty counts labeled rows whose range produced no blocks.
	Empty int
}

// ReadRows streams DB-IP city-lite CSV records (start, end, continent,
// country, state, ...) to fn. Records with fewer than five fields are
// counted as malformed and skipped. Iteration stops at the first error
// returned by fn.
func ReadRows(r io.Reader, fn func(Row) error) (malformed int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return malformed, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				malformed++
				continue
			}
			return malformed, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 5 {
			malformed++
			continue
		}
		if err := fn(Row{StartIP: rec[0], EndIP: rec[1], Country: rec[3], State: rec[4]}); err != nil {
			return malformed, err
		}
	}
}

// Compact reads every row, labels it with policy and decomposes the labeled
// ranges into CIDR blocks grouped by label.
func Compact(ctx context.Context, r io.Reader, policy *config.Policy) (*Regions, Summary, error) {
	regions := NewRegions()
	var sum Summary

	malformed, err := ReadRows(r, func(row Row) error {
		sum.Rows++
		if sum.Rows%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Info("compacting", "rows", sum.Rows, "labels", len(regions.order), "cidrs", regions.Total())
		}

		label, ok := policy.Label(row.Country, row.State)
		if !ok {
			return nil
		}
		sum.Labeled++

		cidrs := iprange.RangeToCIDRs(row.StartIP, row.EndIP)
		if len(cidrs) == 0 {
			sum.Empty++
			slog.Debug("range skipped", "start", row.StartIP, "end", row.EndIP, "label", label)
		}
		regions.Add(label, cidrs)
		return nil
	})
	sum.Malformed = malformed
	if err != nil {
		return nil, sum, fmt.Errorf("compact: %w", err)
	}

	return regions, sum, nil
}
