package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/TomasB/redblock/internal/compactor"
	"github.com/TomasB/redblock/internal/config"
	"github.com/charmbracelet/log"
)

func main() {
	input := flag.String("input", "dbip-city-lite.csv", "DB-IP city-lite CSV `file`")
	out := flag.String("out", "dist", "output `directory`")
	policyPath := flag.String("policy", "", "jurisdiction policy YAML `file` (built-in lists when empty)")
	verbose := flag.Bool("v", false, "log skipped ranges")
	flag.Parse()

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if *verbose {
		handler.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(handler))

	if err := run(*input, *out, *policyPath); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(input, out, policyPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	policy, err := config.LoadPolicy(policyPath)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	slog.Info("compacting", "input", input, "states", len(policy.States), "countries", len(policy.Countries))

	regions, sum, err := compactor.Compact(ctx, f, policy)
	if err != nil {
		return err
	}

	rendered := compactor.Render(regions, time.Now())
	if err := compactor.WriteFiles(out, rendered); err != nil {
		return err
	}

	slog.Info("block list written",
		"out", out,
		"rows", sum.Rows,
		"malformed", sum.Malformed,
		"labeled", sum.Labeled,
		"empty", sum.Empty,
		"labels", len(regions.Labels()),
		"entries", rendered.Entries,
		"addresses", rendered.Addrs.String(),
		"bytes", rendered.BodySize,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}
