package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TomasB/redblock/internal/config"
	"github.com/TomasB/redblock/internal/stats"
	"github.com/gin-gonic/gin"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(list, []byte("# US Texas\n10.0.0.0/24\n# GB\n2001:db8::/126\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	return config.Config{
		Port:               "0",
		BlocklistPath:      list,
		IndexBackend:       config.BackendTable,
		StatsBackend:       config.StatsFile,
		StatsPath:          filepath.Join(dir, "stats.json"),
		StatsFlushInterval: time.Hour,
		RedirectURL:        "https://example.com/",
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApp_Routes(t *testing.T) {
	for _, backend := range []string{config.BackendTable, config.BackendTrie} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.IndexBackend = backend

			a, err := New(context.Background(), cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			h := a.Handler()

			tests := []struct {
				target  string
				blocked bool
			}{
				{"/test?ip=10.0.0.200", true},
				{"/test?ip=10.0.1.1", false},
				{"/test?ip=2001:db8::3", true},
				{"/test?ip=2001:db8::4", false},
			}
			for _, tt := range tests {
				w := get(t, h, tt.target)
				if w.Code != http.StatusOK {
					t.Fatalf("%s: expected status 200, got %d", tt.target, w.Code)
				}
				var body struct {
					Blocked bool `json:"blocked"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatal(err)
				}
				if body.Blocked != tt.blocked {
					t.Errorf("%s: expected blocked=%v", tt.target, tt.blocked)
				}
			}

			w := get(t, h, "/stats")
			if want := "Requests: 4\nBlocks: 2\nPasses: 2\n"; w.Body.String() != want {
				t.Errorf("stats = %q, want %q", w.Body.String(), want)
			}

			if w := get(t, h, "/ready"); w.Code != http.StatusOK {
				t.Errorf("expected ready, got %d", w.Code)
			}

			w = get(t, h, "/metrics")
			if !strings.Contains(w.Body.String(), "redblock_requests_total 4") {
				t.Errorf("metrics missing request counter:\n%s", w.Body.String())
			}
			if !strings.Contains(w.Body.String(), "redblock_blocklist_entries 2") {
				t.Errorf("metrics missing entries gauge:\n%s", w.Body.String())
			}

			if w := get(t, h, "/"); w.Code != http.StatusTemporaryRedirect {
				t.Errorf("expected redirect, got %d", w.Code)
			}
		})
	}
}

func TestApp_MissingBlocklistServesEmpty(t *testing.T) {
	cfg := testConfig(t)
	cfg.BlocklistPath = filepath.Join(t.TempDir(), "missing.txt")

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := get(t, a.Handler(), "/test?ip=10.0.0.1")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"blocked":false`) {
		t.Errorf("expected not blocked, got %d %s", w.Code, w.Body.String())
	}
}

func TestApp_RestoresCounters(t *testing.T) {
	cfg := testConfig(t)
	if err := stats.NewFileStore(cfg.StatsPath).Save(context.Background(), stats.Snapshot{Requests: 7, Blocks: 3, Passes: 4}); err != nil {
		t.Fatal(err)
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := a.Counters().Snapshot(); got.Requests != 7 {
		t.Errorf("expected restored counters, got %+v", got)
	}
}

func TestApp_CorruptStatsStartsFromZero(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.StatsPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := a.Counters().Snapshot(); got != (stats.Snapshot{}) {
		t.Errorf("expected zero counters, got %+v", got)
	}
}

func TestApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.IndexBackend = config.BackendMMDB
	cfg.MMDBPath = filepath.Join(t.TempDir(), "missing.mmdb")
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error for missing MMDB")
	}

	cfg = testConfig(t)
	cfg.PolicyPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error for missing policy file")
	}
}

func TestApp_RunSavesStatsOnShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.GRPCPort = "0"

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	get(t, a.Handler(), "/test?ip=10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	snap, err := stats.NewFileStore(cfg.StatsPath).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap != (stats.Snapshot{Requests: 1, Blocks: 1}) {
		t.Errorf("expected saved counters, got %+v", snap)
	}
}
