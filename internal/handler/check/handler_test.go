package check

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/TomasB/redblock/internal/data"
	"github.com/TomasB/redblock/internal/stats"
	"github.com/gin-gonic/gin"
)

// mockLookup implements data.BlockLookup for testing.
type mockLookup struct {
	blocked bool
	err     error
	last    netip.Addr
}

func (m *mockLookup) Blocked(ip netip.Addr) (bool, error) {
	m.last = ip
	return m.blocked, m.err
}

func (m *mockLookup) Len() int { return 0 }

func (m *mockLookup) Close() error { return nil }

func setupRouter(lookup data.BlockLookup, counters *stats.Counters) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(lookup, counters)
	r.GET("/test", h.Test)
	return r
}

func doTest(t *testing.T, router *gin.Engine, query string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req, _ := http.NewRequest("GET", "/test"+query, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return w, body
}

func TestTest_Blocked(t *testing.T) {
	counters := stats.NewCounters(stats.Snapshot{})
	router := setupRouter(&mockLookup{blocked: true}, counters)

	w, body := doTest(t, router, "?ip=1.2.3.4")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if body["blocked"] != true {
		t.Errorf("expected blocked true, got %v", body["blocked"])
	}
	if _, ok := body["error"]; ok {
		t.Errorf("expected no error field, got %v", body["error"])
	}

	if got := counters.Snapshot(); got != (stats.Snapshot{Requests: 1, Blocks: 1}) {
		t.Errorf("unexpected counters %+v", got)
	}
}

func TestTest_NotBlocked(t *testing.T) {
	counters := stats.NewCounters(stats.Snapshot{})
	router := setupRouter(&mockLookup{blocked: false}, counters)

	w, body := doTest(t, router, "?ip=2001:db8::1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if body["blocked"] != false {
		t.Errorf("expected blocked false, got %v", body["blocked"])
	}
	if got := counters.Snapshot(); got != (stats.Snapshot{Requests: 1, Passes: 1}) {
		t.Errorf("unexpected counters %+v", got)
	}
}

func TestTest_MissingIP(t *testing.T) {
	counters := stats.NewCounters(stats.Snapshot{})
	router := setupRouter(&mockLookup{}, counters)

	for _, q := range []string{"", "?ip=", "?other=1"} {
		w, body := doTest(t, router, q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected status 400, got %d", q, w.Code)
		}
		if body["error"] != "missing ?ip=" {
			t.Errorf("%q: expected missing error, got %v", q, body["error"])
		}
	}
	if got := counters.Snapshot(); got.Requests != 0 {
		t.Errorf("rejected requests must not be counted, got %+v", got)
	}
}

func TestTest_InvalidIP(t *testing.T) {
	router := setupRouter(&mockLookup{}, nil)

	for _, q := range []string{"?ip=10.0.0.999", "?ip=not-an-ip", "?ip=10.0.0.0/24"} {
		w, body := doTest(t, router, q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected status 400, got %d", q, w.Code)
		}
		if body["error"] != "invalid ip" {
			t.Errorf("%q: expected 'invalid ip' error, got %v", q, body["error"])
		}
	}
}

func TestTest_LookupError(t *testing.T) {
	router := setupRouter(&mockLookup{err: fmt.Errorf("db failure")}, nil)

	w, body := doTest(t, router, "?ip=1.2.3.4")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if body["error"] != "lookup failed" {
		t.Errorf("expected 'lookup failed' error, got %v", body["error"])
	}
}

func TestTest_MappedIPv4(t *testing.T) {
	lookup := &mockLookup{}
	router := setupRouter(lookup, nil)

	doTest(t, router, "?ip=::ffff:10.0.0.5")
	if !lookup.last.Is4() {
		t.Errorf("expected lookup with IPv4 address, got %s", lookup.last)
	}
}

// Loads a real block list from disk and serves it through the range table.
func TestTest_EndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte("# US Texas\n10.0.0.0/24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	router := setupRouter(data.NewRangeTable(data.LoadBlocklist(path)), nil)

	tests := []struct {
		query  string
		status int
		key    string
		want   interface{}
	}{
		{"?ip=10.0.0.5", http.StatusOK, "blocked", true},
		{"?ip=10.0.1.5", http.StatusOK, "blocked", false},
		{"?ip=10.0.0.999", http.StatusBadRequest, "error", "invalid ip"},
	}
	for _, tt := range tests {
		w, body := doTest(t, router, tt.query)
		if w.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.query, tt.status, w.Code)
		}
		if body[tt.key] != tt.want {
			t.Errorf("%s: expected %s=%v, got %v", tt.query, tt.key, tt.want, body[tt.key])
		}
	}
}

func TestTest_EndToEndMissingList(t *testing.T) {
	router := setupRouter(data.NewRangeTable(data.LoadBlocklist(filepath.Join(t.TempDir(), "missing.txt"))), nil)

	for _, ip := range []string{"10.0.0.5", "2001:db8::1"} {
		w, body := doTest(t, router, "?ip="+ip)
		if w.Code != http.StatusOK || body["blocked"] != false {
			t.Errorf("%s: expected 200 not blocked, got %d %v", ip, w.Code, body)
		}
	}
}
