package data

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitBlocked(t *testing.T, h *Holder, ip string, want bool) {
	t.Helper()
	addr := netip.MustParseAddr(ip)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := h.Blocked(addr); got == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for Blocked(%s) = %v", ip, want)
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte("10.0.0.0/24\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	build, err := NewBuilder("table")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHolder(build(LoadBlocklist(path)))
	w := NewWatcher(path, build, h)

	if err := os.WriteFile(path, []byte("10.0.1.0/24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.Reload()
	waitBlocked(t, h, "10.0.1.5", true)
	waitBlocked(t, h, "10.0.0.5", false)
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(path, []byte("10.0.0.0/24\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	build, err := NewBuilder("trie")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHolder(build(LoadBlocklist(path)))
	w := NewWatcher(path, build, h)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	}()

	// Give the watcher time to register before replacing the file.
	time.Sleep(100 * time.Millisecond)

	tmp := filepath.Join(dir, "list.txt.new")
	if err := os.WriteFile(tmp, []byte("192.0.2.0/24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	waitBlocked(t, h, "192.0.2.1", true)
	waitBlocked(t, h, "10.0.0.5", false)
}
