package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/TomasB/redblock/internal/atomicfile"
)

// Store persists snapshots.
type Store interface {
	// Load returns the persisted snapshot. A store with nothing persisted
	// returns a zero Snapshot and no error.
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Close() error
}

// FileStore keeps the snapshot in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the snapshot. A corrupt file yields a zero Snapshot together
// with the decode error.
func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read stats file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode stats file: %w", err)
	}
	return snap, nil
}

// Save replaces the file atomically.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return atomicfile.WriteFile(s.path, raw, 0o644)
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
