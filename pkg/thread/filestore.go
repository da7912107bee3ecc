package thread

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parleyhq/parley/pkg/logging"
	"github.com/parleyhq/parley/pkg/types"
)

// ThreadRecord is the persisted shape of one thread: its ID, full turn
// history, and stored summaries.
type ThreadRecord struct {
	ID        string              `json:"id"`
	Turns     []*types.ChatTurn   `json:"turns"`
	Summaries []types.ChatSummary `json:"summaries,omitempty"`
}

// Store persists thread state so it survives process restarts. The in-memory
// Service remains authoritative while running; a Store only has to replay
// what it was last given.
type Store interface {
	// SaveThread persists the full record for one thread, replacing any
	// prior record with the same ID.
	SaveThread(rec ThreadRecord) error

	// LoadThreads returns every persisted thread record.
	LoadThreads() ([]ThreadRecord, error)

	// DeleteThread removes the persisted record for id. Removing an
	// unpersisted thread is not an error.
	DeleteThread(id string) error
}

// FileStore is a local file-system Store. Each thread is one JSON document
// in the configured directory, written atomically via a temporary file.
type FileStore struct {
	dir string
	log *logging.Logger
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create thread store directory %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve thread store directory: %w", err)
	}
	log, _ := logging.NewLogger("threadstore")
	return &FileStore{dir: abs, log: log}, nil
}

// pathFor resolves the file path for a thread ID, rejecting IDs that would
// escape the store directory.
func (fs *FileStore) pathFor(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("invalid thread id (empty)")
	}
	if strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("invalid thread id %q (contains path separator)", id)
	}
	resolved := filepath.Join(fs.dir, id+".json")
	if !strings.HasPrefix(resolved, fs.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid thread id %q (escapes store directory)", id)
	}
	return resolved, nil
}

// SaveThread implements Store.
func (fs *FileStore) SaveThread(rec ThreadRecord) error {
	path, err := fs.pathFor(rec.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal thread %s: %w", rec.ID, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write thread %s: %w", rec.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace thread %s: %w", rec.ID, err)
	}
	return nil
}

// LoadThreads implements Store. Corrupt or unreadable files are skipped with
// a log entry rather than failing the load — one bad record must not take
// every thread down with it.
func (fs *FileStore) LoadThreads() ([]ThreadRecord, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread store %s: %w", fs.dir, err)
	}

	var out []ThreadRecord
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(fs.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			fs.log.Warnf("skipping unreadable thread file %s: %v", path, err)
			continue
		}
		var rec ThreadRecord
		if err := json.Unmarshal(data, &rec); err != nil || rec.ID == "" {
			fs.log.Warnf("skipping corrupt thread file %s", path)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteThread implements Store.
func (fs *FileStore) DeleteThread(id string) error {
	path, err := fs.pathFor(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete thread %s: %w", id, err)
	}
	return nil
}
