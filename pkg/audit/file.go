package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore appends audit records as JSON lines to a single file, one
// record per line, so a crash mid-write corrupts at most the last line.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-based audit store backed by path. The
// parent directory is created if missing; the file itself is created on
// first Append.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

func (s *FileStore) Recent(ctx context.Context, instanceID string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var matched []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if instanceID == "" || rec.InstanceID == instanceID {
			matched = append(matched, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	reversed := make([]Record, len(matched))
	for i, rec := range matched {
		reversed[len(matched)-1-i] = rec
	}
	if limit > 0 && len(reversed) > limit {
		reversed = reversed[:limit]
	}
	return reversed, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
