package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestNullStoreDiscardsRecords(t *testing.T) {
	s := NewNullStore()
	ctx := context.Background()

	if err := s.Append(ctx, Record{InstanceID: "x"}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	recs, err := s.Recent(ctx, "x", 0)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recent() = %v, want empty", recs)
	}
}

func TestFileStoreAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close()

	base := time.Now()
	for i, method := range []string{"heuristic", "ilp", "hybrid"} {
		rec := Record{
			InstanceID: "demo",
			Method:     method,
			Status:     "optimal",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("Append(%s) error: %v", method, err)
		}
	}
	if err := s.Append(ctx, Record{InstanceID: "other", Method: "input"}); err != nil {
		t.Fatalf("Append(other) error: %v", err)
	}

	recs, err := s.Recent(ctx, "demo", 0)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Recent() returned %d records, want 3", len(recs))
	}
	if recs[0].Method != "hybrid" {
		t.Errorf("Recent()[0].Method = %q, want most-recent-first %q", recs[0].Method, "hybrid")
	}

	limited, err := s.Recent(ctx, "demo", 1)
	if err != nil {
		t.Fatalf("Recent(limit=1) error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("Recent(limit=1) returned %d records, want 1", len(limited))
	}
}

func TestFileStoreRecentMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.jsonl")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	recs, err := s.Recent(context.Background(), "demo", 0)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if recs != nil {
		t.Errorf("Recent() on missing file = %v, want nil", recs)
	}
}
