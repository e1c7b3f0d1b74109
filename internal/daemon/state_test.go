package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jfmyers9/scrobbler/internal/scrobbler"
)

func TestState_RecordAndRestore(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "state", "flush.json")

	s, err := NewState(fp)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Record(first, scrobbler.FlushResult{Batches: 1, Accepted: 3, Ignored: 1}, nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := first.Add(5 * time.Minute)
	if err := s.Record(second, scrobbler.FlushResult{}, errors.New("service offline")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got := s.Get()
	if got.Flushes != 2 || got.Accepted != 3 || got.Ignored != 1 {
		t.Errorf("unexpected totals: %+v", got)
	}
	if got.LastError != "service offline" {
		t.Errorf("expected last error recorded, got %q", got.LastError)
	}

	restored, err := NewState(fp)
	if err != nil {
		t.Fatalf("NewState restore: %v", err)
	}
	r := restored.Get()
	if !r.LastFlush.Equal(second) || r.Flushes != 2 || r.Accepted != 3 {
		t.Errorf("restored state mismatch: %+v", r)
	}

	if _, err := os.Stat(fp + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file should be renamed away, stat err = %v", err)
	}
}

func TestState_ClearsErrorOnSuccess(t *testing.T) {
	s, err := NewState("")
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	_ = s.Record(time.Now(), scrobbler.FlushResult{}, errors.New("boom"))
	_ = s.Record(time.Now(), scrobbler.FlushResult{}, nil)

	if got := s.Get().LastError; got != "" {
		t.Errorf("expected error cleared, got %q", got)
	}
}

func TestNewState_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewState(filepath.Join(dir, "missing.json")); err != nil {
		t.Errorf("missing file should not be an error, got %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewState(corrupt)
	if err == nil {
		t.Error("expected error for corrupt state file")
	}
	if s == nil || s.Get() != (FlushState{}) {
		t.Error("corrupt state should still yield an empty usable state")
	}
}
