package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jfmyers9/scrobbler/internal/scrobbler"
)

// FlushState is the record of the daemon's flushes
type FlushState struct {
	LastFlush time.Time `json:"last_flush"`
	LastError string    `json:"last_error,omitempty"`
	Flushes   int       `json:"flushes"`
	Accepted  int       `json:"accepted"`
	Ignored   int       `json:"ignored"`
}

// State manages the flush record with thread-safe access and persistence
type State struct {
	mu       sync.RWMutex
	current  FlushState
	filePath string // Path to state file for persistence
}

// NewState creates a new State instance
// If filePath is provided, attempts to restore state from disk
func NewState(filePath string) (*State, error) {
	s := &State{
		filePath: filePath,
	}

	if filePath != "" {
		if err := s.restore(); err != nil && !os.IsNotExist(err) {
			// The caller may continue with the empty state
			return s, err
		}
	}

	return s, nil
}

// Record adds one flush outcome and persists it
func (s *State) Record(at time.Time, result scrobbler.FlushResult, flushErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.LastFlush = at
	s.current.Flushes++
	s.current.Accepted += result.Accepted
	s.current.Ignored += result.Ignored
	s.current.LastError = ""
	if flushErr != nil {
		s.current.LastError = flushErr.Error()
	}

	return s.persist()
}

// Get returns a copy of the current state
func (s *State) Get() FlushState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// persist saves the current state to disk
// Must be called with lock held
func (s *State) persist() error {
	if s.filePath == "" {
		return nil // No persistence configured
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Write atomically via temp file + rename
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.filePath)
}

// restore loads state from disk
func (s *State) restore() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var fs FlushState
	if err := json.Unmarshal(data, &fs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = fs
	return nil
}
