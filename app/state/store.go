package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the record map as a single JSON file, read once at the
// start of a run and rewritten wholesale at the end. There is no inter-process
// locking: one run at a time is an operational requirement.
type Store struct {
	stateFile  string
	lastIDFile string
}

func NewStore(dir, name string) *Store {
	return &Store{
		stateFile:  filepath.Join(dir, name+".state.json"),
		lastIDFile: filepath.Join(dir, name+".last_id.txt"),
	}
}

// Load reads the persisted record map. A missing or unreadable state file is
// a cold start: it is logged and an empty map is returned, trading a burst of
// "new" notifications for availability.
func (s *Store) Load() map[string]*Record {
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read state file, starting cold", "file", s.stateFile, "error", err)
		}
		return make(map[string]*Record)
	}

	var records map[string]*Record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("State file corrupt, starting cold", "file", s.stateFile, "error", err)
		return make(map[string]*Record)
	}
	if records == nil {
		records = make(map[string]*Record)
	}

	return records
}

// Save rewrites the full record map atomically: the JSON is written to a
// temp file in the same directory and renamed over the old state, so a crash
// never leaves a half-written file.
func (s *Store) Save(records map[string]*Record) error {
	if err := os.MkdirAll(filepath.Dir(s.stateFile), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.stateFile), ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.stateFile); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// LoadLastID returns the last processed item id, or empty when none is recorded.
func (s *Store) LoadLastID() string {
	data, err := os.ReadFile(s.lastIDFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) SaveLastID(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.lastIDFile), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.lastIDFile, []byte(id), 0644); err != nil {
		return fmt.Errorf("failed to write last id: %w", err)
	}
	return nil
}
