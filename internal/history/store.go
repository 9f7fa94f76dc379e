package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/deixis/vouch/internal/report"
)

const stateFile = "state.json"

// Store reads and writes history state in a directory.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir. Empty dir means the default
// location under the user cache directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locating state directory: %w", err)
		}
		dir = filepath.Join(cache, "vouch")
	}
	return &Store{Dir: dir}, nil
}

// Load reads the state from disk. A missing file yields an empty state.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, stateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("reading history state: %w", err)
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing history state: %w", err)
	}
	return state, nil
}

// Save writes the state to disk atomically (temp file + rename), so
// readers never see a partial state.
func (s *Store) Save(state *State) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling history state: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".state-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting state file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.Dir, stateFile)); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	tmp = nil

	return nil
}

// Record folds a run's checks into the history state under an exclusive
// file lock, so concurrent vouch processes serialize their updates.
func (s *Store) Record(rr *report.RunResult) (*State, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	lock := flock.New(filepath.Join(s.Dir, stateFile+".lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking history state: %w", err)
	}
	defer lock.Unlock()

	state, err := s.Load()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, c := range rr.Checks {
		if c.Status == report.StatusSkipped {
			continue
		}

		h := state.Tool(c.Tool)
		version := versionOf(c.VersionLine, c.Output)

		if c.Status == report.StatusVerified {
			h.MarkGood(version)
		} else {
			h.MarkBad(version)
		}

		if version != "" {
			h.LastSeen = version
		}
		h.LastStatus = c.Status
		h.LastChecked = now
	}

	if err := s.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}
