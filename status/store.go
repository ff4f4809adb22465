package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store persists component status records, one JSON file per component,
// under a single directory.
//
// Loads never create files; a missing or unreadable record yields a fresh
// default. Saves are full overwrites that refresh last_updated and
// recompute the derived operational status, so the on-disk invariant
// holds no matter which mutation path wrote the record.
//
// Update serializes read-modify-write cycles per component within this
// process. Concurrent writers in separate processes are not coordinated;
// the last writer wins.
type Store struct {
	dir string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on first save.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Dir returns the directory holding status files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the status file path for a component.
func (s *Store) Path(component string) string {
	return filepath.Join(s.dir, component+"_status.json")
}

// lock returns the mutex for a component, creating it if needed.
func (s *Store) lock(component string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if s.locks[component] == nil {
		s.locks[component] = &sync.Mutex{}
	}
	return s.locks[component]
}

// Load returns the persisted record for a component, or a freshly
// initialized default when no record exists. A corrupt record is treated
// as absent; the caller gets a fresh default and the next save replaces
// the bad file.
func (s *Store) Load(component string) (*ComponentStatus, error) {
	if err := ValidateComponent(component); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(component))
	if err != nil {
		if os.IsNotExist(err) {
			return NewComponentStatus(component), nil
		}
		return nil, fmt.Errorf("read status for %s: %w", component, err)
	}

	var status ComponentStatus
	if err := json.Unmarshal(data, &status); err != nil {
		// Unreadable record: synthesize a fresh default rather than
		// blocking every future recording for this component.
		return NewComponentStatus(component), nil
	}

	return &status, nil
}

// Save persists a full overwrite of the record. The last_updated timestamp
// is refreshed and the operational status recomputed before the write.
func (s *Store) Save(component string, status *ComponentStatus) error {
	if err := ValidateComponent(component); err != nil {
		return err
	}

	status.LastUpdated = time.Now()
	status.Operational = DeriveOperational(status.Start.Status, status.Tests.Status)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status for %s: %w", component, err)
	}

	if err := os.WriteFile(s.Path(component), data, 0644); err != nil {
		return fmt.Errorf("write status for %s: %w", component, err)
	}

	return nil
}

// Update applies fn to the component's record under the per-component
// lock and saves the result. It returns the updated record.
func (s *Store) Update(component string, fn func(*ComponentStatus) error) (*ComponentStatus, error) {
	if err := ValidateComponent(component); err != nil {
		return nil, err
	}

	lock := s.lock(component)
	lock.Lock()
	defer lock.Unlock()

	status, err := s.Load(component)
	if err != nil {
		return nil, err
	}

	if err := fn(status); err != nil {
		return nil, err
	}

	if err := s.Save(component, status); err != nil {
		return nil, err
	}

	return status, nil
}

// List returns the component identifiers with persisted status files.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read status directory: %w", err)
	}

	components := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		const suffix = "_status.json"
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			components = append(components, name[:len(name)-len(suffix)])
		}
	}

	return components, nil
}
