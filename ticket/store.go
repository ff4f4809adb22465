package ticket

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists work tickets, one JSON file per ticket, keyed by ticket
// ID.
type Store struct {
	dir string
}

// NewStore creates a ticket store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding ticket files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a ticket ID.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save persists a ticket, creating the directory if needed.
func (s *Store) Save(t *WorkTicket) error {
	if t.ID == "" {
		return ErrTicketIDRequired
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create tickets directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ticket %s: %w", t.ID, err)
	}

	if err := os.WriteFile(s.Path(t.ID), data, 0644); err != nil {
		return fmt.Errorf("write ticket %s: %w", t.ID, err)
	}

	return nil
}

// Load retrieves a ticket by ID.
func (s *Store) Load(id string) (*WorkTicket, error) {
	if id == "" {
		return nil, ErrTicketIDRequired
	}

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read ticket %s: %w", id, err)
	}

	var t WorkTicket
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse ticket %s: %w", id, err)
	}

	return &t, nil
}

// Filter narrows List results. Zero-value fields match everything.
type Filter struct {
	AssignedTo string
	Component  string
	Status     Status
}

// List returns tickets matching the filter, unreadable files skipped.
func (s *Store) List(filter Filter) ([]*WorkTicket, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*WorkTicket{}, nil
		}
		return nil, fmt.Errorf("read tickets directory: %w", err)
	}

	tickets := make([]*WorkTicket, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		t, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Component != "" && t.Component != filter.Component {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}

		tickets = append(tickets, t)
	}

	return tickets, nil
}

// Update applies free-form updates to a ticket and refreshes updated_at.
// Keys under "details" are merged into the existing details instead of
// replacing them, matching how agents patch tickets incrementally.
func (s *Store) Update(id string, updates map[string]any) (*WorkTicket, error) {
	if id == "" {
		return nil, ErrTicketIDRequired
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no updates given for ticket %s", id)
	}

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read ticket %s: %w", id, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ticket %s: %w", id, err)
	}

	for key, value := range updates {
		if key == "details" {
			detailUpdates, ok := value.(map[string]any)
			if !ok {
				raw[key] = value
				continue
			}
			details, ok := raw["details"].(map[string]any)
			if !ok {
				details = map[string]any{}
			}
			for dk, dv := range detailUpdates {
				details[dk] = dv
			}
			raw["details"] = details
			continue
		}
		raw[key] = value
	}

	raw["updated_at"] = time.Now().Format(time.RFC3339Nano)

	merged, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ticket %s: %w", id, err)
	}

	if err := os.WriteFile(s.Path(id), merged, 0644); err != nil {
		return nil, fmt.Errorf("write ticket %s: %w", id, err)
	}

	var t WorkTicket
	if err := json.Unmarshal(merged, &t); err != nil {
		return nil, fmt.Errorf("parse updated ticket %s: %w", id, err)
	}

	return &t, nil
}

// Close marks a ticket closed.
func (s *Store) Close(id string) (*WorkTicket, error) {
	return s.Update(id, map[string]any{"status": string(StatusClosed)})
}
