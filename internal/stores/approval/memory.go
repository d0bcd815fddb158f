package approval

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps the ledger in process memory
type InMemoryStore struct {
	entries map[string]*Entry
	mutex   sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory ledger
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*Entry)}
}

// Record adds an entry
func (s *InMemoryStore) Record(entry *Entry) error {
	if err := validate(entry); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.entries[entry.RecordID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyApproved, entry.RecordID)
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	entryCopy := *entry
	s.entries[entry.RecordID] = &entryCopy
	return nil
}

// IsApproved reports whether the record id has an entry
func (s *InMemoryStore) IsApproved(recordID string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.entries[recordID]
	return exists, nil
}

// List returns every entry, newest first
func (s *InMemoryStore) List() ([]*Entry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries := make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entryCopy := *entry
		entries = append(entries, &entryCopy)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ApprovedAt.Equal(entries[j].ApprovedAt) {
			return entries[i].RecordID < entries[j].RecordID
		}
		return entries[i].ApprovedAt.After(entries[j].ApprovedAt)
	})

	return entries, nil
}

// Close is a no-op for the in-memory ledger
func (s *InMemoryStore) Close() error {
	return nil
}
