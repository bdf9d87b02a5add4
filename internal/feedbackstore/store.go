// Package feedbackstore holds visitor feedback while it waits for moderation.
// The current backing is process memory: entries are lost on restart, which is
// an accepted property of the moderation queue. Handlers only see the Store
// interface so a Mongo-backed implementation can be dropped in later.
package feedbackstore

import (
	"sync"
	"time"

	"github.com/Sanchit081/NeuroBit/internal/models"
)

type Store interface {
	Insert(fb models.Feedback)
	List() []models.Feedback
	UpdateStatus(id, status string) (models.Feedback, bool)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries []models.Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make([]models.Feedback, 0)}
}

func (s *MemoryStore) Insert(fb models.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, fb)
}

// List returns a snapshot copy so callers can filter and sort freely while
// concurrent submissions keep appending.
func (s *MemoryStore) List() []models.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Feedback, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *MemoryStore) UpdateStatus(id, status string) (models.Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			now := time.Now()
			s.entries[i].Status = status
			s.entries[i].UpdatedAt = &now
			return s.entries[i], true
		}
	}
	return models.Feedback{}, false
}
