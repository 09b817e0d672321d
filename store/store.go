// server/store/store.go
package store

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ViniZap4/lumi-notes/domain"
)

// Clock returns the current time. Store truncates it to milliseconds in UTC.
type Clock func() time.Time

// Store keeps notes in memory, in insertion order. Nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	notes  []domain.Note
	nextID int
	now    Clock
}

type Option func(*Store)

// WithClock overrides time.Now, mostly for tests.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

func New(opts ...Option) *Store {
	s := &Store{
		notes:  []domain.Note{},
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// List returns a copy of every note, oldest first.
func (s *Store) List() []domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

func (s *Store) Get(id string) (domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Note{}, domain.ErrNotFound
	}
	return s.notes[i], nil
}

func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Create appends a note under the next id. Ids are never handed out twice.
func (s *Store) Create(title, content string) domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	note := domain.Note{
		ID:        strconv.Itoa(s.nextID),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.notes = append(s.notes, note)
	return note
}

// Update replaces title and content in place and refreshes UpdatedAt.
func (s *Store) Update(id, title, content string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Note{}, domain.ErrNotFound
	}
	note := s.notes[i]
	note.Title = title
	note.Content = content
	note.UpdatedAt = s.stamp()
	if note.UpdatedAt.Before(note.CreatedAt) {
		note.UpdatedAt = note.CreatedAt
	}
	s.notes[i] = note
	return note, nil
}

// Delete removes the note and returns it.
func (s *Store) Delete(id string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.notes)
	var removed domain.Note
	s.notes = slices.DeleteFunc(s.notes, func(n domain.Note) bool {
		if n.ID == id {
			removed = n
			return true
		}
		return false
	})
	if len(s.notes) == before {
		return domain.Note{}, domain.ErrNotFound
	}
	return removed, nil
}

// Reset drops every note and restarts ids at "1".
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = []domain.Note{}
	s.nextID = 1
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n domain.Note) bool { return n.ID == id })
}
