// Package notestore keeps the saved notes: a newest-first list persisted as one
// JSON value under a fixed key of a storage.KeyValue backend.
//
// Reads are lenient. A missing key or a value that does not parse loads as an
// empty list. A backend read error also shows as empty, but the store stays
// unloaded: the next call retries the read, and writes fail with ErrUnavailable
// until one succeeds, so a stored list is never overwritten unseen. Writes are
// all-or-nothing: the updated list is persisted first and only then replaces the
// in-memory one.
package notestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"noterefiner/internal/config"
	"noterefiner/internal/model"
	"noterefiner/internal/storage"
)

var (
	ErrRefinedRequired = errors.New("refined text is required")
	ErrUnavailable     = errors.New("notes could not be read")
)

// Store is the single owner of the saved notes for one session or server.
type Store struct {
	kv  storage.KeyValue
	key string
	now func() time.Time
	log *zap.Logger

	mu      sync.Mutex
	notes   []model.Note
	loaded  bool
	readErr error
	lastID  int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for ids and dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used to report degraded reads.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns a store persisting under key. An empty key uses config.DefaultNotesKey.
func New(kv storage.KeyValue, key string, opts ...Option) *Store {
	if key == "" {
		key = config.DefaultNotesKey
	}
	s := &Store{
		kv:  kv,
		key: key,
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection, replacing whatever is in memory,
// and returns a copy of it.
func (s *Store) Load(ctx context.Context) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return clone(s.notes)
}

func (s *Store) loadLocked(ctx context.Context) {
	s.notes, s.readErr = s.read(ctx)
	s.loaded = s.readErr == nil
	s.lastID = 0
	for _, n := range s.notes {
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
}

// read returns a non-nil error only when the backend could not be reached.
func (s *Store) read(ctx context.Context) ([]model.Note, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []model.Note{}, nil
	}
	if err != nil {
		s.log.Warn("notes read failed, showing empty", zap.String("key", s.key), zap.Error(err))
		return []model.Note{}, err
	}
	var notes []model.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		s.log.Warn("notes value malformed, starting empty", zap.String("key", s.key), zap.Error(err))
		return []model.Note{}, nil
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if !s.loaded {
		s.loadLocked(ctx)
	}
}

// ensureWritable is ensureLoaded for writers: persisting over a list that was
// never read would drop it.
func (s *Store) ensureWritable(ctx context.Context) error {
	s.ensureLoaded(ctx)
	if !s.loaded {
		return fmt.Errorf("%w: %w", ErrUnavailable, s.readErr)
	}
	return nil
}

// Save creates a note and prepends it. Empty refined text is rejected with
// ErrRefinedRequired and nothing is written.
func (s *Store) Save(ctx context.Context, original, refined string, mode model.Mode) (model.Note, error) {
	if refined == "" {
		return model.Note{}, ErrRefinedRequired
	}
	if !mode.Valid() {
		return model.Note{}, model.ErrInvalidMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureWritable(ctx); err != nil {
		return model.Note{}, err
	}

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	note := model.Note{
		ID:       id,
		Date:     model.FormatDate(now),
		Original: original,
		Refined:  refined,
		Type:     mode,
	}

	updated := make([]model.Note, 0, len(s.notes)+1)
	updated = append(updated, note)
	updated = append(updated, s.notes...)
	if err := s.persist(ctx, updated); err != nil {
		return model.Note{}, err
	}
	s.notes = updated
	s.lastID = id
	return note, nil
}

// Delete removes the note with id. A missing id is not an error and writes nothing.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureWritable(ctx); err != nil {
		return err
	}

	idx := -1
	for i, n := range s.notes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	updated := make([]model.Note, 0, len(s.notes)-1)
	updated = append(updated, s.notes[:idx]...)
	updated = append(updated, s.notes[idx+1:]...)
	if err := s.persist(ctx, updated); err != nil {
		return err
	}
	s.notes = updated
	return nil
}

// Clear drops the backend entry and empties the store.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	s.notes = []model.Note{}
	s.loaded = true
	s.readErr = nil
	return nil
}

// Search returns the notes whose original or refined text contains query,
// ignoring case, in store order. An empty query returns every note.
func (s *Store) Search(ctx context.Context, query string) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if query == "" {
		return clone(s.notes)
	}
	q := strings.ToLower(query)
	out := make([]model.Note, 0)
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Refined), q) || strings.Contains(strings.ToLower(n.Original), q) {
			out = append(out, n)
		}
	}
	return out
}

// Get looks up a single note.
func (s *Store) Get(ctx context.Context, id int64) (model.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

// All returns every note, newest first.
func (s *Store) All(ctx context.Context) []model.Note {
	return s.Search(ctx, "")
}

// Len is the number of saved notes.
func (s *Store) Len(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return len(s.notes)
}

// Key is the backend entry name.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) persist(ctx context.Context, notes []model.Note) error {
	b, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, b); err != nil {
		return fmt.Errorf("persist notes: %w", err)
	}
	return nil
}

func clone(notes []model.Note) []model.Note {
	out := make([]model.Note, len(notes))
	copy(out, notes)
	return out
}
