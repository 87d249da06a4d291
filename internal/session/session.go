// Package session holds the state of one note-refining client: the text being
// edited, the latest refined output, the selected mode, the history search
// query and the busy flag that allows a single refinement at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"noterefiner/internal/model"
	"noterefiner/internal/notestore"
	"noterefiner/internal/refine"
)

var (
	ErrBusy         = errors.New("a refinement is already in progress")
	ErrRefineFailed = errors.New("error generating note")
	ErrNoteNotFound = errors.New("note not found")
)

// State is a point-in-time copy of the session fields.
type State struct {
	Input  string
	Output string
	Mode   model.Mode
	Busy   bool
	Query  string
}

// Session owns a note store and drives the refiner on behalf of one user.
type Session struct {
	refiner refine.Refiner
	store   *notestore.Store

	mu     sync.Mutex
	input  string
	output string
	mode   model.Mode
	busy   bool
	query  string
}

// New starts an idle session in the default mode.
func New(refiner refine.Refiner, store *notestore.Store) *Session {
	return &Session{
		refiner: refiner,
		store:   store,
		mode:    model.DefaultMode,
	}
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

// SetMode selects the mode used by the next refinement and save.
func (s *Session) SetMode(mode string) error {
	m, err := model.ParseMode(mode)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Input:  s.input,
		Output: s.output,
		Mode:   s.mode,
		Busy:   s.busy,
		Query:  s.query,
	}
}

// Refine sends the current input to the refiner. Empty input is a no-op.
// While a call is outstanding further calls fail with ErrBusy. On failure
// the output is left as it was; the busy flag is cleared either way.
func (s *Session) Refine(ctx context.Context) error {
	s.mu.Lock()
	if s.input == "" {
		s.mu.Unlock()
		return nil
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	note, mode := s.input, s.mode
	s.mu.Unlock()

	out, err := s.refiner.Refine(ctx, note, mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefineFailed, err)
	}
	s.output = out
	return nil
}

// Save stores the current (input, output, mode) triple.
// It fails with notestore.ErrRefinedRequired when there is no output yet.
func (s *Session) Save(ctx context.Context) (model.Note, error) {
	st := s.Snapshot()
	if st.Output == "" {
		return model.Note{}, notestore.ErrRefinedRequired
	}
	return s.store.Save(ctx, st.Input, st.Output, st.Mode)
}

// Delete removes a saved note.
func (s *Session) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Notes returns the saved notes filtered by the current query.
func (s *Session) Notes(ctx context.Context) []model.Note {
	return s.store.Search(ctx, s.Snapshot().Query)
}

// Recall loads a saved note back into the editor.
func (s *Session) Recall(ctx context.Context, id int64) (model.Note, error) {
	n, ok := s.store.Get(ctx, id)
	if !ok {
		return model.Note{}, ErrNoteNotFound
	}
	s.mu.Lock()
	s.input = n.Original
	s.output = n.Refined
	s.mu.Unlock()
	return n, nil
}
