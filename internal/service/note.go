package service

import (
	"context"

	"noterefiner/internal/model"
	"noterefiner/internal/notestore"
)

// NoteListResult is the service-level DTO for a filtered list of notes.
type NoteListResult struct {
	Items []model.Note `json:"data"`
	Total int          `json:"total"`
}

// NoteService defines the use cases for saved notes.
type NoteService interface {
	// List returns notes matching query (case-insensitive, original or refined), newest first.
	List(ctx context.Context, query string) (*NoteListResult, error)

	// Create saves a refined note under the given mode.
	// Blank refined text is notestore.ErrRefinedRequired; an unknown mode is model.ErrInvalidMode.
	Create(ctx context.Context, original, refined, mode string) (*model.Note, error)

	// Get returns a single note by its ID, or ErrNoteNotFound.
	Get(ctx context.Context, id int64) (*model.Note, error)

	// Delete removes a note by ID. Missing IDs are not an error.
	Delete(ctx context.Context, id int64) error
}

type noteService struct {
	store *notestore.Store
}

// NewNoteService constructs a new NoteService over store.
func NewNoteService(store *notestore.Store) NoteService {
	return &noteService{store: store}
}

func (s *noteService) List(ctx context.Context, query string) (*NoteListResult, error) {
	items := s.store.Search(ctx, query)
	return &NoteListResult{Items: items, Total: len(items)}, nil
}

func (s *noteService) Create(ctx context.Context, original, refined, mode string) (*model.Note, error) {
	m := model.DefaultMode
	if mode != "" {
		parsed, err := model.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		m = parsed
	}
	n, err := s.store.Save(ctx, original, refined, m)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *noteService) Get(ctx context.Context, id int64) (*model.Note, error) {
	n, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &n, nil
}

func (s *noteService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
