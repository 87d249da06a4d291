package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"noterefiner/internal/model"
	"noterefiner/internal/repository"
)

// SQL adapts a repository.EntryRepository to the KeyValue interface.
type SQL struct {
	repo repository.EntryRepository
	now  func() time.Time
}

// NewSQL wraps repo.
func NewSQL(repo repository.EntryRepository) *SQL {
	return &SQL{repo: repo, now: time.Now}
}

var (
	_ KeyValue = (*SQL)(nil)
	_ Pinger   = (*SQL)(nil)
)

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	e, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return e.Value, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.repo.Upsert(ctx, &model.Entry{
		Name:      key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	})
	return err
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
