package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"noterefiner/internal/model"
)

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Find(ctx context.Context, name string) (*model.Entry, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockEntryRepository) Upsert(ctx context.Context, e *model.Entry) (*model.Entry, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockEntryRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockEntryRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
