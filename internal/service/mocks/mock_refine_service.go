package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"noterefiner/internal/service"
)

type MockRefineService struct {
	mock.Mock
}

func (m *MockRefineService) Refine(ctx context.Context, req service.RefineRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
