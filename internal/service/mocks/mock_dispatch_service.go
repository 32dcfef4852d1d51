package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/notifyd/internal/service"
)

// MockDispatchService is a mock implementation of service.DispatchService.
type MockDispatchService struct {
	mock.Mock
}

//nolint:revive
func (m *MockDispatchService) Dispatch(ctx context.Context, req *service.NotificationRequest) (*service.DispatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DispatchResult), args.Error(1)
}
