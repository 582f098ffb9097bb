package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

// MockSharingService is a testify mock of service.SharingService.
type MockSharingService struct {
	mock.Mock
}

func (m *MockSharingService) Share(ctx context.Context, caller service.Caller, documentID string, in service.ShareInput) (*model.ShareGrant, error) {
	args := m.Called(ctx, caller, documentID, in)
	if grant, ok := args.Get(0).(*model.ShareGrant); ok {
		return grant, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSharingService) Revoke(ctx context.Context, caller service.Caller, documentID, grantID string) error {
	args := m.Called(ctx, caller, documentID, grantID)
	return args.Error(0)
}

func (m *MockSharingService) ListSharedWithMe(ctx context.Context, caller service.Caller) ([]service.SharedDocument, error) {
	args := m.Called(ctx, caller)
	if docs, ok := args.Get(0).([]service.SharedDocument); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}
