package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

type MockShareGrantRepository struct {
	mock.Mock
}

func (m *MockShareGrantRepository) Create(ctx context.Context, g *model.ShareGrant) (*model.ShareGrant, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareGrant), args.Error(1)
}

func (m *MockShareGrantRepository) FindByID(ctx context.Context, id string) (*model.ShareGrant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareGrant), args.Error(1)
}

func (m *MockShareGrantRepository) ListBySubject(ctx context.Context, subjects []string) ([]model.ShareGrant, error) {
	args := m.Called(ctx, subjects)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShareGrant), args.Error(1)
}

func (m *MockShareGrantRepository) ListActiveForDocument(ctx context.Context, documentID, subject string) ([]model.ShareGrant, error) {
	args := m.Called(ctx, documentID, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShareGrant), args.Error(1)
}

func (m *MockShareGrantRepository) MarkRevoked(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
