package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

// MockDocumentService is a testify mock of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, caller service.Caller, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, caller, in)
	if doc, ok := args.Get(0).(*model.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, caller service.Caller, id string) (*model.Document, error) {
	args := m.Called(ctx, caller, id)
	if doc, ok := args.Get(0).(*model.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, caller service.Caller, id string) (*service.DownloadResult, error) {
	args := m.Called(ctx, caller, id)
	if res, ok := args.Get(0).(*service.DownloadResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, caller service.Caller, id string, patch service.UpdatePatch) (*model.Document, error) {
	args := m.Called(ctx, caller, id, patch)
	if doc, ok := args.Get(0).(*model.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) SoftDelete(ctx context.Context, caller service.Caller, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockDocumentService) List(ctx context.Context, caller service.Caller, category model.Category) ([]model.Document, error) {
	args := m.Called(ctx, caller, category)
	if docs, ok := args.Get(0).([]model.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, caller service.Caller, q string) ([]model.Document, error) {
	args := m.Called(ctx, caller, q)
	if docs, ok := args.Get(0).([]model.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) Profile(ctx context.Context, caller service.Caller) (*model.User, error) {
	args := m.Called(ctx, caller)
	if user, ok := args.Get(0).(*model.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentService) Activity(ctx context.Context, caller service.Caller, limit int) ([]model.ActivityLogEntry, error) {
	args := m.Called(ctx, caller, limit)
	if entries, ok := args.Get(0).([]model.ActivityLogEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}
