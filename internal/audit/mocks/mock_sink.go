package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Record(ctx context.Context, e model.ActivityLogEntry) {
	m.Called(ctx, e)
}

func (m *MockSink) RecordError(ctx context.Context, subjectID string, err error, detail string) {
	m.Called(ctx, subjectID, err, detail)
}
