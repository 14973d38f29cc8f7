package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockChangeNotifier is a mock implementation of services.ChangeNotifier
type MockChangeNotifier struct {
	mock.Mock
}

func (m *MockChangeNotifier) SubjectChanged(ctx context.Context, subjectID int64) {
	m.Called(ctx, subjectID)
}
