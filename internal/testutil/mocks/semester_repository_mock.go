package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studytracker/internal/models"
)

// MockSemesterRepository is a mock implementation of repository.SemesterRepository
type MockSemesterRepository struct {
	mock.Mock
}

func (m *MockSemesterRepository) List(ctx context.Context, includeArchived bool) ([]models.Semester, error) {
	args := m.Called(ctx, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Semester), args.Error(1)
}

func (m *MockSemesterRepository) Get(ctx context.Context, id int64) (*models.Semester, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Semester), args.Error(1)
}

func (m *MockSemesterRepository) Create(ctx context.Context, name string) (*models.Semester, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Semester), args.Error(1)
}

func (m *MockSemesterRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}

func (m *MockSemesterRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
