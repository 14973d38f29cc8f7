package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studytracker/internal/models"
)

// MockGradeEntryRepository is a mock implementation of repository.GradeEntryRepository
type MockGradeEntryRepository struct {
	mock.Mock
}

func (m *MockGradeEntryRepository) List(ctx context.Context, subjectID int64) ([]models.GradeEntry, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GradeEntry), args.Error(1)
}

func (m *MockGradeEntryRepository) Get(ctx context.Context, id int64) (*models.GradeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GradeEntry), args.Error(1)
}

func (m *MockGradeEntryRepository) Insert(ctx context.Context, entry models.GradeEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGradeEntryRepository) Update(ctx context.Context, entry models.GradeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockGradeEntryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
