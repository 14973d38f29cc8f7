package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studytracker/internal/models"
)

// MockAssessmentRepository is a mock implementation of repository.AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Get(ctx context.Context, id int64) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Insert(ctx context.Context, assessment models.Assessment) (int64, error) {
	args := m.Called(ctx, assessment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, assessment models.Assessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
