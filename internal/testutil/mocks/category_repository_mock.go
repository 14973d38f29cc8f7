package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studytracker/internal/models"
)

// MockCategoryRepository is a mock implementation of repository.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, subjectID int64) ([]models.Category, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Get(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category models.Category) (*models.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Rename(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockCategoryRepository) SetWeight(ctx context.Context, id int64, weight float64) error {
	args := m.Called(ctx, id, weight)
	return args.Error(0)
}

func (m *MockCategoryRepository) SetWeights(ctx context.Context, subjectID int64, weights models.Weights) error {
	args := m.Called(ctx, subjectID, weights)
	return args.Error(0)
}

func (m *MockCategoryRepository) Weights(ctx context.Context, subjectID int64) (models.Weights, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Weights), args.Error(1)
}

func (m *MockCategoryRepository) CountUsage(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
