package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByOwner(ctx context.Context, ownerID string) (*model.Profile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Profile, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileRepository) CountByStatus(ctx context.Context) (map[model.ProfileStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.ProfileStatus]int), args.Error(1)
}
