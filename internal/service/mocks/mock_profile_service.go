package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
	"kycapi/internal/service"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, ownerID string) (*service.ProfileView, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileView), args.Error(1)
}

func (m *MockProfileService) ExportKYCData(ctx context.Context, ownerID string) (*service.KYCExport, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.KYCExport), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Statistics(ctx context.Context) (*model.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Statistics), args.Error(1)
}

func (m *MockReportService) ExpiringProfiles(ctx context.Context, days int) ([]model.Profile, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}
