package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
	"kycapi/internal/service"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) VerifyDocument(ctx context.Context, in service.VerifyInput) (*model.IdentityDocument, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockVerificationService) BulkVerify(ctx context.Context, in service.BulkVerifyInput) ([]service.BulkResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BulkResult), args.Error(1)
}

func (m *MockVerificationService) VerifyProfile(ctx context.Context, ownerID, verifiedBy, remarks string) (*model.Profile, error) {
	args := m.Called(ctx, ownerID, verifiedBy, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockVerificationService) RejectProfile(ctx context.Context, ownerID string, in service.RejectInput) (*model.Profile, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
