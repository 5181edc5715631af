package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
	"kycapi/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, in service.UploadInput) (*model.IdentityDocument, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, in service.UpdateInput) (*model.IdentityDocument, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, documentID, ownerID, deletedBy string) error {
	args := m.Called(ctx, documentID, ownerID, deletedBy)
	return args.Error(0)
}

func (m *MockDocumentService) Restore(ctx context.Context, documentID, actorID string) (*model.IdentityDocument, error) {
	args := m.Called(ctx, documentID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, documentID, ownerID string) (*model.IdentityDocument, error) {
	args := m.Called(ctx, documentID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentService) ListActiveByOwner(ctx context.Context, ownerID string) ([]model.IdentityDocument, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentService) ListForVerification(ctx context.Context, f service.ListFilter) (*service.DocumentListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) FileURL(ctx context.Context, documentID, ownerID string) (string, error) {
	args := m.Called(ctx, documentID, ownerID)
	return args.String(0), args.Error(1)
}
