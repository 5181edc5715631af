package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
	"kycapi/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.IdentityDocument) (*model.IdentityDocument, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.IdentityDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *model.IdentityDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]model.IdentityDocument, error) {
	args := m.Called(ctx, ownerID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IdentityDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListActive(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.IdentityDocument], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.IdentityDocument]), args.Error(1)
}

func (m *MockDocumentRepository) AppendDraft(ctx context.Context, id string, e model.DraftEntry) ([]model.DraftEntry, error) {
	args := m.Called(ctx, id, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DraftEntry), args.Error(1)
}

func (m *MockDocumentRepository) CountActiveByStatus(ctx context.Context) (map[model.DocumentStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.DocumentStatus]int), args.Error(1)
}

func (m *MockDocumentRepository) CountActiveByType(ctx context.Context) (map[model.DocumentType]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.DocumentType]int), args.Error(1)
}
