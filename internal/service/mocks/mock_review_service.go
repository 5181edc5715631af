package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) AppendDraftComment(ctx context.Context, documentID, reviewerID, comment string) ([]model.DraftEntry, error) {
	args := m.Called(ctx, documentID, reviewerID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DraftEntry), args.Error(1)
}

func (m *MockReviewService) GetDraftHistory(ctx context.Context, documentID string) ([]model.DraftEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DraftEntry), args.Error(1)
}
