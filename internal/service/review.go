package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kycapi/internal/events"
	"kycapi/internal/lock"
	"kycapi/internal/model"
)

// ReviewService keeps reviewer working notes. Notes never influence a decision.
type ReviewService interface {
	// AppendDraftComment appends a note and returns the full history in insertion order.
	AppendDraftComment(ctx context.Context, documentID, reviewerID, comment string) ([]model.DraftEntry, error)
	GetDraftHistory(ctx context.Context, documentID string) ([]model.DraftEntry, error)
}

type reviewService struct {
	*core
}

func NewReviewService(d Deps) ReviewService {
	return &reviewService{core: newCore(d)}
}

func (s *reviewService) AppendDraftComment(ctx context.Context, documentID, reviewerID, comment string) (history []model.DraftEntry, err error) {
	ctx, span := s.startSpan(ctx, "ReviewService.AppendDraftComment")
	defer func() { endSpan(span, err) }()

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, validationErr("comment is required")
	}
	if strings.TrimSpace(reviewerID) == "" {
		return nil, validationErr("reviewer id is required")
	}
	if documentID == "" {
		return nil, validationErr("document id is required")
	}
	unlock, err := s.lock(ctx, lock.DocumentKey(documentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := s.loadDocument(ctx, documentID, "", false)
	if err != nil {
		return nil, err
	}

	history, err = s.documents.AppendDraft(ctx, doc.ID, model.DraftEntry{
		Comment:   comment,
		Reviewer:  reviewerID,
		CreatedAt: s.clock(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("document")
		}
		return nil, fmt.Errorf("append draft: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.DocumentDraftComment,
		OwnerID:    doc.OwnerID,
		DocumentID: doc.ID,
		ActorID:    reviewerID,
	})
	return history, nil
}

func (s *reviewService) GetDraftHistory(ctx context.Context, documentID string) ([]model.DraftEntry, error) {
	doc, err := s.loadDocument(ctx, documentID, "", false)
	if err != nil {
		return nil, err
	}
	if doc.ReviewDraftHistory == nil {
		return []model.DraftEntry{}, nil
	}
	return doc.ReviewDraftHistory, nil
}
