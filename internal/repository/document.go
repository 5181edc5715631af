package repository

import (
	"context"

	"kycapi/internal/model"
)

// DocumentFilter narrows the admin verification queue. Empty fields match everything.
type DocumentFilter struct {
	Status       model.DocumentStatus
	DocumentType model.DocumentType
}

// DocumentRepository defines data access for identity documents using SQL queries only.
// No business logic here; strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	Create(ctx context.Context, doc *model.IdentityDocument) (*model.IdentityDocument, error)

	// FindByID returns a document by its ID, active or not.
	FindByID(ctx context.Context, id string) (*model.IdentityDocument, error)

	// Update overwrites every mutable column of an existing document.
	Update(ctx context.Context, doc *model.IdentityDocument) error

	// Remove hard-deletes a record. Only used to undo a Create whose follow-up failed.
	Remove(ctx context.Context, id string) error

	// ListByOwner returns the owner's documents, newest first.
	ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]model.IdentityDocument, error)

	// ListActive returns a page of active documents matching f, newest first.
	ListActive(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.IdentityDocument], error)

	// AppendDraft appends one entry to the review draft history and returns the full history.
	AppendDraft(ctx context.Context, id string, e model.DraftEntry) ([]model.DraftEntry, error)

	// CountActiveByStatus and CountActiveByType aggregate active documents.
	CountActiveByStatus(ctx context.Context) (map[model.DocumentStatus]int, error)
	CountActiveByType(ctx context.Context) (map[model.DocumentType]int, error)
}
