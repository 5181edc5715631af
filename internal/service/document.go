package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"kycapi/internal/events"
	"kycapi/internal/kyc"
	"kycapi/internal/lock"
	"kycapi/internal/model"
	"kycapi/internal/repository"
	"kycapi/internal/storage"
)

const (
	archiveReasonReplaced = "replaced"
	archiveReasonDeleted  = "deleted"

	defaultListLimit = 20
	maxListLimit     = 100
)

// UploadInput is a new document submission. DocumentType is validated by the service.
type UploadInput struct {
	OwnerID        string
	DocumentType   string
	DocumentName   string
	DocumentNumber string
	ExpiryDate     *time.Time
	File           storage.FileUpload
}

// DocumentPatch holds the metadata fields an update may change. Nil fields are left alone.
type DocumentPatch struct {
	DocumentName   *string
	DocumentNumber *string
	ExpiryDate     *time.Time
}

// UpdateInput changes metadata and optionally replaces the file.
type UpdateInput struct {
	DocumentID string
	OwnerID    string
	Patch      DocumentPatch
	File       *storage.FileUpload
}

// ListFilter selects the admin verification queue.
type ListFilter struct {
	Status       string
	DocumentType string
	Limit        int
	Offset       int
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.IdentityDocument `json:"data"`
	Total int                      `json:"total"`
}

// DocumentService defines the document record use cases.
type DocumentService interface {
	// Upload validates and stores the file, saves the record, and rolls back the blob if the save fails.
	// The owner's profile slot is then marked submitted and the profile recalculated.
	Upload(ctx context.Context, in UploadInput) (*model.IdentityDocument, error)

	// Update applies metadata changes; with a file it archives the previous one and resets the review.
	Update(ctx context.Context, in UpdateInput) (*model.IdentityDocument, error)

	// Delete archives the blob, soft-deletes the record and clears its profile slot.
	Delete(ctx context.Context, documentID, ownerID, deletedBy string) error

	// Restore reactivates a soft-deleted document without re-filling the profile slot.
	Restore(ctx context.Context, documentID, actorID string) (*model.IdentityDocument, error)

	// Get returns an active document owned by ownerID.
	Get(ctx context.Context, documentID, ownerID string) (*model.IdentityDocument, error)

	ListActiveByOwner(ctx context.Context, ownerID string) ([]model.IdentityDocument, error)
	ListForVerification(ctx context.Context, f ListFilter) (*DocumentListResult, error)

	// FileURL returns a time-limited download URL for the document file.
	FileURL(ctx context.Context, documentID, ownerID string) (string, error)
}

type documentService struct {
	*core
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(d Deps) DocumentService {
	return &documentService{core: newCore(d)}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (doc *model.IdentityDocument, err error) {
	ctx, span := s.startSpan(ctx, "DocumentService.Upload")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, validationErr("owner id is required")
	}
	docType, err := model.ParseDocumentType(in.DocumentType)
	if err != nil {
		return nil, validationErr("invalid document type %q", in.DocumentType)
	}
	if err := s.validateFile(&in.File); err != nil {
		return nil, err
	}

	info, err := s.blobs.Save(ctx, in.File, in.OwnerID, docType)
	if err != nil {
		return nil, storageErr("upload to storage", err)
	}

	now := s.clock()
	doc = &model.IdentityDocument{
		ID:                 uuid.NewString(),
		OwnerID:            in.OwnerID,
		DocumentType:       docType,
		DocumentName:       strings.TrimSpace(in.DocumentName),
		DocumentNumber:     model.NormalizeDocumentNumber(in.DocumentNumber),
		FileName:           info.FileName,
		OriginalFileName:   in.File.OriginalName,
		FilePath:           info.FilePath,
		FileSize:           info.FileSize,
		MIMEType:           info.MIMEType,
		Status:             model.DocumentStatusPending,
		ReviewDraftHistory: []model.DraftEntry{},
		ExpiryDate:         in.ExpiryDate,
		IsActive:           true,
		Version:            1,
		PreviousVersions:   []model.VersionEntry{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	stored, err := s.documents.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if _, delErr := s.blobs.Delete(ctx, info.FilePath); delErr != nil {
			s.log.ErrorContext(ctx, "blob_rollback_failed",
				"file_path", info.FilePath,
				"error_message", delErr.Error(),
			)
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if _, err := s.mutateProfile(ctx, in.OwnerID, in.OwnerID, false, func(p *model.Profile) error {
		kyc.SubmitSlot(&p.RequiredDocuments, docType, stored.ID)
		p.LastSubmittedAt = &now
		kyc.Recalculate(p)
		return nil
	}); err != nil {
		// Rollback: a record no profile slot points at must not survive.
		if rmErr := s.documents.Remove(ctx, stored.ID); rmErr != nil {
			s.log.ErrorContext(ctx, "document_rollback_failed",
				"document_id", stored.ID,
				"error_message", rmErr.Error(),
			)
		}
		s.discardBlob(ctx, info.FilePath)
		return nil, err
	}

	s.metrics.DocumentUploaded(docType)
	s.publish(ctx, events.Event{
		Type:       events.DocumentUploaded,
		OwnerID:    in.OwnerID,
		DocumentID: stored.ID,
		ActorID:    in.OwnerID,
		Attributes: map[events.AttrKey]string{events.AttrDocumentType: string(docType)},
	})
	return stored, nil
}

func (s *documentService) Update(ctx context.Context, in UpdateInput) (doc *model.IdentityDocument, err error) {
	ctx, span := s.startSpan(ctx, "DocumentService.Update")
	defer func() { endSpan(span, err) }()

	if in.File != nil {
		if err := s.validateFile(in.File); err != nil {
			return nil, err
		}
	}
	if in.DocumentID == "" {
		return nil, validationErr("document id is required")
	}

	unlock, err := s.lock(ctx, lock.DocumentKey(in.DocumentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err = s.loadDocument(ctx, in.DocumentID, in.OwnerID, true)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if in.Patch.DocumentName != nil {
		doc.DocumentName = strings.TrimSpace(*in.Patch.DocumentName)
	}
	if in.Patch.DocumentNumber != nil {
		doc.DocumentNumber = model.NormalizeDocumentNumber(*in.Patch.DocumentNumber)
	}
	if in.Patch.ExpiryDate != nil {
		exp := *in.Patch.ExpiryDate
		doc.ExpiryDate = &exp
	}

	var newPath, oldPath, archived string
	if in.File != nil {
		info, err := s.blobs.Save(ctx, *in.File, doc.OwnerID, doc.DocumentType)
		if err != nil {
			return nil, storageErr("upload to storage", err)
		}
		newPath = info.FilePath
		oldPath = doc.FilePath

		archived, err = s.blobs.Archive(ctx, oldPath, archiveReasonReplaced)
		if err != nil {
			s.discardBlob(ctx, newPath)
			return nil, storageErr("archive previous file", err)
		}

		doc.PreviousVersions = kyc.PushVersion(doc.PreviousVersions, model.VersionEntry{
			FilePath:  archived,
			FileName:  doc.FileName,
			UpdatedAt: now,
			Reason:    archiveReasonReplaced,
		}, model.MaxPreviousVersions)
		doc.FileName = info.FileName
		doc.OriginalFileName = in.File.OriginalName
		doc.FilePath = info.FilePath
		doc.FileSize = info.FileSize
		doc.MIMEType = info.MIMEType
		doc.Version++
		doc.Status = model.DocumentStatusPending
		doc.VerifiedBy = nil
		doc.VerifiedAt = nil
		doc.VerificationRemarks = ""
	}
	doc.UpdatedAt = now

	if err := s.documents.Update(ctx, doc); err != nil {
		if newPath != "" {
			s.discardBlob(ctx, newPath)
			s.unarchiveBlob(ctx, archived, oldPath)
		}
		return nil, fmt.Errorf("db update failed: %w", err)
	}

	if in.File != nil {
		if _, err := s.mutateProfile(ctx, doc.OwnerID, in.OwnerID, false, func(p *model.Profile) error {
			// A restored document lost its slot on delete; a new file submits it again.
			if !kyc.SetSlotVerified(&p.RequiredDocuments, doc.ID, false) {
				kyc.SubmitSlot(&p.RequiredDocuments, doc.DocumentType, doc.ID)
			}
			p.LastSubmittedAt = &now
			kyc.Recalculate(p)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:       events.DocumentUpdated,
		OwnerID:    doc.OwnerID,
		DocumentID: doc.ID,
		ActorID:    in.OwnerID,
		Attributes: map[events.AttrKey]string{
			events.AttrDocumentType: string(doc.DocumentType),
			events.AttrVersion:      strconv.Itoa(doc.Version),
		},
	})
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, documentID, ownerID, deletedBy string) (err error) {
	ctx, span := s.startSpan(ctx, "DocumentService.Delete")
	defer func() { endSpan(span, err) }()

	if documentID == "" {
		return validationErr("document id is required")
	}
	unlock, err := s.lock(ctx, lock.DocumentKey(documentID))
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.loadDocument(ctx, documentID, ownerID, true)
	if err != nil {
		return err
	}

	oldPath := doc.FilePath
	archived, err := s.blobs.Archive(ctx, oldPath, archiveReasonDeleted)
	switch {
	case err == nil:
		doc.FilePath = archived
	case errors.Is(err, storage.ErrObjectNotFound):
		s.log.WarnContext(ctx, "blob_missing_on_delete", "document_id", doc.ID, "file_path", doc.FilePath)
	default:
		return storageErr("archive file", err)
	}

	now := s.clock()
	if deletedBy == "" {
		deletedBy = ownerID
	}
	doc.IsActive = false
	doc.DeletedAt = &now
	doc.DeletedBy = &deletedBy
	doc.UpdatedAt = now
	if err := s.documents.Update(ctx, doc); err != nil {
		if doc.FilePath != oldPath {
			s.unarchiveBlob(ctx, doc.FilePath, oldPath)
		}
		return fmt.Errorf("db update failed: %w", err)
	}

	if _, err := s.mutateProfile(ctx, doc.OwnerID, deletedBy, false, func(p *model.Profile) error {
		kyc.ClearSlot(&p.RequiredDocuments, doc.ID)
		kyc.Recalculate(p)
		return nil
	}); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:       events.DocumentDeleted,
		OwnerID:    doc.OwnerID,
		DocumentID: doc.ID,
		ActorID:    deletedBy,
		Attributes: map[events.AttrKey]string{events.AttrDocumentType: string(doc.DocumentType)},
	})
	return nil
}

func (s *documentService) Restore(ctx context.Context, documentID, actorID string) (doc *model.IdentityDocument, err error) {
	ctx, span := s.startSpan(ctx, "DocumentService.Restore")
	defer func() { endSpan(span, err) }()

	if documentID == "" {
		return nil, validationErr("document id is required")
	}
	unlock, err := s.lock(ctx, lock.DocumentKey(documentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err = s.loadDocument(ctx, documentID, "", false)
	if err != nil {
		return nil, err
	}
	if doc.IsActive {
		return nil, conflictErr("document is not deleted")
	}

	doc.IsActive = true
	doc.DeletedAt = nil
	doc.DeletedBy = nil
	doc.UpdatedAt = s.clock()
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("db update failed: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:       events.DocumentRestored,
		OwnerID:    doc.OwnerID,
		DocumentID: doc.ID,
		ActorID:    actorID,
		Attributes: map[events.AttrKey]string{events.AttrDocumentType: string(doc.DocumentType)},
	})
	return doc, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, documentID, ownerID string) (*model.IdentityDocument, error) {
	if ownerID == "" {
		return nil, validationErr("owner id is required")
	}
	return s.loadDocument(ctx, documentID, ownerID, true)
}

func (s *documentService) ListActiveByOwner(ctx context.Context, ownerID string) ([]model.IdentityDocument, error) {
	if ownerID == "" {
		return nil, validationErr("owner id is required")
	}
	docs, err := s.documents.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// ListForVerification returns paginated active documents without exposing repository types.
func (s *documentService) ListForVerification(ctx context.Context, f ListFilter) (*DocumentListResult, error) {
	var filter repository.DocumentFilter
	if f.Status != "" {
		st, err := model.ParseDocumentStatus(f.Status)
		if err != nil {
			return nil, validationErr("invalid status %q", f.Status)
		}
		filter.Status = st
	}
	if f.DocumentType != "" {
		t, err := model.ParseDocumentType(f.DocumentType)
		if err != nil {
			return nil, validationErr("invalid document type %q", f.DocumentType)
		}
		filter.DocumentType = t
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset := max(f.Offset, 0)

	res, err := s.documents.ListActive(ctx, filter, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) FileURL(ctx context.Context, documentID, ownerID string) (string, error) {
	doc, err := s.Get(ctx, documentID, ownerID)
	if err != nil {
		return "", err
	}
	u, err := s.blobs.PresignURL(ctx, doc.FilePath, s.presignExpiry)
	if err != nil {
		return "", storageErr("create download url", err)
	}
	return u, nil
}

func (s *documentService) discardBlob(ctx context.Context, path string) {
	if _, err := s.blobs.Delete(ctx, path); err != nil {
		s.log.ErrorContext(ctx, "blob_rollback_failed", "file_path", path, "error_message", err.Error())
	}
}

// unarchiveBlob puts an archived file back where the unchanged record still points.
func (s *documentService) unarchiveBlob(ctx context.Context, archived, path string) {
	if err := s.blobs.Unarchive(ctx, archived, path); err != nil {
		s.log.ErrorContext(ctx, "blob_unarchive_failed",
			"archived_path", archived,
			"file_path", path,
			"error_message", err.Error(),
		)
	}
}
