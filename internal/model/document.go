package model

import (
	"fmt"
	"strings"
	"time"
)

// MaxPreviousVersions bounds the file history kept on a document.
const MaxPreviousVersions = 5

// DocumentType identifies the kind of identity credential a document carries.
type DocumentType string

const (
	DocumentTypePAN            DocumentType = "pan_card"
	DocumentTypeAadhar         DocumentType = "aadhar_card"
	DocumentTypePassport       DocumentType = "passport"
	DocumentTypeDrivingLicense DocumentType = "driving_license"
	DocumentTypeVoterID        DocumentType = "voter_id"
	DocumentTypeOther          DocumentType = "other"
)

var documentTypes = []DocumentType{
	DocumentTypePAN,
	DocumentTypeAadhar,
	DocumentTypePassport,
	DocumentTypeDrivingLicense,
	DocumentTypeVoterID,
	DocumentTypeOther,
}

// DocumentTypes returns the fixed set of accepted document types.
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

// ParseDocumentType validates s against the fixed document type set.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.TrimSpace(s))
	for _, known := range documentTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// IsOther reports whether documents of this type fill an "other documents" slot.
func (t DocumentType) IsOther() bool {
	return t != DocumentTypePAN && t != DocumentTypeAadhar
}

// DocumentStatus is the review state of a single document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
	DocumentStatusExpired  DocumentStatus = "expired"
)

// ParseDocumentStatus validates s against the known document statuses.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch st := DocumentStatus(strings.TrimSpace(s)); st {
	case DocumentStatusPending, DocumentStatusVerified, DocumentStatusRejected, DocumentStatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown document status %q", s)
}

// IsDecision reports whether the status is a reviewer decision rather than the initial pending state.
func (s DocumentStatus) IsDecision() bool {
	return s == DocumentStatusVerified || s == DocumentStatusRejected || s == DocumentStatusExpired
}

// DraftEntry is one reviewer working note attached to a document.
type DraftEntry struct {
	Comment   string    `json:"comment"`
	Reviewer  string    `json:"reviewer"`
	CreatedAt time.Time `json:"created_at"`
}

// VersionEntry records a file that was replaced on a document.
type VersionEntry struct {
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	UpdatedAt time.Time `json:"updated_at"`
	Reason    string    `json:"reason"`
}

// IdentityDocument is one uploaded identity credential owned by an account.
// Documents are never hard-deleted; IsActive=false marks a soft delete.
type IdentityDocument struct {
	ID                  string         `json:"id"`
	OwnerID             string         `json:"owner_id"`
	DocumentType        DocumentType   `json:"document_type"`
	DocumentName        string         `json:"document_name"`
	DocumentNumber      string         `json:"document_number"`
	FileName            string         `json:"file_name"`
	OriginalFileName    string         `json:"original_file_name"`
	FilePath            string         `json:"file_path"`
	FileSize            int64          `json:"file_size"`
	MIMEType            string         `json:"mime_type"`
	Status              DocumentStatus `json:"status"`
	VerifiedBy          *string        `json:"verified_by,omitempty"`
	VerifiedAt          *time.Time     `json:"verified_at,omitempty"`
	VerificationRemarks string         `json:"verification_remarks,omitempty"`
	ReviewDraftHistory  []DraftEntry   `json:"review_draft_history"`
	ExpiryDate          *time.Time     `json:"expiry_date,omitempty"`
	IsActive            bool           `json:"is_active"`
	DeletedAt           *time.Time     `json:"deleted_at,omitempty"`
	DeletedBy           *string        `json:"deleted_by,omitempty"`
	Version             int            `json:"version"`
	PreviousVersions    []VersionEntry `json:"previous_versions"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NormalizeDocumentNumber trims and upper-cases a document number.
func NormalizeDocumentNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// Clone returns a deep copy so callers can mutate without aliasing stored slices.
func (d *IdentityDocument) Clone() *IdentityDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.VerifiedBy = cloneString(d.VerifiedBy)
	out.VerifiedAt = cloneTime(d.VerifiedAt)
	out.ExpiryDate = cloneTime(d.ExpiryDate)
	out.DeletedAt = cloneTime(d.DeletedAt)
	out.DeletedBy = cloneString(d.DeletedBy)
	out.ReviewDraftHistory = append([]DraftEntry(nil), d.ReviewDraftHistory...)
	out.PreviousVersions = append([]VersionEntry(nil), d.PreviousVersions...)
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
