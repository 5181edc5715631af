package model

import "time"

// ProfileStatus is the aggregate KYC state of an account.
type ProfileStatus string

const (
	ProfileStatusNotStarted          ProfileStatus = "not_started"
	ProfileStatusInProgress          ProfileStatus = "in_progress"
	ProfileStatusPendingVerification ProfileStatus = "pending_verification"
	ProfileStatusVerified            ProfileStatus = "verified"
	ProfileStatusRejected            ProfileStatus = "rejected"
	ProfileStatusExpired             ProfileStatus = "expired"
)

// Slot tracks one required (or optional) document position inside a profile.
// DocumentID is a weak reference: it may point at a document that no longer resolves.
type Slot struct {
	IsRequired  bool    `json:"is_required"`
	IsSubmitted bool    `json:"is_submitted"`
	IsVerified  bool    `json:"is_verified"`
	DocumentID  *string `json:"document_id,omitempty"`
}

// Clear drops the document reference and its submitted/verified flags.
func (s *Slot) Clear() {
	s.IsSubmitted = false
	s.IsVerified = false
	s.DocumentID = nil
}

// Holds reports whether the slot references documentID.
func (s Slot) Holds(documentID string) bool {
	return s.DocumentID != nil && *s.DocumentID == documentID
}

// RequiredDocuments is the slot layout of a profile.
type RequiredDocuments struct {
	PanCard        Slot   `json:"pan_card"`
	AadharCard     Slot   `json:"aadhar_card"`
	OtherDocuments []Slot `json:"other_documents"`
}

// Slots returns pointers to every slot, PAN and Aadhar first.
func (r *RequiredDocuments) Slots() []*Slot {
	out := []*Slot{&r.PanCard, &r.AadharCard}
	for i := range r.OtherDocuments {
		out = append(out, &r.OtherDocuments[i])
	}
	return out
}

// SlotFor returns the slot currently referencing documentID, or nil.
func (r *RequiredDocuments) SlotFor(documentID string) *Slot {
	for _, s := range r.Slots() {
		if s.Holds(documentID) {
			return s
		}
	}
	return nil
}

// DefaultRequiredDocuments is the layout of a fresh profile: PAN, Aadhar and one other document.
func DefaultRequiredDocuments() RequiredDocuments {
	return RequiredDocuments{
		PanCard:        Slot{IsRequired: true},
		AadharCard:     Slot{IsRequired: true},
		OtherDocuments: []Slot{{IsRequired: true}},
	}
}

// RejectionDetail pinpoints why a profile was rejected.
type RejectionDetail struct {
	DocumentType DocumentType `json:"document_type"`
	Reason       string       `json:"reason"`
	Field        string       `json:"field,omitempty"`
}

// Profile is the per-account KYC aggregate. Exactly one exists per owner.
type Profile struct {
	ID                   string            `json:"id"`
	OwnerID              string            `json:"owner_id"`
	Status               ProfileStatus     `json:"status"`
	CompletionPercentage int               `json:"completion_percentage"`
	RequiredDocuments    RequiredDocuments `json:"required_documents"`
	VerifiedBy           *string           `json:"verified_by,omitempty"`
	VerifiedAt           *time.Time        `json:"verified_at,omitempty"`
	VerificationRemarks  string            `json:"verification_remarks,omitempty"`
	KYCExpiryDate        *time.Time        `json:"kyc_expiry_date,omitempty"`
	LastSubmittedAt      *time.Time        `json:"last_submitted_at,omitempty"`
	RejectionReason      string            `json:"rejection_reason,omitempty"`
	RejectionDetails     []RejectionDetail `json:"rejection_details"`
	IsActive             bool              `json:"is_active"`
	Version              int               `json:"version"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// NewProfile builds an empty, active profile for ownerID.
func NewProfile(id, ownerID string, now time.Time) *Profile {
	return &Profile{
		ID:                id,
		OwnerID:           ownerID,
		Status:            ProfileStatusNotStarted,
		RequiredDocuments: DefaultRequiredDocuments(),
		RejectionDetails:  []RejectionDetail{},
		IsActive:          true,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.RequiredDocuments = p.RequiredDocuments.clone()
	out.VerifiedBy = cloneString(p.VerifiedBy)
	out.VerifiedAt = cloneTime(p.VerifiedAt)
	out.KYCExpiryDate = cloneTime(p.KYCExpiryDate)
	out.LastSubmittedAt = cloneTime(p.LastSubmittedAt)
	out.RejectionDetails = append([]RejectionDetail(nil), p.RejectionDetails...)
	return &out
}

func (r RequiredDocuments) clone() RequiredDocuments {
	out := RequiredDocuments{
		PanCard:    r.PanCard.clone(),
		AadharCard: r.AadharCard.clone(),
	}
	if r.OtherDocuments != nil {
		out.OtherDocuments = make([]Slot, len(r.OtherDocuments))
		for i, s := range r.OtherDocuments {
			out.OtherDocuments[i] = s.clone()
		}
	}
	return out
}

func (s Slot) clone() Slot {
	s.DocumentID = cloneString(s.DocumentID)
	return s
}
