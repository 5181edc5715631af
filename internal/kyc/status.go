package kyc

import (
	"time"

	"kycapi/internal/model"
)

// DefaultVerificationValidity is how long a verified profile stays valid.
const DefaultVerificationValidity = 365 * 24 * time.Hour

// NextStatus applies the recalculation rule. A complete profile that already
// awaits or carries a decision keeps its status; only explicit verify/reject
// calls move it from there.
func NextStatus(current model.ProfileStatus, completion int) model.ProfileStatus {
	switch {
	case completion <= 0:
		return model.ProfileStatusNotStarted
	case completion < 100:
		return model.ProfileStatusInProgress
	}
	switch current {
	case model.ProfileStatusNotStarted, model.ProfileStatusInProgress, "":
		return model.ProfileStatusPendingVerification
	default:
		return current
	}
}

// Transition describes a status change produced by Recalculate.
type Transition struct {
	From model.ProfileStatus
	To   model.ProfileStatus
}

// Changed reports whether the status moved.
func (t Transition) Changed() bool { return t.From != t.To }

// Recalculate refreshes CompletionPercentage and Status from the slots.
func Recalculate(p *model.Profile) Transition {
	from := p.Status
	p.CompletionPercentage = ComputeCompletion(p.RequiredDocuments)
	p.Status = NextStatus(p.Status, p.CompletionPercentage)
	return Transition{From: from, To: p.Status}
}

// AllRequiredVerified reports whether every required slot is both submitted and verified.
func AllRequiredVerified(r model.RequiredDocuments) bool {
	for _, s := range r.Slots() {
		if s.IsRequired && (!s.IsSubmitted || !s.IsVerified) {
			return false
		}
	}
	return true
}

// MarkAsVerified moves the profile to verified and starts its validity window.
func MarkAsVerified(p *model.Profile, verifiedBy, remarks string, now time.Time, validity time.Duration) Transition {
	if validity <= 0 {
		validity = DefaultVerificationValidity
	}
	from := p.Status
	by := verifiedBy
	at := now
	expiry := now.Add(validity)
	p.Status = model.ProfileStatusVerified
	p.VerifiedBy = &by
	p.VerifiedAt = &at
	p.VerificationRemarks = remarks
	p.KYCExpiryDate = &expiry
	p.RejectionReason = ""
	p.RejectionDetails = []model.RejectionDetail{}
	return Transition{From: from, To: p.Status}
}

// MarkAsRejected moves the profile to rejected and records why.
func MarkAsRejected(p *model.Profile, reason string, details []model.RejectionDetail) Transition {
	from := p.Status
	p.Status = model.ProfileStatusRejected
	p.RejectionReason = reason
	p.RejectionDetails = append([]model.RejectionDetail{}, details...)
	return Transition{From: from, To: p.Status}
}

// IsExpired is a read-time check; expiry is never written back as a transition.
func IsExpired(p *model.Profile, now time.Time) bool {
	return p.Status == model.ProfileStatusVerified &&
		p.KYCExpiryDate != nil &&
		now.After(*p.KYCExpiryDate)
}

// EffectiveStatus is the status callers should display at time now.
func EffectiveStatus(p *model.Profile, now time.Time) model.ProfileStatus {
	if IsExpired(p, now) {
		return model.ProfileStatusExpired
	}
	return p.Status
}
