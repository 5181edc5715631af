package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"kycapi/internal/events"
	"kycapi/internal/kyc"
	"kycapi/internal/lock"
	"kycapi/internal/model"
)

const autoVerifiedRemarks = "all required documents verified"

// VerifyInput is a single reviewer decision.
type VerifyInput struct {
	DocumentID string
	VerifiedBy string
	Decision   string
	Remarks    string
	// Override allows replacing an existing verified/rejected/expired decision.
	Override bool
}

// BulkVerifyInput applies one decision to many documents.
type BulkVerifyInput struct {
	DocumentIDs []string
	VerifiedBy  string
	Decision    string
	Remarks     string
	Override    bool
}

// BulkResult is the outcome for one document of a bulk call.
type BulkResult struct {
	DocumentID string `json:"document_id"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	ErrorKind  Kind   `json:"error_kind,omitempty"`
}

// RejectInput is an explicit profile rejection.
type RejectInput struct {
	RejectedBy string
	Reason     string
	Details    []model.RejectionDetail
}

// VerificationService coordinates admin decisions on documents and profiles.
type VerificationService interface {
	// VerifyDocument records a decision, updates the profile slot and auto-promotes the
	// profile once every required document is verified.
	VerifyDocument(ctx context.Context, in VerifyInput) (*model.IdentityDocument, error)

	// BulkVerify runs VerifyDocument per id; per-item failures are reported in the results, in input order.
	BulkVerify(ctx context.Context, in BulkVerifyInput) ([]BulkResult, error)

	VerifyProfile(ctx context.Context, ownerID, verifiedBy, remarks string) (*model.Profile, error)
	RejectProfile(ctx context.Context, ownerID string, in RejectInput) (*model.Profile, error)
}

type verificationService struct {
	*core
}

func NewVerificationService(d Deps) VerificationService {
	return &verificationService{core: newCore(d)}
}

func parseDecision(s string) (model.DocumentStatus, error) {
	st, err := model.ParseDocumentStatus(s)
	if err != nil || !st.IsDecision() {
		return "", validationErr("decision must be one of verified, rejected, expired")
	}
	return st, nil
}

func (s *verificationService) VerifyDocument(ctx context.Context, in VerifyInput) (doc *model.IdentityDocument, err error) {
	ctx, span := s.startSpan(ctx, "VerificationService.VerifyDocument")
	defer func() { endSpan(span, err) }()

	decision, err := parseDecision(in.Decision)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.VerifiedBy) == "" {
		return nil, validationErr("verifier id is required")
	}
	return s.verifyOne(ctx, in, decision)
}

func (s *verificationService) verifyOne(ctx context.Context, in VerifyInput, decision model.DocumentStatus) (*model.IdentityDocument, error) {
	if in.DocumentID == "" {
		return nil, validationErr("document id is required")
	}
	unlock, err := s.lock(ctx, lock.DocumentKey(in.DocumentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := s.loadDocument(ctx, in.DocumentID, "", true)
	if err != nil {
		return nil, err
	}

	previous := doc.Status
	if previous.IsDecision() {
		if !in.Override {
			return nil, conflictErr("document already %s; set override to replace the decision", previous)
		}
		s.log.WarnContext(ctx, "document_decision_override",
			"document_id", doc.ID,
			"owner_id", doc.OwnerID,
			"verified_by", in.VerifiedBy,
			"previous_status", string(previous),
			"decision", string(decision),
		)
	}

	now := s.clock()
	by := in.VerifiedBy
	doc.Status = decision
	doc.VerifiedBy = &by
	doc.VerifiedAt = &now
	doc.VerificationRemarks = strings.TrimSpace(in.Remarks)
	doc.UpdatedAt = now
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("db update failed: %w", err)
	}

	promoted := false
	if _, err := s.mutateProfile(ctx, doc.OwnerID, in.VerifiedBy, false, func(p *model.Profile) error {
		kyc.SetSlotVerified(&p.RequiredDocuments, doc.ID, decision == model.DocumentStatusVerified)
		kyc.Recalculate(p)
		if p.Status == model.ProfileStatusPendingVerification && kyc.AllRequiredVerified(p.RequiredDocuments) {
			kyc.MarkAsVerified(p, in.VerifiedBy, autoVerifiedRemarks, now, s.validity)
			promoted = true
		}
		return nil
	}); err != nil {
		return nil, err
	}

	overridden := in.Override && previous.IsDecision()
	s.metrics.Decision(decision, overridden)
	s.publish(ctx, events.Event{
		Type:       events.DocumentDecision,
		OwnerID:    doc.OwnerID,
		DocumentID: doc.ID,
		ActorID:    in.VerifiedBy,
		Attributes: map[events.AttrKey]string{
			events.AttrDocumentType: string(doc.DocumentType),
			events.AttrDecision:     string(decision),
			events.AttrFromStatus:   string(previous),
			events.AttrOverride:     strconv.FormatBool(overridden),
		},
	})
	if promoted {
		s.publish(ctx, events.Event{
			Type:    events.ProfileVerified,
			OwnerID: doc.OwnerID,
			ActorID: in.VerifiedBy,
			Attributes: map[events.AttrKey]string{
				events.AttrReason: autoVerifiedRemarks,
			},
		})
	}
	return doc, nil
}

func (s *verificationService) BulkVerify(ctx context.Context, in BulkVerifyInput) (results []BulkResult, err error) {
	ctx, span := s.startSpan(ctx, "VerificationService.BulkVerify")
	defer func() { endSpan(span, err) }()

	if len(in.DocumentIDs) == 0 {
		return nil, validationErr("at least one document id is required")
	}
	if len(in.DocumentIDs) > s.bulkMaxItems {
		return nil, validationErr("at most %d documents per request", s.bulkMaxItems)
	}
	decision, err := parseDecision(in.Decision)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.VerifiedBy) == "" {
		return nil, validationErr("verifier id is required")
	}

	results = make([]BulkResult, len(in.DocumentIDs))
	seen := make(map[string]bool, len(in.DocumentIDs))

	var g errgroup.Group
	g.SetLimit(s.bulkConcurrency)
	for i, id := range in.DocumentIDs {
		results[i].DocumentID = id
		if seen[id] {
			s.recordBulk(&results[i], validationErr("duplicate document id in request"))
			continue
		}
		seen[id] = true

		g.Go(func() error {
			_, err := s.verifyOne(ctx, VerifyInput{
				DocumentID: id,
				VerifiedBy: in.VerifiedBy,
				Decision:   in.Decision,
				Remarks:    in.Remarks,
				Override:   in.Override,
			}, decision)
			s.recordBulk(&results[i], err)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *verificationService) recordBulk(r *BulkResult, err error) {
	r.Success = err == nil
	if err != nil {
		r.Error = PublicMessage(err)
		r.ErrorKind = KindOf(err)
	}
	s.metrics.BulkItem(r.Success)
}

func (s *verificationService) VerifyProfile(ctx context.Context, ownerID, verifiedBy, remarks string) (p *model.Profile, err error) {
	ctx, span := s.startSpan(ctx, "VerificationService.VerifyProfile")
	defer func() { endSpan(span, err) }()

	if ownerID == "" {
		return nil, validationErr("owner id is required")
	}
	if strings.TrimSpace(verifiedBy) == "" {
		return nil, validationErr("verifier id is required")
	}
	p, err = s.mutateProfile(ctx, ownerID, verifiedBy, true, func(p *model.Profile) error {
		if !kyc.AllRequiredVerified(p.RequiredDocuments) {
			return validationErr("all required documents must be verified first")
		}
		kyc.MarkAsVerified(p, verifiedBy, strings.TrimSpace(remarks), s.clock(), s.validity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{Type: events.ProfileVerified, OwnerID: ownerID, ActorID: verifiedBy})
	return p, nil
}

func (s *verificationService) RejectProfile(ctx context.Context, ownerID string, in RejectInput) (p *model.Profile, err error) {
	ctx, span := s.startSpan(ctx, "VerificationService.RejectProfile")
	defer func() { endSpan(span, err) }()

	if ownerID == "" {
		return nil, validationErr("owner id is required")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, validationErr("rejection reason is required")
	}
	details := make([]model.RejectionDetail, 0, len(in.Details))
	for _, d := range in.Details {
		t, err := model.ParseDocumentType(string(d.DocumentType))
		if err != nil {
			return nil, validationErr("invalid document type %q in rejection details", d.DocumentType)
		}
		details = append(details, model.RejectionDetail{DocumentType: t, Reason: strings.TrimSpace(d.Reason), Field: d.Field})
	}

	p, err = s.mutateProfile(ctx, ownerID, in.RejectedBy, true, func(p *model.Profile) error {
		kyc.MarkAsRejected(p, reason, details)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.ProfileRejected,
		OwnerID:    ownerID,
		ActorID:    in.RejectedBy,
		Attributes: map[events.AttrKey]string{events.AttrReason: reason},
	})
	return p, nil
}
