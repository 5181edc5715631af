package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kycapi/internal/kyc"
	"kycapi/internal/model"
)

// ProfileView is the owner-facing profile page.
type ProfileView struct {
	Profile         *model.Profile           `json:"profile"`
	EffectiveStatus model.ProfileStatus      `json:"effective_status"`
	Documents       []model.IdentityDocument `json:"documents"`
	Completion      model.DisplayCompletion  `json:"completion"`
}

// KYCExport is the full record of one owner, including soft-deleted documents.
type KYCExport struct {
	Profile            *model.Profile           `json:"profile"`
	EffectiveStatus    model.ProfileStatus      `json:"effective_status"`
	Documents          []model.IdentityDocument `json:"documents"`
	DanglingReferences []string                 `json:"dangling_references"`
	ExportedAt         time.Time                `json:"exported_at"`
}

// ProfileService serves profile reads and exports.
type ProfileService interface {
	// GetProfile lazily creates the profile on first read.
	GetProfile(ctx context.Context, ownerID string) (*ProfileView, error)
	ExportKYCData(ctx context.Context, ownerID string) (*KYCExport, error)
}

type profileService struct {
	*core
}

func NewProfileService(d Deps) ProfileService {
	return &profileService{core: newCore(d)}
}

func (s *profileService) GetProfile(ctx context.Context, ownerID string) (view *ProfileView, err error) {
	ctx, span := s.startSpan(ctx, "ProfileService.GetProfile")
	defer func() { endSpan(span, err) }()

	p, err := s.ensureProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &ProfileView{
		Profile:         p,
		EffectiveStatus: kyc.EffectiveStatus(p, s.clock()),
		Documents:       docs,
		Completion:      kyc.DisplayCompletion(docs),
	}, nil
}

func (s *profileService) ExportKYCData(ctx context.Context, ownerID string) (out *KYCExport, err error) {
	ctx, span := s.startSpan(ctx, "ProfileService.ExportKYCData")
	defer func() { endSpan(span, err) }()

	if ownerID == "" {
		return nil, validationErr("owner id is required")
	}
	p, err := s.profiles.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("profile")
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	docs, err := s.documents.ListByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	known := make(map[string]bool, len(docs))
	for _, d := range docs {
		known[d.ID] = true
	}
	dangling := kyc.DanglingReferences(p.RequiredDocuments, func(id string) bool { return known[id] })
	if dangling == nil {
		dangling = []string{}
	}

	now := s.clock()
	return &KYCExport{
		Profile:            p,
		EffectiveStatus:    kyc.EffectiveStatus(p, now),
		Documents:          docs,
		DanglingReferences: dangling,
		ExportedAt:         now,
	}, nil
}
