package repository

import (
	"context"
	"time"

	"kycapi/internal/model"
)

// ProfileRepository defines data access for KYC profiles.
type ProfileRepository interface {
	// FindByOwner returns the owner's profile.
	FindByOwner(ctx context.Context, ownerID string) (*model.Profile, error)

	// Create inserts a profile. ErrDuplicate when the owner already has one.
	Create(ctx context.Context, p *model.Profile) error

	// Update writes p if the stored version still equals p.Version, then bumps p.Version.
	// ErrVersionConflict otherwise.
	Update(ctx context.Context, p *model.Profile) error

	// ListExpiring returns verified profiles whose expiry falls within [from, to], soonest first.
	ListExpiring(ctx context.Context, from, to time.Time) ([]model.Profile, error)

	// CountByStatus aggregates active profiles by stored status.
	CountByStatus(ctx context.Context) (map[model.ProfileStatus]int, error)
}
