package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kycapi/internal/model"
	"kycapi/internal/repository"
)

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

const profileColumns = `id, owner_id, status, completion_percentage, required_documents, verified_by,
	verified_at, verification_remarks, kyc_expiry_date, last_submitted_at, rejection_reason,
	rejection_details, is_active, version, created_at, updated_at`

func scanProfile(s rowScanner) (*model.Profile, error) {
	var (
		p          model.Profile
		required   []byte
		verifiedBy sql.NullString
		verifiedAt sql.NullTime
		expiry     sql.NullTime
		submitted  sql.NullTime
		rejections []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Status,
		&p.CompletionPercentage,
		&required,
		&verifiedBy,
		&verifiedAt,
		&p.VerificationRemarks,
		&expiry,
		&submitted,
		&p.RejectionReason,
		&rejections,
		&p.IsActive,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.VerifiedBy = fromNullString(verifiedBy)
	p.VerifiedAt = fromNullTime(verifiedAt)
	p.KYCExpiryDate = fromNullTime(expiry)
	p.LastSubmittedAt = fromNullTime(submitted)
	if err := unmarshalJSON(required, &p.RequiredDocuments); err != nil {
		return nil, fmt.Errorf("decode required_documents: %w", err)
	}
	if err := unmarshalJSON(rejections, &p.RejectionDetails); err != nil {
		return nil, fmt.Errorf("decode rejection_details: %w", err)
	}
	if p.RejectionDetails == nil {
		p.RejectionDetails = []model.RejectionDetail{}
	}
	return &p, nil
}

// FindByOwner fetches the owner's profile. Returns sql.ErrNoRows when none exists.
func (r *ProfilePostgres) FindByOwner(ctx context.Context, ownerID string) (*model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM kyc_profiles WHERE owner_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, ownerID))
}

// Create inserts p. A second profile for the same owner yields repository.ErrDuplicate.
func (r *ProfilePostgres) Create(ctx context.Context, p *model.Profile) error {
	required, err := marshalJSON(p.RequiredDocuments, "{}")
	if err != nil {
		return err
	}
	rejections, err := marshalJSON(p.RejectionDetails, "[]")
	if err != nil {
		return err
	}
	q := `
		INSERT INTO kyc_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, $14, $15, $16)
		ON CONFLICT (owner_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.OwnerID,
		p.Status,
		p.CompletionPercentage,
		required,
		p.VerifiedBy,
		p.VerifiedAt,
		p.VerificationRemarks,
		p.KYCExpiryDate,
		p.LastSubmittedAt,
		p.RejectionReason,
		rejections,
		p.IsActive,
		p.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrDuplicate
	}
	return nil
}

// Update performs a compare-and-swap on version.
func (r *ProfilePostgres) Update(ctx context.Context, p *model.Profile) error {
	required, err := marshalJSON(p.RequiredDocuments, "{}")
	if err != nil {
		return err
	}
	rejections, err := marshalJSON(p.RejectionDetails, "[]")
	if err != nil {
		return err
	}
	const q = `
		UPDATE kyc_profiles SET
			status = $3,
			completion_percentage = $4,
			required_documents = $5::jsonb,
			verified_by = $6,
			verified_at = $7,
			verification_remarks = $8,
			kyc_expiry_date = $9,
			last_submitted_at = $10,
			rejection_reason = $11,
			rejection_details = $12::jsonb,
			is_active = $13,
			updated_at = $14,
			version = version + 1
		WHERE id = $1 AND version = $2
	`
	res, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.Version,
		p.Status,
		p.CompletionPercentage,
		required,
		p.VerifiedBy,
		p.VerifiedAt,
		p.VerificationRemarks,
		p.KYCExpiryDate,
		p.LastSubmittedAt,
		p.RejectionReason,
		rejections,
		p.IsActive,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrVersionConflict
	}
	p.Version++
	return nil
}

// ListExpiring returns verified profiles expiring within [from, to].
func (r *ProfilePostgres) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM kyc_profiles
		WHERE is_active AND status = 'verified' AND kyc_expiry_date BETWEEN $1 AND $2
		ORDER BY kyc_expiry_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProfilePostgres) CountByStatus(ctx context.Context) (map[model.ProfileStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM kyc_profiles WHERE is_active GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.ProfileStatus]int)
	for rows.Next() {
		var (
			k string
			n int
		)
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[model.ProfileStatus(k)] = n
	}
	return out, rows.Err()
}
