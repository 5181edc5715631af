package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kycapi/internal/model"
	"kycapi/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, owner_id, document_type, document_name, document_number, file_name,
	original_file_name, file_path, file_size, mime_type, status, verified_by, verified_at,
	verification_remarks, review_draft_history, expiry_date, is_active, deleted_at, deleted_by,
	version, previous_versions, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*model.IdentityDocument, error) {
	var (
		d          model.IdentityDocument
		verifiedBy sql.NullString
		verifiedAt sql.NullTime
		expiry     sql.NullTime
		deletedAt  sql.NullTime
		deletedBy  sql.NullString
		drafts     []byte
		versions   []byte
	)
	if err := s.Scan(
		&d.ID,
		&d.OwnerID,
		&d.DocumentType,
		&d.DocumentName,
		&d.DocumentNumber,
		&d.FileName,
		&d.OriginalFileName,
		&d.FilePath,
		&d.FileSize,
		&d.MIMEType,
		&d.Status,
		&verifiedBy,
		&verifiedAt,
		&d.VerificationRemarks,
		&drafts,
		&expiry,
		&d.IsActive,
		&deletedAt,
		&deletedBy,
		&d.Version,
		&versions,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.VerifiedBy = fromNullString(verifiedBy)
	d.VerifiedAt = fromNullTime(verifiedAt)
	d.ExpiryDate = fromNullTime(expiry)
	d.DeletedAt = fromNullTime(deletedAt)
	d.DeletedBy = fromNullString(deletedBy)
	if err := unmarshalJSON(drafts, &d.ReviewDraftHistory); err != nil {
		return nil, fmt.Errorf("decode review_draft_history: %w", err)
	}
	if err := unmarshalJSON(versions, &d.PreviousVersions); err != nil {
		return nil, fmt.Errorf("decode previous_versions: %w", err)
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.IdentityDocument) (*model.IdentityDocument, error) {
	drafts, err := marshalJSON(doc.ReviewDraftHistory, "[]")
	if err != nil {
		return nil, err
	}
	versions, err := marshalJSON(doc.PreviousVersions, "[]")
	if err != nil {
		return nil, err
	}
	q := `
		INSERT INTO kyc_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15::jsonb, $16, $17, $18, $19, $20, $21::jsonb, $22, $23)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.DocumentType,
		doc.DocumentName,
		doc.DocumentNumber,
		doc.FileName,
		doc.OriginalFileName,
		doc.FilePath,
		doc.FileSize,
		doc.MIMEType,
		doc.Status,
		doc.VerifiedBy,
		doc.VerifiedAt,
		doc.VerificationRemarks,
		doc.ExpiryDate,
		doc.IsActive,
		doc.DeletedAt,
		doc.DeletedBy,
		doc.Version,
		versions,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.IdentityDocument, error) {
	q := `SELECT ` + documentColumns + ` FROM kyc_documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// Update overwrites the mutable columns. review_draft_history is owned by AppendDraft
// and never written here. Returns sql.ErrNoRows if the row does not exist.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.IdentityDocument) error {
	versions, err := marshalJSON(doc.PreviousVersions, "[]")
	if err != nil {
		return err
	}
	const q = `
		UPDATE kyc_documents SET
			document_name = $2,
			document_number = $3,
			file_name = $4,
			original_file_name = $5,
			file_path = $6,
			file_size = $7,
			mime_type = $8,
			status = $9,
			verified_by = $10,
			verified_at = $11,
			verification_remarks = $12,
			expiry_date = $13,
			is_active = $14,
			deleted_at = $15,
			deleted_by = $16,
			version = $17,
			previous_versions = $18::jsonb,
			updated_at = $19
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		doc.ID,
		doc.DocumentName,
		doc.DocumentNumber,
		doc.FileName,
		doc.OriginalFileName,
		doc.FilePath,
		doc.FileSize,
		doc.MIMEType,
		doc.Status,
		doc.VerifiedBy,
		doc.VerifiedAt,
		doc.VerificationRemarks,
		doc.ExpiryDate,
		doc.IsActive,
		doc.DeletedAt,
		doc.DeletedBy,
		doc.Version,
		versions,
		doc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *DocumentPostgres) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kyc_documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByOwner returns the owner's documents, newest first.
func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]model.IdentityDocument, error) {
	q := `SELECT ` + documentColumns + ` FROM kyc_documents WHERE owner_id = $1`
	if activeOnly {
		q += ` AND is_active`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// ListActive returns active documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) ListActive(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.IdentityDocument], error) {
	where := []string{"is_active"}
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.DocumentType != "" {
		args = append(args, f.DocumentType)
		where = append(where, fmt.Sprintf("document_type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	// Count total rows
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kyc_documents WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	q := fmt.Sprintf(`SELECT %s FROM kyc_documents WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, cond, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	items, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.IdentityDocument]{Items: items, Total: total}, nil
}

// AppendDraft appends to the JSONB history in a single statement so concurrent reviewers never lose entries.
func (r *DocumentPostgres) AppendDraft(ctx context.Context, id string, e model.DraftEntry) ([]model.DraftEntry, error) {
	entry, err := json.Marshal([]model.DraftEntry{e})
	if err != nil {
		return nil, fmt.Errorf("encode draft entry: %w", err)
	}
	const q = `
		UPDATE kyc_documents
		SET review_draft_history = review_draft_history || $2::jsonb, updated_at = $3
		WHERE id = $1
		RETURNING review_draft_history
	`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, id, string(entry), e.CreatedAt).Scan(&raw); err != nil {
		return nil, err
	}
	var out []model.DraftEntry
	if err := unmarshalJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("decode review_draft_history: %w", err)
	}
	return out, nil
}

func (r *DocumentPostgres) CountActiveByStatus(ctx context.Context) (map[model.DocumentStatus]int, error) {
	out := make(map[model.DocumentStatus]int)
	err := r.countBy(ctx, `SELECT status, COUNT(*) FROM kyc_documents WHERE is_active GROUP BY status`, func(k string, n int) {
		out[model.DocumentStatus(k)] = n
	})
	return out, err
}

func (r *DocumentPostgres) CountActiveByType(ctx context.Context) (map[model.DocumentType]int, error) {
	out := make(map[model.DocumentType]int)
	err := r.countBy(ctx, `SELECT document_type, COUNT(*) FROM kyc_documents WHERE is_active GROUP BY document_type`, func(k string, n int) {
		out[model.DocumentType(k)] = n
	})
	return out, err
}

func (r *DocumentPostgres) countBy(ctx context.Context, q string, put func(k string, n int)) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			k string
			n int
		)
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		put(k, n)
	}
	return rows.Err()
}

func collectDocuments(rows *sql.Rows) ([]model.IdentityDocument, error) {
	defer rows.Close()
	items := make([]model.IdentityDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func marshalJSON(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

func unmarshalJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
