//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"kycapi/internal/database/migration"
	"kycapi/internal/model"
	"kycapi/internal/repository"
)

func newPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("kyc"),
		tcpostgres.WithUsername("kyc"),
		tcpostgres.WithPassword("kyc"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.EnsureMigrated(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil)), "testcontainer"))
	return db
}

func TestPostgres_DocumentLifecycle(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	repo := NewDocumentPostgres(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	doc := &model.IdentityDocument{
		ID:               "6f1c1f7e-7e7a-4a53-9a7b-0f6b6a9d2a10",
		OwnerID:          "owner-1",
		DocumentType:     model.DocumentTypePAN,
		DocumentNumber:   "ABCDE1234F",
		FileName:         "f1.pdf",
		OriginalFileName: "pan.pdf",
		FilePath:         "pan_cards/owner-1/f1.pdf",
		FileSize:         10,
		MIMEType:         "application/pdf",
		Status:           model.DocumentStatusPending,
		IsActive:         true,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	created, err := repo.Create(ctx, doc)
	require.NoError(t, err)
	assert.Empty(t, created.ReviewDraftHistory)

	_, err = repo.AppendDraft(ctx, doc.ID, model.DraftEntry{Comment: "one", Reviewer: "r", CreatedAt: now})
	require.NoError(t, err)
	history, err := repo.AppendDraft(ctx, doc.ID, model.DraftEntry{Comment: "two", Reviewer: "r", CreatedAt: now})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[1].Comment)

	created.Status = model.DocumentStatusVerified
	created.ReviewDraftHistory = history
	created.PreviousVersions = []model.VersionEntry{{FilePath: "archived/1_old.pdf", FileName: "old.pdf", UpdatedAt: now, Reason: "replaced"}}
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusVerified, got.Status)
	assert.Len(t, got.PreviousVersions, 1)

	page, err := repo.ListActive(ctx, repository.DocumentFilter{Status: model.DocumentStatusVerified}, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestPostgres_ProfileCAS(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	repo := NewProfilePostgres(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := model.NewProfile("0c1d9b5e-3f0e-4b7f-8c39-3a3f5d0f7a11", "owner-1", now)
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, model.NewProfile("5b0e5c1a-1111-4b7f-8c39-3a3f5d0f7a11", "owner-1", now)), repository.ErrDuplicate)

	a, err := repo.FindByOwner(ctx, "owner-1")
	require.NoError(t, err)
	b, err := repo.FindByOwner(ctx, "owner-1")
	require.NoError(t, err)

	a.Status = model.ProfileStatusInProgress
	require.NoError(t, repo.Update(ctx, a))
	assert.ErrorIs(t, repo.Update(ctx, b), repository.ErrVersionConflict)
}
