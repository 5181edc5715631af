package memory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycapi/internal/model"
	"kycapi/internal/repository"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func doc(id, owner string, t model.DocumentType, status model.DocumentStatus, offset int) *model.IdentityDocument {
	return &model.IdentityDocument{
		ID:           id,
		OwnerID:      owner,
		DocumentType: t,
		Status:       status,
		IsActive:     true,
		Version:      1,
		CreatedAt:    base.Add(time.Duration(offset) * time.Minute),
	}
}

func TestDocumentMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentMemory()

	_, err := r.Create(ctx, doc("d1", "o1", model.DocumentTypePAN, model.DocumentStatusPending, 0))
	require.NoError(t, err)
	_, err = r.Create(ctx, doc("d1", "o1", model.DocumentTypePAN, model.DocumentStatusPending, 0))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := r.FindByID(ctx, "d1")
	require.NoError(t, err)
	got.Status = model.DocumentStatusVerified

	again, err := r.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusPending, again.Status, "stored copy must not alias")

	require.NoError(t, r.Update(ctx, got))
	again, err = r.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusVerified, again.Status)

	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, r.Update(ctx, &model.IdentityDocument{ID: "missing"}), sql.ErrNoRows)

	require.NoError(t, r.Remove(ctx, "d1"))
	_, err = r.FindByID(ctx, "d1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, r.Remove(ctx, "d1"), sql.ErrNoRows)
}

func TestDocumentMemory_UpdateKeepsDraftHistory(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentMemory()
	_, err := r.Create(ctx, doc("d1", "o1", model.DocumentTypePAN, model.DocumentStatusPending, 0))
	require.NoError(t, err)

	stale, err := r.FindByID(ctx, "d1")
	require.NoError(t, err)

	_, err = r.AppendDraft(ctx, "d1", model.DraftEntry{Comment: "blurry", Reviewer: "a1", CreatedAt: base})
	require.NoError(t, err)

	stale.Status = model.DocumentStatusVerified
	require.NoError(t, r.Update(ctx, stale))

	got, err := r.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusVerified, got.Status)
	require.Len(t, got.ReviewDraftHistory, 1)
	assert.Equal(t, "blurry", got.ReviewDraftHistory[0].Comment)
}

func TestDocumentMemory_Lists(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentMemory()
	for _, d := range []*model.IdentityDocument{
		doc("d1", "o1", model.DocumentTypePAN, model.DocumentStatusPending, 0),
		doc("d2", "o1", model.DocumentTypeAadhar, model.DocumentStatusVerified, 1),
		doc("d3", "o1", model.DocumentTypePassport, model.DocumentStatusPending, 2),
		doc("d4", "o2", model.DocumentTypePAN, model.DocumentStatusPending, 3),
	} {
		_, err := r.Create(ctx, d)
		require.NoError(t, err)
	}
	deleted, _ := r.FindByID(ctx, "d3")
	deleted.IsActive = false
	require.NoError(t, r.Update(ctx, deleted))

	active, err := r.ListByOwner(ctx, "o1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"d2", "d1"}, ids(active))

	all, err := r.ListByOwner(ctx, "o1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"d3", "d2", "d1"}, ids(all))

	page, err := r.ListActive(ctx, repository.DocumentFilter{Status: model.DocumentStatusPending}, repository.PageQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{"d4"}, ids(page.Items))

	page, err = r.ListActive(ctx, repository.DocumentFilter{DocumentType: model.DocumentTypePAN}, repository.PageQuery{Limit: 10, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, ids(page.Items))

	byStatus, err := r.CountActiveByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.DocumentStatus]int{model.DocumentStatusPending: 2, model.DocumentStatusVerified: 1}, byStatus)

	byType, err := r.CountActiveByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, byType[model.DocumentTypePAN])
	assert.Zero(t, byType[model.DocumentTypePassport])
}

func TestDocumentMemory_AppendDraft(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentMemory()
	_, err := r.Create(ctx, doc("d1", "o1", model.DocumentTypePAN, model.DocumentStatusPending, 0))
	require.NoError(t, err)

	_, err = r.AppendDraft(ctx, "d1", model.DraftEntry{Comment: "a", Reviewer: "r1", CreatedAt: base})
	require.NoError(t, err)
	history, err := r.AppendDraft(ctx, "d1", model.DraftEntry{Comment: "b", Reviewer: "r2", CreatedAt: base.Add(time.Second)})
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].Comment)
	assert.Equal(t, "b", history[1].Comment)

	_, err = r.AppendDraft(ctx, "missing", model.DraftEntry{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfileMemory_VersionCAS(t *testing.T) {
	ctx := context.Background()
	r := NewProfileMemory()
	p := model.NewProfile("p1", "o1", base)
	require.NoError(t, r.Create(ctx, p))
	assert.ErrorIs(t, r.Create(ctx, model.NewProfile("p2", "o1", base)), repository.ErrDuplicate)

	a, err := r.FindByOwner(ctx, "o1")
	require.NoError(t, err)
	b, err := r.FindByOwner(ctx, "o1")
	require.NoError(t, err)

	a.Status = model.ProfileStatusInProgress
	require.NoError(t, r.Update(ctx, a))
	assert.Equal(t, 2, a.Version)

	b.Status = model.ProfileStatusRejected
	assert.ErrorIs(t, r.Update(ctx, b), repository.ErrVersionConflict)

	stored, err := r.FindByOwner(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileStatusInProgress, stored.Status)

	_, err = r.FindByOwner(ctx, "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfileMemory_ListExpiringAndCount(t *testing.T) {
	ctx := context.Background()
	r := NewProfileMemory()
	add := func(owner string, status model.ProfileStatus, expiresIn int) {
		p := model.NewProfile("p-"+owner, owner, base)
		p.Status = status
		exp := base.AddDate(0, 0, expiresIn)
		p.KYCExpiryDate = &exp
		require.NoError(t, r.Create(ctx, p))
	}
	add("o1", model.ProfileStatusVerified, 20)
	add("o2", model.ProfileStatusVerified, 5)
	add("o3", model.ProfileStatusVerified, 40)
	add("o4", model.ProfileStatusRejected, 5)

	got, err := r.ListExpiring(ctx, base, base.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "o2", got[0].OwnerID)
	assert.Equal(t, "o1", got[1].OwnerID)

	counts, err := r.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.ProfileStatus]int{model.ProfileStatusVerified: 3, model.ProfileStatusRejected: 1}, counts)
}

func ids(docs []model.IdentityDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
