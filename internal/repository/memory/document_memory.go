// Package memory holds map-backed repositories for tests and database-less runs.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"kycapi/internal/model"
	"kycapi/internal/repository"
)

// DocumentMemory is an in-process repository.DocumentRepository.
type DocumentMemory struct {
	mu   sync.RWMutex
	docs map[string]*model.IdentityDocument
}

func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{docs: make(map[string]*model.IdentityDocument)}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func (r *DocumentMemory) Create(_ context.Context, doc *model.IdentityDocument) (*model.IdentityDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	stored := doc.Clone()
	if stored.ReviewDraftHistory == nil {
		stored.ReviewDraftHistory = []model.DraftEntry{}
	}
	if stored.PreviousVersions == nil {
		stored.PreviousVersions = []model.VersionEntry{}
	}
	r.docs[doc.ID] = stored
	return stored.Clone(), nil
}

func (r *DocumentMemory) FindByID(_ context.Context, id string) (*model.IdentityDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return d.Clone(), nil
}

func (r *DocumentMemory) Update(_ context.Context, doc *model.IdentityDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.docs[doc.ID]
	if !ok {
		return sql.ErrNoRows
	}
	next := doc.Clone()
	next.OwnerID = cur.OwnerID
	next.DocumentType = cur.DocumentType
	next.CreatedAt = cur.CreatedAt
	// Draft history is only written by AppendDraft.
	next.ReviewDraftHistory = cur.ReviewDraftHistory
	r.docs[doc.ID] = next
	return nil
}

func (r *DocumentMemory) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.docs, id)
	return nil
}

func (r *DocumentMemory) ListByOwner(_ context.Context, ownerID string, activeOnly bool) ([]model.IdentityDocument, error) {
	return r.collect(func(d *model.IdentityDocument) bool {
		return d.OwnerID == ownerID && (!activeOnly || d.IsActive)
	}), nil
}

func (r *DocumentMemory) ListActive(_ context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.IdentityDocument], error) {
	all := r.collect(func(d *model.IdentityDocument) bool {
		if !d.IsActive {
			return false
		}
		if f.Status != "" && d.Status != f.Status {
			return false
		}
		return f.DocumentType == "" || d.DocumentType == f.DocumentType
	})
	total := len(all)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}
	return &repository.PageResult[model.IdentityDocument]{Items: all[start:end], Total: total}, nil
}

func (r *DocumentMemory) AppendDraft(_ context.Context, id string, e model.DraftEntry) ([]model.DraftEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d.ReviewDraftHistory = append(d.ReviewDraftHistory, e)
	d.UpdatedAt = e.CreatedAt
	return append([]model.DraftEntry(nil), d.ReviewDraftHistory...), nil
}

func (r *DocumentMemory) CountActiveByStatus(context.Context) (map[model.DocumentStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[model.DocumentStatus]int)
	for _, d := range r.docs {
		if d.IsActive {
			out[d.Status]++
		}
	}
	return out, nil
}

func (r *DocumentMemory) CountActiveByType(context.Context) (map[model.DocumentType]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[model.DocumentType]int)
	for _, d := range r.docs {
		if d.IsActive {
			out[d.DocumentType]++
		}
	}
	return out, nil
}

// collect returns matching documents newest first.
func (r *DocumentMemory) collect(match func(*model.IdentityDocument) bool) []model.IdentityDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.IdentityDocument, 0)
	for _, d := range r.docs {
		if match(d) {
			out = append(out, *d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
