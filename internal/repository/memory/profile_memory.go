package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"kycapi/internal/model"
	"kycapi/internal/repository"
)

// ProfileMemory is an in-process repository.ProfileRepository keyed by owner.
type ProfileMemory struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

func NewProfileMemory() *ProfileMemory {
	return &ProfileMemory{profiles: make(map[string]*model.Profile)}
}

var _ repository.ProfileRepository = (*ProfileMemory)(nil)

func (r *ProfileMemory) FindByOwner(_ context.Context, ownerID string) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[ownerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p.Clone(), nil
}

func (r *ProfileMemory) Create(_ context.Context, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.OwnerID]; ok {
		return repository.ErrDuplicate
	}
	r.profiles[p.OwnerID] = p.Clone()
	return nil
}

func (r *ProfileMemory) Update(_ context.Context, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.profiles[p.OwnerID]
	if !ok || cur.ID != p.ID || cur.Version != p.Version {
		return repository.ErrVersionConflict
	}
	next := p.Clone()
	next.Version++
	next.CreatedAt = cur.CreatedAt
	r.profiles[p.OwnerID] = next
	p.Version = next.Version
	return nil
}

func (r *ProfileMemory) ListExpiring(_ context.Context, from, to time.Time) ([]model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Profile, 0)
	for _, p := range r.profiles {
		if !p.IsActive || p.Status != model.ProfileStatusVerified || p.KYCExpiryDate == nil {
			continue
		}
		if exp := *p.KYCExpiryDate; !exp.Before(from) && !exp.After(to) {
			out = append(out, *p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KYCExpiryDate.Equal(*out[j].KYCExpiryDate) {
			return out[i].KYCExpiryDate.Before(*out[j].KYCExpiryDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProfileMemory) CountByStatus(context.Context) (map[model.ProfileStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[model.ProfileStatus]int)
	for _, p := range r.profiles {
		if p.IsActive {
			out[p.Status]++
		}
	}
	return out, nil
}
