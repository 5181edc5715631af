// Package service implements the KYC document and profile use cases on top of
// the repositories, the blob store and the locker.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kycapi/internal/events"
	"kycapi/internal/kyc"
	"kycapi/internal/lock"
	"kycapi/internal/metrics"
	"kycapi/internal/model"
	"kycapi/internal/repository"
	"kycapi/internal/storage"
)

// DefaultPresignExpiry is the lifetime of download URLs when Deps.PresignExpiry is unset.
const DefaultPresignExpiry = 15 * time.Minute

// Limits are the file constraints checked before any blob write.
type Limits struct {
	MaxFileSize      int64
	AllowedMIMETypes []string
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Blobs     storage.BlobStore
	Documents repository.DocumentRepository
	Profiles  repository.ProfileRepository
	Locker    lock.Locker
	Events    events.Publisher
	Metrics   *metrics.KYC
	Logger    *slog.Logger
	Clock     func() time.Time
	Tracer    trace.Tracer

	Limits          Limits
	Validity        time.Duration
	PresignExpiry   time.Duration
	BulkConcurrency int
	BulkMaxItems    int
}

// core holds the dependencies and the profile read-modify-write helpers.
type core struct {
	blobs     storage.BlobStore
	documents repository.DocumentRepository
	profiles  repository.ProfileRepository
	locker    lock.Locker
	events    events.Publisher
	metrics   *metrics.KYC
	log       *slog.Logger
	now       func() time.Time
	tracer    trace.Tracer

	limits          Limits
	validity        time.Duration
	presignExpiry   time.Duration
	bulkConcurrency int
	bulkMaxItems    int
}

func newCore(d Deps) *core {
	c := &core{
		blobs:           d.Blobs,
		documents:       d.Documents,
		profiles:        d.Profiles,
		locker:          d.Locker,
		events:          d.Events,
		metrics:         d.Metrics,
		log:             d.Logger,
		now:             d.Clock,
		tracer:          d.Tracer,
		limits:          d.Limits,
		validity:        d.Validity,
		presignExpiry:   d.PresignExpiry,
		bulkConcurrency: d.BulkConcurrency,
		bulkMaxItems:    d.BulkMaxItems,
	}
	if c.locker == nil {
		c.locker = lock.NewKeyed()
	}
	if c.events == nil {
		c.events = events.Nop{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("kycapi/internal/service")
	}
	if c.limits.MaxFileSize <= 0 {
		c.limits.MaxFileSize = 5 << 20
	}
	if len(c.limits.AllowedMIMETypes) == 0 {
		c.limits.AllowedMIMETypes = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}
	}
	if c.validity <= 0 {
		c.validity = kyc.DefaultVerificationValidity
	}
	if c.presignExpiry <= 0 {
		c.presignExpiry = DefaultPresignExpiry
	}
	if c.bulkConcurrency <= 0 {
		c.bulkConcurrency = 4
	}
	if c.bulkMaxItems <= 0 {
		c.bulkMaxItems = 100
	}
	return c
}

func (c *core) clock() time.Time { return c.now().UTC() }

func (c *core) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
	}
	span.End()
}

func (c *core) lock(ctx context.Context, key string) (func(), error) {
	unlock, err := c.locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, &Error{kind: ErrConflict, msg: "resource is busy, retry later", cause: err}
		}
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return unlock, nil
}

func (c *core) validateFile(f *storage.FileUpload) error {
	if f == nil || f.Reader == nil {
		return validationErr("file is required")
	}
	if f.Size <= 0 {
		return validationErr("file is empty")
	}
	if f.Size > c.limits.MaxFileSize {
		return validationErr("file exceeds the %d byte limit", c.limits.MaxFileSize)
	}
	if !slices.Contains(c.limits.AllowedMIMETypes, f.MIMEType) {
		return validationErr("file type %q is not allowed", f.MIMEType)
	}
	return nil
}

// loadDocument returns the document, or NotFound when it is missing, inactive
// or (for a non-empty ownerID) owned by someone else.
func (c *core) loadDocument(ctx context.Context, id, ownerID string, activeOnly bool) (*model.IdentityDocument, error) {
	if id == "" {
		return nil, validationErr("document id is required")
	}
	doc, err := c.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("document")
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if (activeOnly && !doc.IsActive) || (ownerID != "" && doc.OwnerID != ownerID) {
		return nil, notFoundErr("document")
	}
	return doc, nil
}

// ensureProfile returns the owner's profile, creating an empty one on first use.
func (c *core) ensureProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	if ownerID == "" {
		return nil, validationErr("owner id is required")
	}
	p, err := c.profiles.FindByOwner(ctx, ownerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	p = model.NewProfile(uuid.NewString(), ownerID, c.clock())
	switch err := c.profiles.Create(ctx, p); {
	case err == nil:
		return p, nil
	case errors.Is(err, repository.ErrDuplicate):
		// Another writer created it first.
		p, err = c.profiles.FindByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("find profile: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("create profile: %w", err)
	}
}

// mutateProfile applies fn to the owner's profile under the owner lock and persists it.
// With mustExist, a missing profile is NotFound instead of being created.
func (c *core) mutateProfile(ctx context.Context, ownerID, actorID string, mustExist bool, fn func(p *model.Profile) error) (*model.Profile, error) {
	unlock, err := c.lock(ctx, lock.OwnerKey(ownerID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var p *model.Profile
	if mustExist {
		p, err = c.profiles.FindByOwner(ctx, ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("profile")
		}
		if err != nil {
			return nil, fmt.Errorf("find profile: %w", err)
		}
	} else if p, err = c.ensureProfile(ctx, ownerID); err != nil {
		return nil, err
	}

	from := p.Status
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = c.clock()
	if err := c.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, &Error{kind: ErrConflict, msg: "profile was modified concurrently", cause: err}
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if from != p.Status {
		c.metrics.ProfileTransition(from, p.Status)
		c.publish(ctx, events.Event{
			Type:    events.ProfileStatusChanged,
			OwnerID: ownerID,
			ActorID: actorID,
			Attributes: map[events.AttrKey]string{
				events.AttrFromStatus: string(from),
				events.AttrToStatus:   string(p.Status),
			},
		})
	}
	return p, nil
}

// publish is best effort; a failing sink never fails the operation.
func (c *core) publish(ctx context.Context, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = c.clock()
	}
	if err := c.events.Publish(ctx, e); err != nil {
		c.log.WarnContext(ctx, "event_publish_failed",
			"event_type", string(e.Type),
			"owner_id", e.OwnerID,
			"error_message", err.Error(),
		)
	}
}
