// Package events carries the audit trail of KYC lifecycle changes.
package events

import (
	"context"
	"log/slog"
	"time"
)

// Type names an audited lifecycle change.
type Type string

const (
	DocumentUploaded     Type = "document.uploaded"
	DocumentUpdated      Type = "document.updated"
	DocumentDeleted      Type = "document.deleted"
	DocumentRestored     Type = "document.restored"
	DocumentDecision     Type = "document.decision"
	DocumentDraftComment Type = "document.draft_comment"
	ProfileStatusChanged Type = "profile.status_changed"
	ProfileVerified      Type = "profile.verified"
	ProfileRejected      Type = "profile.rejected"
)

// AttrKey is one of the fixed attribute names an event may carry.
type AttrKey string

const (
	AttrDocumentType AttrKey = "document_type"
	AttrDecision     AttrKey = "decision"
	AttrFromStatus   AttrKey = "from_status"
	AttrToStatus     AttrKey = "to_status"
	AttrOverride     AttrKey = "override"
	AttrReason       AttrKey = "reason"
	AttrVersion      AttrKey = "version"
)

// Event is emitted after a successful state change. Keep it transport-agnostic.
type Event struct {
	Type       Type               `json:"type"`
	OwnerID    string             `json:"owner_id"`
	DocumentID string             `json:"document_id,omitempty"`
	ActorID    string             `json:"actor_id,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
	Attributes map[AttrKey]string `json:"attributes,omitempty"`
}

// Publisher delivers events to a sink.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// LogPublisher writes events as structured log lines.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "audit")}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	attrs := []any{
		"event_type", string(e.Type),
		"owner_id", e.OwnerID,
		"occurred_at", e.OccurredAt,
	}
	if e.DocumentID != "" {
		attrs = append(attrs, "document_id", e.DocumentID)
	}
	if e.ActorID != "" {
		attrs = append(attrs, "actor_id", e.ActorID)
	}
	for k, v := range e.Attributes {
		attrs = append(attrs, string(k), v)
	}
	p.logger.InfoContext(ctx, "audit_event", attrs...)
	return nil
}
