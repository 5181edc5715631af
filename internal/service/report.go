package service

import (
	"context"
	"fmt"

	"kycapi/internal/model"
)

// ExpiringSoonDays is the window used by Statistics.ExpiringSoon.
const ExpiringSoonDays = 30

// ReportService serves read-only aggregates.
type ReportService interface {
	Statistics(ctx context.Context) (*model.Statistics, error)
	// ExpiringProfiles lists verified profiles expiring within days (1..365).
	ExpiringProfiles(ctx context.Context, days int) ([]model.Profile, error)
}

type reportService struct {
	*core
}

func NewReportService(d Deps) ReportService {
	return &reportService{core: newCore(d)}
}

func (s *reportService) Statistics(ctx context.Context) (*model.Statistics, error) {
	byStatus, err := s.documents.CountActiveByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents by status: %w", err)
	}
	byType, err := s.documents.CountActiveByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents by type: %w", err)
	}
	profiles, err := s.profiles.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	expiring, err := s.ExpiringProfiles(ctx, ExpiringSoonDays)
	if err != nil {
		return nil, err
	}

	stats := &model.Statistics{
		DocumentsByStatus: byStatus,
		DocumentsByType:   byType,
		ProfilesByStatus:  profiles,
		ExpiringSoon:      len(expiring),
	}
	for _, n := range byStatus {
		stats.TotalDocuments += n
	}
	for _, n := range profiles {
		stats.TotalProfiles += n
	}
	return stats, nil
}

func (s *reportService) ExpiringProfiles(ctx context.Context, days int) ([]model.Profile, error) {
	if days < 1 || days > 365 {
		return nil, validationErr("days must be between 1 and 365")
	}
	now := s.clock()
	out, err := s.profiles.ListExpiring(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("list expiring profiles: %w", err)
	}
	return out, nil
}
