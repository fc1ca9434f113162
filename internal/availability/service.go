package availability

import (
	"context"
	"time"

	"github.com/bookable/service-booking-backend/internal/catalog"
)

// maxRangeDays caps a published range at one year of daily slots.
const maxRangeDays = 366

type PublishRequest struct {
	ServiceID string
	CallerID  string
	StartDate time.Time
	EndDate   time.Time
	StartTime string // optional, "HH:MM"
	EndTime   string // optional, "HH:MM"
}

type Service interface {
	// PublishRange materializes one slot per calendar day in the inclusive
	// range, replacing the service's previous schedule. Only the service
	// owner may publish. Booked slots are preserved (see Repository).
	PublishRange(ctx context.Context, req PublishRequest) ([]*Slot, error)

	GetByID(ctx context.Context, id string) (*Slot, error)
	ListByService(ctx context.Context, serviceID string, from, to *time.Time) ([]*Slot, error)
}

type service struct {
	repo    Repository
	catalog catalog.Catalog
}

func NewService(repo Repository, cat catalog.Catalog) Service {
	return &service{
		repo:    repo,
		catalog: cat,
	}
}

func (s *service) PublishRange(ctx context.Context, req PublishRequest) ([]*Slot, error) {
	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.OwnerID != req.CallerID {
		return nil, ErrPermissionDenied
	}

	start := truncateToDay(req.StartDate)
	end := truncateToDay(req.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, ErrRangeTooLong
	}

	startTime, err := normalizeTimeOfDay(req.StartTime, DefaultStartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := normalizeTimeOfDay(req.EndTime, DefaultEndTime)
	if err != nil {
		return nil, err
	}

	var slots []*Slot
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		slots = append(slots, &Slot{
			ServiceID:   req.ServiceID,
			Date:        d,
			StartTime:   startTime,
			EndTime:     endTime,
			IsAvailable: true,
		})
	}

	return s.repo.ReplaceRange(ctx, req.ServiceID, slots)
}

func (s *service) GetByID(ctx context.Context, id string) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByService(ctx context.Context, serviceID string, from, to *time.Time) ([]*Slot, error) {
	return s.repo.ListByService(ctx, serviceID, from, to)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func normalizeTimeOfDay(v, fallback string) (string, error) {
	if v == "" {
		return fallback, nil
	}
	if _, err := time.Parse("15:04", v); err != nil {
		return "", ErrInvalidTime
	}
	return v, nil
}
