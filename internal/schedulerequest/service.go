package schedulerequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookable/service-booking-backend/internal/authz"
	"github.com/bookable/service-booking-backend/internal/catalog"
	"github.com/bookable/service-booking-backend/internal/notification"
)

type CreateRequest struct {
	ServiceID string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Message   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ScheduleRequest, error)

	// Accept and Reject may only be called by the owner of the referenced
	// service, and only while the request is pending.
	Accept(ctx context.Context, id, callerID string) (*ScheduleRequest, error)
	Reject(ctx context.Context, id, callerID, reason string) (*ScheduleRequest, error)

	// Withdraw lets the requester cancel their own pending request.
	Withdraw(ctx context.Context, id, callerID string) (*ScheduleRequest, error)

	GetByID(ctx context.Context, id, callerID string) (*ScheduleRequest, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*ScheduleRequest, int, error)
	ListByService(ctx context.Context, serviceID, callerID string, page, pageSize int) ([]*ScheduleRequest, int, error)

	// HasAccepted is the booking gate: it reports whether the user already
	// has an accepted request for the service. Read-only.
	HasAccepted(ctx context.Context, serviceID, userID string) (bool, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Catalog
	notifier notification.Dispatcher
}

func NewService(repo Repository, cat catalog.Catalog, notifier notification.Dispatcher) Service {
	return &service{
		repo:     repo,
		catalog:  cat,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*ScheduleRequest, error) {
	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	start := truncateToDay(req.StartDate)
	end := truncateToDay(req.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	sr := &ScheduleRequest{
		ServiceID:   req.ServiceID,
		ServiceName: svc.Name,
		OwnerID:     svc.OwnerID,
		UserID:      req.UserID,
		Status:      StatusPending,
		StartDate:   start,
		EndDate:     end,
		Message:     req.Message,
	}

	if err := s.repo.Create(ctx, sr); err != nil {
		return nil, err
	}

	dates := formatRange(sr.StartDate, sr.EndDate)
	s.notifier.Notify(ctx, sr.OwnerID, notification.TypeRequestReceived,
		"New schedule request",
		fmt.Sprintf("New request for %s (%s)", sr.ServiceName, dates),
		sr.ID)
	s.notifier.Notify(ctx, sr.UserID, notification.TypeRequestSent,
		"Schedule request sent",
		fmt.Sprintf("Your request for %s (%s) is awaiting a response", sr.ServiceName, dates),
		sr.ID)

	return sr, nil
}

func (s *service) Accept(ctx context.Context, id, callerID string) (*ScheduleRequest, error) {
	sr, err := s.respond(ctx, id, callerID, StatusAccepted, "")
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, sr.UserID, notification.TypeRequestAccepted,
		"Schedule request accepted",
		fmt.Sprintf("Your request for %s (%s) was accepted", sr.ServiceName, formatRange(sr.StartDate, sr.EndDate)),
		sr.ID)

	return sr, nil
}

func (s *service) Reject(ctx context.Context, id, callerID, reason string) (*ScheduleRequest, error) {
	sr, err := s.respond(ctx, id, callerID, StatusRejected, reason)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your request for %s (%s) was rejected",
		sr.ServiceName, formatRange(sr.StartDate, sr.EndDate))
	if reason != "" {
		message += ": " + reason
	}
	s.notifier.Notify(ctx, sr.UserID, notification.TypeRequestRejected,
		"Schedule request rejected", message, sr.ID)

	return sr, nil
}

// respond applies an owner response (accept or reject) to a pending request.
func (s *service) respond(ctx context.Context, id, callerID string, status Status, reason string) (*ScheduleRequest, error) {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ownership is checked before the status so a non-owner probing a
	// terminal request still gets a permission error.
	if !authz.IsOwner(sr.OwnerID, callerID) {
		return nil, ErrPermissionDenied
	}
	if sr.Status != StatusPending {
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	sr.Status = status
	sr.RespondedAt = &now
	if reason != "" {
		if sr.Message != "" {
			sr.Message += "\n"
		}
		sr.Message += "Rejection reason: " + reason
	}

	if err := s.repo.UpdateStatus(ctx, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *service) Withdraw(ctx context.Context, id, callerID string) (*ScheduleRequest, error) {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsRequester(sr.UserID, callerID) {
		return nil, ErrPermissionDenied
	}
	if sr.Status != StatusPending {
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	sr.Status = StatusCancelled
	sr.RespondedAt = &now

	if err := s.repo.UpdateStatus(ctx, sr); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, sr.OwnerID, notification.TypeRequestWithdrawn,
		"Schedule request withdrawn",
		fmt.Sprintf("The request for %s (%s) was withdrawn", sr.ServiceName, formatRange(sr.StartDate, sr.EndDate)),
		sr.ID)

	return sr, nil
}

func (s *service) GetByID(ctx context.Context, id, callerID string) (*ScheduleRequest, error) {
	sr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAct(sr.UserID, sr.OwnerID, callerID) {
		return nil, ErrPermissionDenied
	}
	return sr, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*ScheduleRequest, int, error) {
	return s.repo.List(ctx, Filter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) ListByService(ctx context.Context, serviceID, callerID string, page, pageSize int) ([]*ScheduleRequest, int, error) {
	svc, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, 0, ErrServiceNotFound
		}
		return nil, 0, err
	}
	if !authz.IsOwner(svc.OwnerID, callerID) {
		return nil, 0, ErrPermissionDenied
	}

	return s.repo.List(ctx, Filter{
		ServiceID: serviceID,
		Page:      page,
		PageSize:  pageSize,
	})
}

func (s *service) HasAccepted(ctx context.Context, serviceID, userID string) (bool, error) {
	return s.repo.HasAccepted(ctx, serviceID, userID)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatRange(start, end time.Time) string {
	return start.Format("2006-01-02") + " to " + end.Format("2006-01-02")
}
