package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookable/service-booking-backend/internal/authz"
	"github.com/bookable/service-booking-backend/internal/availability"
	"github.com/bookable/service-booking-backend/internal/catalog"
	"github.com/bookable/service-booking-backend/internal/notification"
)

type CreateRequest struct {
	ServiceID     string
	SlotID        string
	UserID        string
	DurationHours int
	Contact       Contact
	Notes         string
}

type UpdateRequest struct {
	Status       *string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	Notes        *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id, callerID string) (*Booking, error)
	Update(ctx context.Context, id string, req UpdateRequest, callerID string) (*Booking, error)
	Cancel(ctx context.Context, id, callerID string) (*Booking, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*Booking, int, error)
	ListByService(ctx context.Context, serviceID, callerID string, page, pageSize int) ([]*Booking, int, error)
}

type service struct {
	repo     Repository
	slots    availability.Service
	catalog  catalog.Catalog
	notifier notification.Dispatcher
}

func NewService(
	repo Repository,
	slots availability.Service,
	cat catalog.Catalog,
	notifier notification.Dispatcher,
) Service {
	return &service{
		repo:     repo,
		slots:    slots,
		catalog:  cat,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.DurationHours < 1 {
		return nil, ErrInvalidDuration
	}

	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if authz.IsOwner(svc.OwnerID, req.UserID) {
		return nil, ErrSelfBooking
	}

	slot, err := s.slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if slot.ServiceID != req.ServiceID {
		return nil, ErrSlotMismatch
	}

	b := &Booking{
		ServiceID:     req.ServiceID,
		ServiceName:   svc.Name,
		OwnerID:       svc.OwnerID,
		SlotID:        req.SlotID,
		SlotDate:      slot.Date,
		UserID:        req.UserID,
		Status:        StatusPending,
		DurationHours: req.DurationHours,
		// Computed once; later hourly price changes never touch it.
		TotalPrice:   svc.HourlyPrice * float64(req.DurationHours),
		ContactName:  req.Contact.Name,
		ContactEmail: req.Contact.Email,
		ContactPhone: req.Contact.Phone,
		Notes:        req.Notes,
	}

	// The availability/unbooked check happens inside this transaction: the
	// slot we just read may already be taken by the time we get here.
	if err := s.repo.CreateReserving(ctx, b); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, b.OwnerID, notification.TypeBookingCreated,
		"New booking request",
		fmt.Sprintf("%s on %s has a new pending booking", b.ServiceName, b.SlotDate.Format("2006-01-02")),
		b.ID)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id, callerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAct(b.UserID, b.OwnerID, callerID) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, callerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAct(b.UserID, b.OwnerID, callerID) {
		return nil, ErrPermissionDenied
	}

	if req.ContactName != nil {
		b.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		b.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		b.ContactPhone = *req.ContactPhone
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}

	releaseSlot := false
	var notify func()

	if req.Status != nil {
		requested := Status(*req.Status)
		if err := Transition(b.Status, requested); err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		switch requested {
		case StatusConfirmed:
			b.ConfirmedAt = &now
			notify = func() {
				s.notifier.Notify(ctx, b.UserID, notification.TypeBookingConfirmed,
					"Booking confirmed",
					fmt.Sprintf("Your booking for %s on %s was confirmed", b.ServiceName, b.SlotDate.Format("2006-01-02")),
					b.ID)
			}
		case StatusCancelled:
			b.CancelledAt = &now
			releaseSlot = true
			counterpart := b.OwnerID
			if callerID == b.OwnerID {
				counterpart = b.UserID
			}
			notify = func() {
				s.notifier.Notify(ctx, counterpart, notification.TypeBookingCancelled,
					"Booking cancelled",
					fmt.Sprintf("The booking for %s on %s was cancelled", b.ServiceName, b.SlotDate.Format("2006-01-02")),
					b.ID)
			}
		case StatusCompleted:
			notify = func() {
				s.notifier.Notify(ctx, b.UserID, notification.TypeBookingCompleted,
					"Booking completed",
					fmt.Sprintf("Your booking for %s on %s was marked completed", b.ServiceName, b.SlotDate.Format("2006-01-02")),
					b.ID)
			}
		}
		b.Status = requested
	}

	if err := s.repo.Update(ctx, b, releaseSlot); err != nil {
		return nil, err
	}

	if notify != nil {
		notify()
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, callerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAct(b.UserID, b.OwnerID, callerID) {
		return nil, ErrPermissionDenied
	}

	switch b.Status {
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	case StatusCompleted:
		return nil, ErrAlreadyCompleted
	}

	status := string(StatusCancelled)
	return s.Update(ctx, id, UpdateRequest{Status: &status}, callerID)
}

func (s *service) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*Booking, int, error) {
	return s.repo.List(ctx, Filter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) ListByService(ctx context.Context, serviceID, callerID string, page, pageSize int) ([]*Booking, int, error) {
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
