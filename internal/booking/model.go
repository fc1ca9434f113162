package booking

import (
	"net/http"
	"time"

	"github.com/bookable/service-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrServiceNotFound   = apperror.New(http.StatusNotFound, "service not found")
	ErrSlotNotFound      = apperror.New(http.StatusNotFound, "availability slot not found")
	ErrSlotMismatch      = apperror.New(http.StatusBadRequest, "slot does not belong to the service")
	ErrSlotUnavailable   = apperror.New(http.StatusConflict, "slot is unavailable or already booked")
	ErrSelfBooking       = apperror.New(http.StatusForbidden, "cannot book your own service")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidTransition = apperror.New(http.StatusBadRequest, "invalid booking status transition")
	ErrAlreadyCancelled  = apperror.New(http.StatusBadRequest, "booking is already cancelled")
	ErrAlreadyCompleted  = apperror.New(http.StatusBadRequest, "booking is already completed")
	ErrInvalidDuration   = apperror.New(http.StatusBadRequest, "duration must be at least one hour")
)

// Booking reserves exactly one availability slot. TotalPrice is derived from
// the service's hourly price once at creation time and never recomputed.
type Booking struct {
	ID            string
	ServiceID     string
	ServiceName   string
	OwnerID       string // owner of the booked service, joined for authorization
	SlotID        string
	SlotDate      time.Time
	UserID        string
	UserName      *string
	Status        Status
	DurationHours int
	TotalPrice    float64
	ContactName   string
	ContactEmail  string
	ContactPhone  string
	Notes         string
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Filter struct {
	UserID    string
	ServiceID string
	Status    string

	Page     int
	PageSize int
}

// Contact groups the requester's contact fields.
type Contact struct {
	Name  string
	Email string
	Phone string
}
