package availability

import (
	"net/http"
	"time"

	"github.com/bookable/service-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "availability slot not found")
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrRangeTooLong     = apperror.New(http.StatusBadRequest, "date range exceeds one year")
	ErrInvalidTime      = apperror.New(http.StatusBadRequest, "time must be in HH:MM format")
	ErrSlotUnavailable  = apperror.New(http.StatusConflict, "slot is unavailable or already booked")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Slot is one bookable calendar-day time window for a service.
//
// A slot with IsBooked = true has exactly one active (non-cancelled) booking
// referencing it; that flag is only flipped through the conditional reserve
// and release statements in the repository.
type Slot struct {
	ID          string
	ServiceID   string
	Date        time.Time // calendar day, midnight UTC
	StartTime   string    // local time-of-day, "HH:MM"
	EndTime     string
	IsAvailable bool
	IsBooked    bool
	CreatedAt   time.Time
}

// DefaultStartTime and DefaultEndTime cover the full day when an owner
// publishes a range without explicit hours.
const (
	DefaultStartTime = "00:00"
	DefaultEndTime   = "23:59"
)
