package notification

import (
	"net/http"
	"time"

	"github.com/bookable/service-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "notification not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Type string

const (
	TypeBookingCreated   Type = "booking_created"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingCompleted Type = "booking_completed"
	TypeRequestReceived  Type = "schedule_request_received"
	TypeRequestSent      Type = "schedule_request_sent"
	TypeRequestAccepted  Type = "schedule_request_accepted"
	TypeRequestRejected  Type = "schedule_request_rejected"
	TypeRequestWithdrawn Type = "schedule_request_withdrawn"
)

// Notification is an append-only record of a state transition that concerns
// a user. RelatedID points at the booking or schedule request that caused it.
type Notification struct {
	ID        string
	UserID    string
	Type      Type
	Title     string
	Message   string
	RelatedID string
	IsRead    bool
	CreatedAt time.Time
}

type Filter struct {
	UserID     string
	UnreadOnly bool

	Page     int
	PageSize int
}
