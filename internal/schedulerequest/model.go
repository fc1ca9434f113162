package schedulerequest

import (
	"net/http"
	"time"

	"github.com/bookable/service-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "schedule request not found")
	ErrServiceNotFound  = apperror.New(http.StatusNotFound, "service not found")
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrNotPending       = apperror.New(http.StatusBadRequest, "schedule request is no longer pending")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ScheduleRequest is a consumer's proposal to reserve a date range, subject
// to owner approval. Only a pending request may be accepted, rejected, or
// withdrawn; accepted, rejected and cancelled are terminal.
type ScheduleRequest struct {
	ID          string
	ServiceID   string
	ServiceName string
	OwnerID     string // owner of the target service, joined for authorization
	UserID      string
	UserName    *string
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
	Message     string
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Filter struct {
	UserID    string
	ServiceID string
	Status    string

	Page     int
	PageSize int
}
