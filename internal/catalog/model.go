package catalog

import (
	"net/http"
	"time"

	"github.com/bookable/service-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "service not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "service name is required")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "hourly price must be greater than zero")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Service is a bookable offering published by an owner. The booking core only
// relies on the OwnerID and HourlyPrice contract; the rest is listing metadata.
type Service struct {
	ID          string
	OwnerID     string
	OwnerName   *string
	Name        string
	Description string
	HourlyPrice float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines filter options for listing services.
type Filter struct {
	OwnerID string
	Name    string

	Page     int
	PageSize int
}
