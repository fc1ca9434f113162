package http

import (
	"time"

	"github.com/bookable/service-booking-backend/internal/booking"
	"github.com/bookable/service-booking-backend/internal/pkg/request"
	userHttp "github.com/bookable/service-booking-backend/internal/user/http"
)

type CreateBookingRequest struct {
	ServiceID      string `json:"service_id" binding:"required,uuid"`
	AvailabilityID string `json:"availability_id" binding:"required,uuid"`
	DurationHours  int    `json:"duration_hours" binding:"required,min=1"`
	ContactName    string `json:"contact_name" binding:"required"`
	ContactEmail   string `json:"contact_email" binding:"required,email"`
	ContactPhone   string `json:"contact_phone" binding:"required"`
	Notes          string `json:"notes"`
}

type UpdateBookingRequest struct {
	Status       *string `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`
	Notes        *string `json:"notes"`
}

type ListBookingsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

type BookingResponse struct {
	ID             string           `json:"id"`
	ServiceID      string           `json:"service_id"`
	ServiceName    string           `json:"service_name"`
	AvailabilityID string           `json:"availability_id"`
	Date           string           `json:"date"`
	User           userHttp.UserTag `json:"user"`
	Status         string           `json:"status"`
	DurationHours  int              `json:"duration_hours"`
	TotalPrice     float64          `json:"total_price"`
	ContactName    string           `json:"contact_name"`
	ContactEmail   string           `json:"contact_email"`
	ContactPhone   string           `json:"contact_phone"`
	Notes          string           `json:"notes,omitempty"`
	ConfirmedAt    *time.Time       `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		ServiceName:    b.ServiceName,
		AvailabilityID: b.SlotID,
		Date:           b.SlotDate.Format("2006-01-02"),
		User:           userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		Status:         string(b.Status),
		DurationHours:  b.DurationHours,
		TotalPrice:     b.TotalPrice,
		ContactName:    b.ContactName,
		ContactEmail:   b.ContactEmail,
		ContactPhone:   b.ContactPhone,
		Notes:          b.Notes,
		ConfirmedAt:    b.ConfirmedAt,
		CancelledAt:    b.CancelledAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
