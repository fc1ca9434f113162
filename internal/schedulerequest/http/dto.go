package http

import (
	"time"

	"github.com/bookable/service-booking-backend/internal/pkg/request"
	"github.com/bookable/service-booking-backend/internal/schedulerequest"
	userHttp "github.com/bookable/service-booking-backend/internal/user/http"
)

const dateLayout = "2006-01-02"

type CreateScheduleRequestBody struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Message   string `json:"message"`
}

// Dates parses the request's calendar-day bounds.
func (r *CreateScheduleRequestBody) Dates() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return
	}
	end, err = time.Parse(dateLayout, r.EndDate)
	return
}

type RejectScheduleRequestBody struct {
	Reason string `json:"reason"`
}

type ListScheduleRequestsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending accepted rejected cancelled"`
}

type ScheduleRequestResponse struct {
	ID          string           `json:"id"`
	ServiceID   string           `json:"service_id"`
	ServiceName string           `json:"service_name"`
	User        userHttp.UserTag `json:"user"`
	Status      string           `json:"status"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Message     string           `json:"message,omitempty"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewScheduleRequestResponse(sr *schedulerequest.ScheduleRequest) ScheduleRequestResponse {
	return ScheduleRequestResponse{
		ID:          sr.ID,
		ServiceID:   sr.ServiceID,
		ServiceName: sr.ServiceName,
		User:        userHttp.UserTag{ID: sr.UserID, Name: sr.UserName},
		Status:      string(sr.Status),
		StartDate:   sr.StartDate.Format(dateLayout),
		EndDate:     sr.EndDate.Format(dateLayout),
		Message:     sr.Message,
		RespondedAt: sr.RespondedAt,
		CreatedAt:   sr.CreatedAt,
		UpdatedAt:   sr.UpdatedAt,
	}
}

type HasAcceptedResponse struct {
	HasAccepted bool `json:"has_accepted"`
}
