package http

import (
	"time"

	"github.com/bookable/service-booking-backend/internal/availability"
)

const dateLayout = "2006-01-02"

type PublishRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	StartTime string `json:"start_time" binding:"omitempty"`
	EndTime   string `json:"end_time" binding:"omitempty"`
}

// Dates parses the request's calendar-day bounds.
func (r *PublishRangeRequest) Dates() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return
	}
	end, err = time.Parse(dateLayout, r.EndDate)
	return
}

type ListSlotsRequest struct {
	From string `form:"from" binding:"omitempty"`
	To   string `form:"to" binding:"omitempty"`
}

type SlotResponse struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	IsBooked    bool   `json:"is_booked"`
}

func NewSlotResponse(s *availability.Slot) SlotResponse {
	return SlotResponse{
		ID:          s.ID,
		ServiceID:   s.ServiceID,
		Date:        s.Date.Format(dateLayout),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsAvailable: s.IsAvailable,
		IsBooked:    s.IsBooked,
	}
}

type SlotListResponse struct {
	Items []SlotResponse `json:"items"`
	Total int            `json:"total"`
}

func NewSlotListResponse(slots []*availability.Slot) SlotListResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}
	return SlotListResponse{Items: items, Total: len(items)}
}
