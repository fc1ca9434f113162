package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookable/service-booking-backend/internal/auth"
	"github.com/bookable/service-booking-backend/internal/availability"
	"github.com/bookable/service-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// PublishRange replaces a service's schedule with one slot per day in the
// requested range.
func (h *Handler) PublishRange(c *gin.Context) {
	serviceID := c.Param("id")
	if _, err := uuid.Parse(serviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body PublishRangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, end, err := body.Dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be in YYYY-MM-DD format"})
		return
	}

	callerID := auth.GetUserID(c)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	slots, err := h.service.PublishRange(c.Request.Context(), availability.PublishRequest{
		ServiceID: serviceID,
		CallerID:  callerID,
		StartDate: start,
		EndDate:   end,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotListResponse(slots))
}

// ListByService returns the slot schedule for a service, optionally bounded
// by from/to dates.
func (h *Handler) ListByService(c *gin.Context) {
	serviceID := c.Param("id")
	if _, err := uuid.Parse(serviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req ListSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	var from, to *time.Time
	if req.From != "" {
		t, err := time.Parse(dateLayout, req.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be in YYYY-MM-DD format"})
			return
		}
		from = &t
	}
	if req.To != "" {
		t, err := time.Parse(dateLayout, req.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be in YYYY-MM-DD format"})
			return
		}
		to = &t
	}

	slots, err := h.service.ListByService(c.Request.Context(), serviceID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotListResponse(slots))
}
