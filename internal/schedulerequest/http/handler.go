package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookable/service-booking-backend/internal/auth"
	"github.com/bookable/service-booking-backend/internal/pkg/response"
	"github.com/bookable/service-booking-backend/internal/schedulerequest"
)

type Handler struct {
	service schedulerequest.Service
}

func NewHandler(service schedulerequest.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateScheduleRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, end, err := body.Dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be in YYYY-MM-DD format"})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sr, err := h.service.Create(c.Request.Context(), schedulerequest.CreateRequest{
		ServiceID: body.ServiceID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Message:   body.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewScheduleRequestResponse(sr))
}

func (h *Handler) Accept(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	sr, err := h.service.Accept(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleRequestResponse(sr))
}

func (h *Handler) Reject(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RejectScheduleRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sr, err := h.service.Reject(c.Request.Context(), id, auth.GetUserID(c), body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleRequestResponse(sr))
}

// Withdraw cancels the caller's own pending request.
func (h *Handler) Withdraw(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	sr, err := h.service.Withdraw(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleRequestResponse(sr))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	sr, err := h.service.GetByID(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewScheduleRequestResponse(sr))
}

// List returns the caller's own schedule requests.
func (h *Handler) List(c *gin.Context) {
	var req ListScheduleRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	req.Normalize()

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, total, err := h.service.ListByUser(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ScheduleRequestResponse, len(requests))
	for i, sr := range requests {
		items[i] = NewScheduleRequestResponse(sr)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// ListByService returns all requests targeting a service; owner only.
func (h *Handler) ListByService(c *gin.Context) {
	serviceID := c.Param("serviceId")
	if _, err := uuid.Parse(serviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req ListScheduleRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	req.Normalize()

	requests, total, err := h.service.ListByService(
		c.Request.Context(), serviceID, auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ScheduleRequestResponse, len(requests))
	for i, sr := range requests {
		items[i] = NewScheduleRequestResponse(sr)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Check reports whether the caller has an accepted request for the service.
func (h *Handler) Check(c *gin.Context) {
	serviceID := c.Param("serviceId")
	if _, err := uuid.Parse(serviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	has, err := h.service.HasAccepted(c.Request.Context(), serviceID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, HasAcceptedResponse{HasAccepted: has})
}
