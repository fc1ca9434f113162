package http

import (
	"time"

	"github.com/bookable/service-booking-backend/internal/catalog"
	"github.com/bookable/service-booking-backend/internal/pkg/request"
	userHttp "github.com/bookable/service-booking-backend/internal/user/http"
)

type ListServicesRequest struct {
	request.ListParams
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	Name    string `form:"name"`
}

type ServiceResponse struct {
	ID          string           `json:"id"`
	Owner       userHttp.UserTag `json:"owner"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	HourlyPrice float64          `json:"hourly_price"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Owner:       userHttp.UserTag{ID: s.OwnerID, Name: s.OwnerName},
		Name:        s.Name,
		Description: s.Description,
		HourlyPrice: s.HourlyPrice,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	HourlyPrice float64 `json:"hourly_price" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	HourlyPrice *float64 `json:"hourly_price" binding:"omitempty,gt=0"`
}
