package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/services/:id/availability")

	// Slot schedule is public so consumers can browse before booking.
	group.GET("", h.ListByService)

	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.PUT("", h.PublishRange)
	}
}
