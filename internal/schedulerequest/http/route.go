package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/schedule-requests")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.GET("/service/:serviceId", h.ListByService)
		group.GET("/check/:serviceId", h.Check)
		group.POST("", h.Create)
		group.PUT("/:id/accept", h.Accept)
		group.PUT("/:id/reject", h.Reject)
		group.DELETE("/:id", h.Withdraw)
	}
}
