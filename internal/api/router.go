package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bookable/service-booking-backend/internal/auth"
	"github.com/bookable/service-booking-backend/internal/availability"
	availabilityHttp "github.com/bookable/service-booking-backend/internal/availability/http"
	"github.com/bookable/service-booking-backend/internal/booking"
	bookingHttp "github.com/bookable/service-booking-backend/internal/booking/http"
	"github.com/bookable/service-booking-backend/internal/catalog"
	catalogHttp "github.com/bookable/service-booking-backend/internal/catalog/http"
	"github.com/bookable/service-booking-backend/internal/notification"
	notificationHttp "github.com/bookable/service-booking-backend/internal/notification/http"
	"github.com/bookable/service-booking-backend/internal/schedulerequest"
	requestHttp "github.com/bookable/service-booking-backend/internal/schedulerequest/http"
	"github.com/bookable/service-booking-backend/internal/user"
	userHttp "github.com/bookable/service-booking-backend/internal/user/http"
)

// Config holds everything the router needs to assemble middleware and routes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	Catalog             catalog.Catalog
	AvailabilityService availability.Service
	BookingService      booking.Service
	RequestService      schedulerequest.Service
	NotificationService notification.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for the individual modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global middleware:
	// - Logger: logs request information to the console.
	// - Recovery: captures panics and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware validates the request's JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	catalogHandler := catalogHttp.NewHandler(cfg.Catalog)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		requestHttp.RegisterRoutes(v1, requestHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
	}

	return r
}
