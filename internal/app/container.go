package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookable/service-booking-backend/internal/api"
	"github.com/bookable/service-booking-backend/internal/auth"
	"github.com/bookable/service-booking-backend/internal/availability"
	"github.com/bookable/service-booking-backend/internal/booking"
	"github.com/bookable/service-booking-backend/internal/catalog"
	"github.com/bookable/service-booking-backend/internal/notification"
	"github.com/bookable/service-booking-backend/internal/schedulerequest"
	"github.com/bookable/service-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Service catalog
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	serviceCatalog := catalog.NewCatalog(catalogRepo)

	// Notification dispatcher + feed
	notificationRepo := notification.NewPgxRepository(cfg.DBPool)
	notificationService := notification.NewService(notificationRepo)

	// Availability store
	slotRepo := availability.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(slotRepo, serviceCatalog)

	// Booking state machine; its repository shares the slot repository so
	// reserve and release run inside the booking transaction.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool, slotRepo)
	bookingService := booking.NewService(bookingRepo, availabilityService, serviceCatalog, notificationService)

	// Schedule request workflow
	requestRepo := schedulerequest.NewPgxRepository(cfg.DBPool)
	requestService := schedulerequest.NewService(requestRepo, serviceCatalog, notificationService)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		Catalog:             serviceCatalog,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		RequestService:      requestService,
		NotificationService: notificationService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
