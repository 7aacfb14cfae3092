package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/convergex/campus-events/docs"
	"github.com/convergex/campus-events/internal/api/handler"
	"github.com/convergex/campus-events/internal/api/middleware"
	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/service"
	"github.com/convergex/campus-events/internal/infrastructure/config"
	mongodb "github.com/convergex/campus-events/internal/infrastructure/db/mongo"
	redisdb "github.com/convergex/campus-events/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The notification fan-out queue is built by the caller so its worker
// lifecycle stays owned by main.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	fanout service.FanoutQueue,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("campus"))

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	roles := mongodb.NewRoleRepository(db)
	requests := mongodb.NewAdminRequestRepository(db)
	events := mongodb.NewEventRepository(db)
	clubs := mongodb.NewClubRepository(db)
	follows := mongodb.NewFollowRepository(db)
	saved := mongodb.NewSavedEventRepository(db)
	registrations := mongodb.NewRegistrationRepository(db)
	notifications := mongodb.NewNotificationRepository(db)
	counters := redisdb.NewRegistrationCounter(rdb)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, roles, tokens, cfg.AllowedEmailDomain, cfg.SeedAdminEmail, log)
	requestService := service.NewAdminRequestService(requests, users, log)
	eventService := service.NewEventService(events, clubs, follows, saved, registrations, counters, fanout, log)
	followService := service.NewFollowService(follows, clubs, log)
	userService := service.NewUserService(users, notifications, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	requestHandler := handler.NewAdminRequestHandler(requestService)
	eventHandler := handler.NewEventHandler(eventService)
	followHandler := handler.NewFollowHandler(followService)
	userHandler := handler.NewUserHandler(userService, eventService)

	authenticate := middleware.Authenticate(tokens, users)
	anyUser := middleware.RequireAuth()
	organizer := middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin)
	reviewer := middleware.RequireRoles(domain.RoleSuperAdmin)

	// --- Auth ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	api := e.Group("/api", authenticate)

	// --- Admin-request workflow ---
	requestsGroup := api.Group("/admin-requests")
	requestsGroup.POST("", requestHandler.Submit, middleware.RequireRoles(domain.RoleUser))
	requestsGroup.GET("/pending", requestHandler.Pending, reviewer)
	requestsGroup.PUT("/:id/approve", requestHandler.Approve, reviewer)
	requestsGroup.PUT("/:id/reject", requestHandler.Reject, reviewer)

	// --- Events ---
	eventsGroup := api.Group("/events")
	eventsGroup.GET("", eventHandler.List, anyUser)
	eventsGroup.GET("/feed", eventHandler.Feed, anyUser)
	eventsGroup.GET("/saved", eventHandler.Saved, anyUser)
	eventsGroup.GET("/search", eventHandler.Search) // public
	eventsGroup.GET("/:id", eventHandler.Get, anyUser)
	eventsGroup.POST("", eventHandler.Create, organizer)
	eventsGroup.PUT("/:id", eventHandler.Update, organizer)
	eventsGroup.DELETE("/:id", eventHandler.Delete, organizer)
	eventsGroup.POST("/:id/save", eventHandler.Save, anyUser)
	eventsGroup.DELETE("/:id/unsave", eventHandler.Unsave, anyUser)
	eventsGroup.POST("/:id/register", eventHandler.Register, anyUser)

	// --- Follows & registrations ---
	api.POST("/follow/:clubId", followHandler.Follow, anyUser)
	api.DELETE("/follow/:clubId", followHandler.Unfollow, anyUser)
	api.GET("/registrations/my-events", eventHandler.MyRegisteredEvents, anyUser)

	// --- Profile ---
	usersGroup := api.Group("/users")
	usersGroup.GET("/me", userHandler.Me, anyUser)
	usersGroup.PUT("/me", userHandler.UpdateMe, anyUser)
	usersGroup.GET("/me/my-events", userHandler.MyPostedEvents, organizer)
	usersGroup.GET("/me/notifications", userHandler.Notifications, anyUser)

	// --- Observability & docs ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
