package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/stando/backend/internal/config"
	"github.com/stando/backend/internal/db"
	"github.com/stando/backend/internal/geocode"
	"github.com/stando/backend/internal/http/handlers"
	"github.com/stando/backend/internal/http/middleware"

	_ "github.com/stando/backend/docs"
)

func Router(cfg config.Config, store *db.Store, searcher geocode.Searcher, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Searcher:  searcher,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")

	bookings := api.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/user/:userId", h.ListBookingsByUser)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", h.UpdateBookingStatus)
		bookings.PATCH("/:id/accept", h.AcceptBooking)
		bookings.PATCH("/:id/verify", h.VerifyBookingLocation)
		bookings.PATCH("/:id/queue", h.UpdateQueueInfo)
	}

	agents := api.Group("/agents")
	{
		agents.GET("", h.ListAgents)
		agents.POST("/register", h.RegisterAgent)
		agents.POST("/login", h.LoginAgent)
		agents.POST("/assign", h.AssignAgent)
		agents.PATCH("/:id/location", h.UpdateAgentLocation)
	}

	users := api.Group("/users")
	{
		users.POST("/register", h.RegisterUser)
		users.POST("/login", h.LoginUser)
	}

	chat := api.Group("/chat")
	{
		chat.GET("/:bookingId", h.GetChatMessages)
		chat.POST("/:bookingId", h.PostChatMessage)
	}

	api.GET("/locations/search", h.SearchLocations)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
