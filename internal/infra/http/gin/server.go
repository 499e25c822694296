package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"seaberth/internal/infra/config"
	"seaberth/internal/infra/obs"
)

type BoatHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Register(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	InstantBook(c *gin.Context)
	Cancel(c *gin.Context)
}

type ReviewsHTTP interface {
	Submit(c *gin.Context)
	ListByBoat(c *gin.Context)
	MarkHelpful(c *gin.Context)
	Delete(c *gin.Context)
}

type FavoritesHTTP interface {
	Add(c *gin.Context)
	Remove(c *gin.Context)
	List(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
	DeleteAccount(c *gin.Context)
}

type AdminHTTP interface {
	ListBookings(c *gin.Context)
	SetBookingStatus(c *gin.Context)
	SweepBookings(c *gin.Context)
	DeleteUser(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Boats          BoatHTTP
	Booking        BookingHTTP
	Reviews        ReviewsHTTP
	Favorites      FavoritesHTTP
	Me             MeHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Boats != nil {
		api.GET("/boats", h.Boats.Catalog)
		api.POST("/boats", h.Boats.Register)
		api.GET("/boats/:id", h.Boats.Get)
		api.POST("/boats/:id/photo", h.Boats.UploadPhoto)
	}
	if h.Reviews != nil {
		api.GET("/boats/:id/reviews", h.Reviews.ListByBoat)
		api.POST("/boats/:id/reviews", h.Reviews.Submit)
		api.POST("/reviews/:id/helpful", h.Reviews.MarkHelpful)
		api.DELETE("/reviews/:id", h.Reviews.Delete)
	}
	if h.Favorites != nil {
		api.POST("/boats/:id/favorite", h.Favorites.Add)
		api.DELETE("/boats/:id/favorite", h.Favorites.Remove)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/instant", h.Booking.InstantBook)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
		meGroup.DELETE("", h.Me.DeleteAccount)
		if h.Favorites != nil {
			meGroup.GET("/favorites", h.Favorites.List)
		}
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/bookings", h.Admin.ListBookings)
		adminGroup.PUT("/bookings/:id/status", h.Admin.SetBookingStatus)
		adminGroup.POST("/bookings/sweep", h.Admin.SweepBookings)
		adminGroup.DELETE("/users/:id", h.Admin.DeleteUser)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
