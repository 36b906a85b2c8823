// Package http — тонкий HTTP-слой над сервисами ядра:
// биндинг запроса, вызов сервиса, отображение ошибки.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixlink/marketplace-core/internal/auth"
	"github.com/fixlink/marketplace-core/internal/model"
)

type Handlers struct {
	Identity *IdentityHandler
	Booking  *BookingHandler
	Catalog  *CatalogHandler
	Chat     *ChatHandler
	Admin    *AdminHandler
}

// NewRouter собирает все маршруты API.
func NewRouter(tokens *auth.TokenIssuer, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "FixLink API is running...")
	})

	api := r.Group("/api")

	// Публичные маршруты.
	api.POST("/auth/register", h.Identity.Register)
	api.POST("/auth/login", h.Identity.Login)
	api.GET("/services", h.Catalog.List)
	api.GET("/services/categories", h.Catalog.Categories)
	api.GET("/services/provider/:providerId", h.Catalog.ListByProvider)
	api.GET("/services/:id", h.Catalog.Get)
	api.GET("/users/providers", h.Identity.ListProviders)
	api.GET("/users/providers/:id", h.Identity.GetProvider)
	api.POST("/chat/bot", h.Chat.Bot)

	// Всё остальное — только с токеном.
	authed := api.Group("", JWTAuth(tokens))

	authed.GET("/users/profile", h.Identity.GetProfile)
	authed.PUT("/users/profile", h.Identity.UpdateProfile)
	authed.GET("/users/favorites", h.Identity.ListFavorites)
	authed.POST("/users/favorites/:providerId", h.Identity.AddFavorite)
	authed.DELETE("/users/favorites/:providerId", h.Identity.RemoveFavorite)

	authed.POST("/bookings", h.Booking.Create)
	authed.GET("/bookings", h.Booking.List)
	authed.GET("/bookings/stats", h.Booking.Stats)
	authed.GET("/bookings/:id", h.Booking.Get)
	authed.PUT("/bookings/:id/status", h.Booking.UpdateStatus)
	authed.POST("/bookings/:id/review", h.Booking.AddReview)

	authed.POST("/services", h.Catalog.Create)
	authed.GET("/services/my-services", h.Catalog.ListMine)
	authed.PUT("/services/:id", h.Catalog.Update)
	authed.PUT("/services/:id/status", h.Catalog.SetActive)

	authed.POST("/chat", h.Chat.Open)
	authed.GET("/chat", h.Chat.List)
	authed.GET("/chat/:id", h.Chat.Get)
	authed.POST("/chat/:id/messages", h.Chat.SendMessage)
	authed.POST("/chat/support", h.Chat.OpenSupport)
	authed.PUT("/chat/:id/read", h.Chat.MarkRead)

	// Роль проверяется и на транспорте, и в сервисах.
	admin := authed.Group("/admin", RequireRole(model.RoleAdmin))
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/status", h.Admin.SetUserActive)
	admin.GET("/services", h.Admin.ListServices)
	admin.PUT("/services/:id/status", h.Admin.SetServiceActive)
	admin.GET("/bookings", h.Admin.ListBookings)

	return r
}
