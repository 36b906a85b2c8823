package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/service"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	_, role := caller(c)
	stats, err := h.admin.Stats(c.Request.Context(), role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/users?role=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	_, role := caller(c)
	users, err := h.admin.ListUsers(c.Request.Context(), role, model.Role(c.Query("role")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PUT /api/admin/users/:id/status
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid user id"))
		return
	}
	var in struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	_, role := caller(c)
	if err := h.admin.SetUserActive(c.Request.Context(), role, id, *in.IsActive); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user status updated"})
}

// GET /api/admin/services
func (h *AdminHandler) ListServices(c *gin.Context) {
	_, role := caller(c)
	services, err := h.admin.ListServices(c.Request.Context(), role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// PUT /api/admin/services/:id/status
func (h *AdminHandler) SetServiceActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid service id"))
		return
	}
	var in struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	_, role := caller(c)
	if err := h.admin.SetServiceActive(c.Request.Context(), role, id, *in.IsActive); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service status updated"})
}

// GET /api/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	_, role := caller(c)
	bookings, err := h.admin.ListBookings(c.Request.Context(), role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
