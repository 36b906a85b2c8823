package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/service"
)

type IdentityHandler struct {
	identity *service.IdentityService
}

func NewIdentityHandler(identity *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// POST /api/auth/register
func (h *IdentityHandler) Register(c *gin.Context) {
	var in struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		Role      string `json:"role" binding:"required"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	u, token, err := h.identity.Register(c.Request.Context(), service.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Role:      model.Role(in.Role),
		Phone:     in.Phone,
		Address:   in.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

// POST /api/auth/login
func (h *IdentityHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	u, token, err := h.identity.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// GET /api/users/profile
func (h *IdentityHandler) GetProfile(c *gin.Context) {
	callerID, _ := caller(c)
	u, err := h.identity.GetProfile(c.Request.Context(), callerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PUT /api/users/profile
func (h *IdentityHandler) UpdateProfile(c *gin.Context) {
	var in struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
		Bio       *string `json:"bio"`
		Address   *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	callerID, _ := caller(c)
	u, err := h.identity.UpdateProfile(c.Request.Context(), callerID, service.UpdateProfileInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Bio:       in.Bio,
		Address:   in.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully", "user": u})
}

// GET /api/users/providers?minRating=
func (h *IdentityHandler) ListProviders(c *gin.Context) {
	minRating, _ := strconv.ParseFloat(c.DefaultQuery("minRating", "0"), 64)

	providers, err := h.identity.ListProviders(c.Request.Context(), minRating)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// GET /api/users/providers/:id — публичная карточка исполнителя.
func (h *IdentityHandler) GetProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid provider id"))
		return
	}
	provider, err := h.identity.GetProvider(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// GET /api/users/favorites
func (h *IdentityHandler) ListFavorites(c *gin.Context) {
	callerID, _ := caller(c)
	favorites, err := h.identity.ListFavorites(c.Request.Context(), callerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// POST /api/users/favorites/:providerId
func (h *IdentityHandler) AddFavorite(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		fail(c, apperr.Validation("invalid provider id"))
		return
	}

	callerID, _ := caller(c)
	u, err := h.identity.AddFavorite(c.Request.Context(), callerID, providerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "provider added to favorites", "favorites": u.Favorites})
}

// DELETE /api/users/favorites/:providerId
func (h *IdentityHandler) RemoveFavorite(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		fail(c, apperr.Validation("invalid provider id"))
		return
	}

	callerID, _ := caller(c)
	u, err := h.identity.RemoveFavorite(c.Request.Context(), callerID, providerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "provider removed from favorites", "favorites": u.Favorites})
}
