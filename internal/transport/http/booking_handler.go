package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		ServiceID           string    `json:"serviceId" binding:"required"`
		ScheduledDate       time.Time `json:"scheduledDate" binding:"required"`
		ScheduledTime       string    `json:"scheduledTime" binding:"required"`
		Duration            float64   `json:"duration" binding:"required"`
		LocationAddress     string    `json:"locationAddress" binding:"required"`
		Coordinates         []float64 `json:"coordinates" binding:"required"`
		Description         string    `json:"description"`
		SpecialInstructions string    `json:"specialInstructions"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		fail(c, apperr.Validation("invalid service id"))
		return
	}

	callerID, role := caller(c)
	b, err := h.bookings.Create(c.Request.Context(), callerID, role, service.CreateBookingInput{
		ServiceID:           serviceID,
		ScheduledDate:       in.ScheduledDate,
		ScheduledTime:       in.ScheduledTime,
		Duration:            in.Duration,
		LocationAddress:     in.LocationAddress,
		Coordinates:         in.Coordinates,
		Description:         in.Description,
		SpecialInstructions: in.SpecialInstructions,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "booking created successfully", "booking": b})
}

// GET /api/bookings?status=&page=&pageSize=
func (h *BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	status := model.BookingStatus(c.Query("status"))

	callerID, role := caller(c)
	result, err := h.bookings.List(c.Request.Context(), callerID, role, status, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/bookings/stats
func (h *BookingHandler) Stats(c *gin.Context) {
	callerID, role := caller(c)
	stats, err := h.bookings.Stats(c.Request.Context(), callerID, role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid booking id"))
		return
	}

	callerID, role := caller(c)
	b, err := h.bookings.GetByID(c.Request.Context(), callerID, role, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PUT /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid booking id"))
		return
	}

	var in struct {
		Status             string `json:"status" binding:"required"`
		CancellationReason string `json:"cancellationReason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	callerID, role := caller(c)
	b, err := h.bookings.UpdateStatus(
		c.Request.Context(),
		callerID, role, id,
		model.BookingStatus(in.Status),
		in.CancellationReason,
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking status updated successfully", "booking": b})
}

// POST /api/bookings/:id/review
func (h *BookingHandler) AddReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid booking id"))
		return
	}

	var in struct {
		Rating int    `json:"rating" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	callerID, _ := caller(c)
	b, err := h.bookings.AddReview(c.Request.Context(), callerID, id, in.Rating, in.Review)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review added successfully", "booking": b})
}
