package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
	"github.com/fixlink/marketplace-core/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// POST /api/services
func (h *CatalogHandler) Create(c *gin.Context) {
	var in struct {
		Name        string    `json:"name" binding:"required"`
		Category    string    `json:"category" binding:"required"`
		Description string    `json:"description" binding:"required"`
		Price       float64   `json:"price"`
		PriceType   string    `json:"priceType"`
		Images      []string  `json:"images"`
		Coordinates []float64 `json:"coordinates" binding:"required"`
		ServiceArea float64   `json:"serviceArea"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	callerID, role := caller(c)
	svc, err := h.catalog.CreateService(c.Request.Context(), callerID, role, service.CreateServiceInput{
		Name:        in.Name,
		Category:    model.ServiceCategory(in.Category),
		Description: in.Description,
		Price:       in.Price,
		PriceType:   model.PriceType(in.PriceType),
		Images:      in.Images,
		Coordinates: in.Coordinates,
		ServiceArea: in.ServiceArea,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "service created successfully", "service": svc})
}

// GET /api/services — публичный каталог.
func (h *CatalogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	f := repository.ServiceFilter{
		Search:   c.Query("search"),
		Category: model.ServiceCategory(c.Query("category")),
	}
	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.Query("rating"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = &r
		}
	}

	result, err := h.catalog.List(c.Request.Context(), f, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/services/categories — закрытый список категорий.
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// GET /api/services/provider/:providerId — активные услуги исполнителя.
func (h *CatalogHandler) ListByProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		fail(c, apperr.Validation("invalid provider id"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	result, err := h.catalog.ListByProvider(c.Request.Context(), providerID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/services/my-services — свои услуги, включая выключенные.
func (h *CatalogHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	callerID, role := caller(c)
	result, err := h.catalog.ListOwn(c.Request.Context(), callerID, role, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/services/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid service id"))
		return
	}
	svc, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// PUT /api/services/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid service id"))
		return
	}

	var in struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		PriceType   *string  `json:"priceType"`
		Images      []string `json:"images"`
		ServiceArea *float64 `json:"serviceArea"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	var priceType *model.PriceType
	if in.PriceType != nil {
		pt := model.PriceType(*in.PriceType)
		priceType = &pt
	}

	callerID, role := caller(c)
	svc, err := h.catalog.UpdateService(c.Request.Context(), callerID, role, id, service.UpdateServiceInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		PriceType:   priceType,
		Images:      in.Images,
		ServiceArea: in.ServiceArea,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service updated successfully", "service": svc})
}

// PUT /api/services/:id/status
func (h *CatalogHandler) SetActive(c *gin.Context) {
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

	callerID, role := caller(c)
	svc, err := h.catalog.SetActive(c.Request.Context(), callerID, role, id, *in.IsActive)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}
