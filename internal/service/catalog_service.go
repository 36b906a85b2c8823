package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/access"
	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/booking"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

// CatalogService — каталог услуг: CRUD провайдера и публичный поиск.
type CatalogService struct {
	serviceRepo repository.ServiceRepository
}

func NewCatalogService(serviceRepo repository.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

type CreateServiceInput struct {
	Name        string
	Category    model.ServiceCategory
	Description string
	Price       float64
	PriceType   model.PriceType
	Images      []string
	Coordinates []float64
	ServiceArea float64
}

// CreateService публикует услугу от имени провайдера.
func (s *CatalogService) CreateService(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	in CreateServiceInput,
) (*model.Service, error) {
	if !access.HasRole(role, model.RoleProvider, model.RoleAdmin) {
		return nil, apperr.Forbidden("only providers can create services")
	}

	if in.Name == "" {
		return nil, apperr.Validation("service name is required")
	}
	if !in.Category.Valid() {
		return nil, apperr.Validation("unknown service category %q", in.Category)
	}
	if in.Description == "" {
		return nil, apperr.Validation("description is required")
	}
	if err := booking.ValidateTextLen("description", in.Description, booking.MaxDescriptionLen); err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if in.PriceType == "" {
		in.PriceType = model.PriceHourly
	}
	if !in.PriceType.Valid() {
		return nil, apperr.Validation("unknown price type %q", in.PriceType)
	}
	if err := booking.ValidateCoordinates(in.Coordinates); err != nil {
		return nil, err
	}
	if in.ServiceArea <= 0 {
		in.ServiceArea = 10
	}

	svc := &model.Service{
		ProviderID:   callerID,
		Name:         in.Name,
		Category:     in.Category,
		Description:  in.Description,
		Price:        in.Price,
		PriceType:    in.PriceType,
		Images:       datatypes.NewJSONSlice(in.Images),
		IsActive:     true,
		Coordinates:  datatypes.NewJSONSlice(in.Coordinates),
		ServiceArea:  in.ServiceArea,
		Availability: datatypes.NewJSONType(model.DefaultAvailability()),
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, apperr.Internal("create service", err)
	}
	return svc, nil
}

type UpdateServiceInput struct {
	Name        *string
	Description *string
	Price       *float64
	PriceType   *model.PriceType
	Images      []string
	ServiceArea *float64
}

// UpdateService меняет услугу; разрешено владельцу и админу.
func (s *CatalogService) UpdateService(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	serviceID uuid.UUID,
	in UpdateServiceInput,
) (*model.Service, error) {
	svc, err := s.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != callerID && role != model.RoleAdmin {
		return nil, apperr.Forbidden("not authorized to update this service")
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("service name must not be empty")
		}
		svc.Name = *in.Name
	}
	if in.Description != nil {
		if err := booking.ValidateTextLen("description", *in.Description, booking.MaxDescriptionLen); err != nil {
			return nil, err
		}
		svc.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		svc.Price = *in.Price
	}
	if in.PriceType != nil {
		if !in.PriceType.Valid() {
			return nil, apperr.Validation("unknown price type %q", *in.PriceType)
		}
		svc.PriceType = *in.PriceType
	}
	if in.Images != nil {
		svc.Images = datatypes.NewJSONSlice(in.Images)
	}
	if in.ServiceArea != nil && *in.ServiceArea > 0 {
		svc.ServiceArea = *in.ServiceArea
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return nil, apperr.Internal("update service", err)
	}
	return svc, nil
}

// SetActive включает/выключает услугу; разрешено владельцу и админу.
func (s *CatalogService) SetActive(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	serviceID uuid.UUID,
	active bool,
) (*model.Service, error) {
	svc, err := s.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != callerID && role != model.RoleAdmin {
		return nil, apperr.Forbidden("not authorized to update this service")
	}

	if err := s.serviceRepo.SetActive(ctx, serviceID, active); err != nil {
		return nil, apperr.Internal("set service active", err)
	}
	svc.IsActive = active
	return svc, nil
}

// GetByID возвращает услугу вместе с провайдером.
func (s *CatalogService) GetByID(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, apperr.Internal("load service", err)
	}
	return svc, nil
}

// Categories — закрытый список категорий каталога.
func (s *CatalogService) Categories() []model.ServiceCategory {
	return []model.ServiceCategory{
		model.CategoryPlumbing,
		model.CategoryElectrical,
		model.CategoryCleaning,
		model.CategoryGardening,
		model.CategoryPainting,
		model.CategoryCarpentry,
		model.CategoryOther,
	}
}

// ListByProvider — публичные (активные) услуги конкретного исполнителя.
func (s *CatalogService) ListByProvider(
	ctx context.Context,
	providerID uuid.UUID,
	page, pageSize int,
) (booking.Page[model.Service], error) {
	return s.List(ctx, repository.ServiceFilter{ProviderID: &providerID}, page, pageSize)
}

// ListOwn — услуги самого провайдера, включая выключенные.
func (s *CatalogService) ListOwn(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	page, pageSize int,
) (booking.Page[model.Service], error) {
	var zero booking.Page[model.Service]

	if !access.HasRole(role, model.RoleProvider, model.RoleAdmin) {
		return zero, apperr.Forbidden("only providers have their own services")
	}

	f := repository.ServiceFilter{ProviderID: &callerID, IncludeInactive: true}
	page, pageSize, offset := booking.NormalizePage(page, pageSize)
	items, total, err := s.serviceRepo.List(ctx, f, pageSize, offset)
	if err != nil {
		return zero, apperr.Internal("list own services", err)
	}
	return booking.NewPage(items, page, pageSize, total), nil
}

// List — публичный каталог с фильтрами и пагинацией.
func (s *CatalogService) List(
	ctx context.Context,
	f repository.ServiceFilter,
	page, pageSize int,
) (booking.Page[model.Service], error) {
	var zero booking.Page[model.Service]

	if f.Category != "" && !f.Category.Valid() {
		return zero, apperr.Validation("unknown service category %q", f.Category)
	}
	// Публичная выборка не видит выключенные услуги.
	f.IncludeInactive = false

	page, pageSize, offset := booking.NormalizePage(page, pageSize)
	items, total, err := s.serviceRepo.List(ctx, f, pageSize, offset)
	if err != nil {
		return zero, apperr.Internal("list services", err)
	}
	return booking.NewPage(items, page, pageSize, total), nil
}
