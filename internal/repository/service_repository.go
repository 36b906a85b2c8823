package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/model"
)

// ServiceFilter — фильтры публичного каталога.
type ServiceFilter struct {
	Search     string // подстрока в имени/описании/категории
	Category   model.ServiceCategory
	ProviderID *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	// Неактивные записи видны только админским выборкам.
	IncludeInactive bool
}

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	// GetByID подтягивает провайдера услуги.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	Update(ctx context.Context, svc *model.Service) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetRating(ctx context.Context, id uuid.UUID, mean float64, count int) error
	// Каталог с фильтрами и пагинацией, сортировка по рейтингу.
	List(ctx context.Context, f ServiceFilter, limit, offset int) ([]model.Service, int64, error)
	Count(ctx context.Context) (int64, error)
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).
		Preload("Provider").
		First(&s, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormServiceRepository) Update(ctx context.Context, svc *model.Service) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *GormServiceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Update("is_active", active).
		Error
}

func (r *GormServiceRepository) SetRating(ctx context.Context, id uuid.UUID, mean float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":        mean,
			"total_reviews": count,
		}).
		Error
}

func (r *GormServiceRepository) List(
	ctx context.Context,
	f ServiceFilter,
	limit, offset int,
) ([]model.Service, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Service{})

	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ? OR category LIKE ?", like, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var services []model.Service
	err := q.Preload("Provider").
		Order("rating DESC, total_reviews DESC").
		Find(&services).
		Error
	if err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

func (r *GormServiceRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Service{}).Count(&total).Error
	return total, err
}
