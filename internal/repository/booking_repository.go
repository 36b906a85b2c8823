package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/model"
)

// BookingFilter ограничивает выборку бронирований областью видимости
// вызывающего: заказчик видит свои, исполнитель свои, админ — все.
type BookingFilter struct {
	CustomerID *uuid.UUID
	ProviderID *uuid.UUID
	Status     model.BookingStatus // пустая строка — без фильтра
}

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	// GetByID без предзагрузки связей — для проверок и мутаций.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// GetResolved подтягивает заказчика, исполнителя и услугу.
	GetResolved(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Сохранить бронирование целиком (read-modify-write; атомарность
	// на уровне записи обеспечивает хранилище, см. DESIGN.md).
	Update(ctx context.Context, b *model.Booking) error
	// Страница бронирований по фильтру, сортировка по дате убыванием.
	List(ctx context.Context, f BookingFilter, limit, offset int) ([]model.Booking, int64, error)
	// Количество бронирований по каждому статусу в области видимости.
	CountByStatus(ctx context.Context, f BookingFilter) (map[model.BookingStatus]int64, error)
	// Все оценки по бронированиям исполнителя с выставленным рейтингом.
	RatingsByProvider(ctx context.Context, providerID uuid.UUID) ([]int, error)
	// Все оценки по бронированиям услуги с выставленным рейтингом.
	RatingsByService(ctx context.Context, serviceID uuid.UUID) ([]int, error)
	Count(ctx context.Context) (int64, error)
	// Суммарная выручка по всем бронированиям (админская статистика).
	TotalRevenue(ctx context.Context) (float64, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetResolved(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Provider").
		Preload("Service").
		First(&b, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) Update(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func applyBookingFilter(q *gorm.DB, f BookingFilter) *gorm.DB {
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func (r *GormBookingRepository) List(
	ctx context.Context,
	f BookingFilter,
	limit, offset int,
) ([]model.Booking, int64, error) {
	q := applyBookingFilter(r.db.WithContext(ctx).Model(&model.Booking{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var bookings []model.Booking
	err := q.Preload("Customer").
		Preload("Provider").
		Preload("Service").
		Order("scheduled_date DESC").
		Find(&bookings).
		Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *GormBookingRepository) CountByStatus(
	ctx context.Context,
	f BookingFilter,
) (map[model.BookingStatus]int64, error) {
	type row struct {
		Status model.BookingStatus
		Cnt    int64
	}

	var rows []row
	q := applyBookingFilter(r.db.WithContext(ctx).Model(&model.Booking{}), f)
	err := q.Select("status, COUNT(*) AS cnt").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.BookingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Cnt
	}
	return counts, nil
}

func (r *GormBookingRepository) RatingsByProvider(ctx context.Context, providerID uuid.UUID) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("provider_id = ? AND rating IS NOT NULL", providerID).
		Pluck("rating", &ratings).
		Error
	return ratings, err
}

func (r *GormBookingRepository) RatingsByService(ctx context.Context, serviceID uuid.UUID) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("service_id = ? AND rating IS NOT NULL", serviceID).
		Pluck("rating", &ratings).
		Error
	return ratings, err
}

func (r *GormBookingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).Count(&total).Error
	return total, err
}

func (r *GormBookingRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Select("SUM(total_amount)").
		Scan(&sum).
		Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}
