package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// Пользователи по списку ID; отсутствующие молча пропускаются.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Обновить профильные поля (имя, телефон, адрес, bio и т.п.).
	Update(ctx context.Context, user *model.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Записать производный агрегат рейтинга.
	SetRating(ctx context.Context, id uuid.UUID, mean float64, count int) error
	// Активные провайдеры с рейтингом не ниже minRating (0 — без фильтра).
	ListProviders(ctx context.Context, minRating float64) ([]model.User, error)
	// Список пользователей, опционально по роли (пустая строка — все).
	List(ctx context.Context, role model.Role) ([]model.User, error)
	// Первый активный админ — адресат чатов поддержки.
	FirstActiveAdmin(ctx context.Context) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}

// Реализация на GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *GormUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", active).
		Error
}

func (r *GormUserRepository) SetRating(ctx context.Context, id uuid.UUID, mean float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":        mean,
			"total_reviews": count,
		}).
		Error
}

func (r *GormUserRepository) ListProviders(ctx context.Context, minRating float64) ([]model.User, error) {
	q := r.db.WithContext(ctx).
		Where("role = ?", model.RoleProvider).
		Where("is_active = ?", true)
	if minRating > 0 {
		q = q.Where("rating >= ?", minRating)
	}

	var providers []model.User
	if err := q.Order("rating DESC").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *GormUserRepository) List(ctx context.Context, role model.Role) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var users []model.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUserRepository) FirstActiveAdmin(ctx context.Context) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", model.RoleAdmin, true).
		Order("created_at ASC").
		First(&u).
		Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}
