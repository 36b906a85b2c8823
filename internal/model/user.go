package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Роль пользователя в системе. Закрытый набор значений.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid сообщает, входит ли роль в закрытый набор.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FirstName string `gorm:"type:varchar(255);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(255);not null" json:"lastName"`
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	// Хэш bcrypt, наружу не отдаём.
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	Role Role `gorm:"type:varchar(32);not null;index" json:"role"`

	Phone        string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	Bio          string `gorm:"type:varchar(500)" json:"bio,omitempty"`
	ProfileImage string `gorm:"type:text" json:"profileImage,omitempty"`

	IsActive bool `gorm:"not null;default:true;index" json:"isActive"`

	// Избранные исполнители, хранятся списком ID прямо на записи.
	Favorites datatypes.JSONSlice[uuid.UUID] `json:"favorites,omitempty"`

	// Производный агрегат: средняя оценка по бронированиям с отзывом.
	// Пересчитывается при добавлении отзыва, отдельно не редактируется.
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	TotalReviews int     `gorm:"not null;default:0" json:"totalReviews"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate выдаёт uuid на стороне приложения,
// чтобы одни и те же модели мигрировали и на postgres, и на sqlite.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName — отображаемое имя для выдачи и сообщений.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasFavorite сообщает, есть ли исполнитель в избранном пользователя.
func (u *User) HasFavorite(providerID uuid.UUID) bool {
	for _, id := range u.Favorites {
		if id == providerID {
			return true
		}
	}
	return false
}
