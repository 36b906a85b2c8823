package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Категория услуги.
type ServiceCategory string

const (
	CategoryPlumbing   ServiceCategory = "plumbing"
	CategoryElectrical ServiceCategory = "electrical"
	CategoryCleaning   ServiceCategory = "cleaning"
	CategoryGardening  ServiceCategory = "gardening"
	CategoryPainting   ServiceCategory = "painting"
	CategoryCarpentry  ServiceCategory = "carpentry"
	CategoryOther      ServiceCategory = "other"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryCleaning,
		CategoryGardening, CategoryPainting, CategoryCarpentry, CategoryOther:
		return true
	}
	return false
}

// Тип ценообразования услуги.
type PriceType string

const (
	PriceHourly PriceType = "hourly"
	PriceFixed  PriceType = "fixed"
	PriceDaily  PriceType = "daily"
)

func (p PriceType) Valid() bool {
	switch p {
	case PriceHourly, PriceFixed, PriceDaily:
		return true
	}
	return false
}

// DayAvailability — рабочее окно на один день недели.
type DayAvailability struct {
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Available bool   `json:"available"`
}

// WeeklyAvailability — недельный график провайдера по услуге.
// Хранится на записи, но при создании бронирования НЕ проверяется:
// так ведёт себя исходная система, менять без продуктового решения нельзя.
type WeeklyAvailability struct {
	Monday    DayAvailability `json:"monday"`
	Tuesday   DayAvailability `json:"tuesday"`
	Wednesday DayAvailability `json:"wednesday"`
	Thursday  DayAvailability `json:"thursday"`
	Friday    DayAvailability `json:"friday"`
	Saturday  DayAvailability `json:"saturday"`
	Sunday    DayAvailability `json:"sunday"`
}

// DefaultAvailability — все дни открыты, часы не заданы.
func DefaultAvailability() WeeklyAvailability {
	d := DayAvailability{Available: true}
	return WeeklyAvailability{
		Monday: d, Tuesday: d, Wednesday: d, Thursday: d,
		Friday: d, Saturday: d, Sunday: d,
	}
}

// services
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"providerId"`

	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Category    ServiceCategory `gorm:"type:varchar(32);not null;index" json:"category"`
	Description string          `gorm:"type:varchar(1000);not null" json:"description"`

	Price     float64   `gorm:"not null" json:"price"`
	PriceType PriceType `gorm:"type:varchar(16);not null;default:'hourly'" json:"priceType"`

	Images datatypes.JSONSlice[string] `json:"images,omitempty"`

	IsActive bool `gorm:"not null;default:true;index" json:"isActive"`

	// Производный агрегат, как у провайдера.
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	TotalReviews int     `gorm:"not null;default:0" json:"totalReviews"`

	// Пара [lng, lat].
	Coordinates datatypes.JSONSlice[float64] `json:"coordinates"`
	// Радиус обслуживания в километрах.
	ServiceArea float64 `gorm:"not null;default:10" json:"serviceArea"`

	Availability datatypes.JSONType[WeeklyAvailability] `json:"availability"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	Provider *User `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"provider,omitempty"`
}

func (s *Service) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
