package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Статус бронирования. Переходы между статусами описаны в пакете booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusRejected   BookingStatus = "rejected"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected:
		return true
	}
	return false
}

// Статус оплаты. Ядро его не переводит — этим занимается платёжный контур.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// Кто отменил бронирование.
type CancelledBy string

const (
	CancelledByCustomer CancelledBy = "customer"
	CancelledByProvider CancelledBy = "provider"
	CancelledByAdmin    CancelledBy = "admin"
)

// bookings
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_customer_status" json:"customerId"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_provider_status" json:"providerId"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"serviceId"`

	Status BookingStatus `gorm:"type:varchar(32);not null;default:'pending';index:idx_bookings_customer_status;index:idx_bookings_provider_status" json:"status"`

	ScheduledDate time.Time `gorm:"not null;index" json:"scheduledDate"`
	ScheduledTime string    `gorm:"type:varchar(16);not null" json:"scheduledTime"`
	// Длительность в часах, 0.5–24.
	Duration float64 `gorm:"not null" json:"duration"`

	// Фиксируется при создании как цена услуги * длительность
	// и после этого никогда не пересчитывается.
	TotalAmount float64 `gorm:"not null" json:"totalAmount"`

	LocationAddress string                       `gorm:"type:text;not null" json:"locationAddress"`
	Coordinates     datatypes.JSONSlice[float64] `json:"coordinates"`

	Description         string `gorm:"type:varchar(1000)" json:"description,omitempty"`
	SpecialInstructions string `gorm:"type:varchar(500)" json:"specialInstructions,omitempty"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"paymentStatus"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(32);not null;default:'card'" json:"paymentMethod"`

	CancelledBy        CancelledBy `gorm:"type:varchar(16)" json:"cancelledBy,omitempty"`
	CancellationReason string      `gorm:"type:varchar(500)" json:"cancellationReason,omitempty"`

	// Отзыв ставится не более одного раза и только по завершённому бронированию.
	Rating     *int       `json:"rating,omitempty"`
	Review     string     `gorm:"type:varchar(1000)" json:"review,omitempty"`
	ReviewDate *time.Time `json:"reviewDate,omitempty"`

	ProviderResponse     string     `gorm:"type:varchar(1000)" json:"providerResponse,omitempty"`
	ProviderResponseDate *time.Time `json:"providerResponseDate,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	Customer *User    `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	Provider *User    `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"provider,omitempty"`
	Service  *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"service,omitempty"`
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CanBeCancelled — консультативный предикат: можно ли ещё отменить без санкций.
// Группировка условий намеренно повторяет исходную систему:
// pending || (confirmed && до начала больше 24 часов).
func (b *Booking) CanBeCancelled(now time.Time) bool {
	hoursLeft := b.ScheduledDate.Sub(now).Hours()
	return b.Status == BookingStatusPending ||
		b.Status == BookingStatusConfirmed && hoursLeft > 24
}

// HasReview сообщает, оставлен ли уже отзыв.
func (b *Booking) HasReview() bool {
	return b.Rating != nil
}
