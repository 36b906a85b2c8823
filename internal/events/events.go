// Package events описывает события, публикуемые ядром в шину.
// Публикация всегда best-effort: ядро не блокируется на шине
// и не зависит от порядка доставки.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Ключи маршрутизации в topic-exchange.
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingStatusChanged = "booking.status_changed"
	KeyBookingReviewed      = "booking.reviewed"
	KeyChatMessage          = "chat.message"
)

type BookingCreated struct {
	BookingID  uuid.UUID `json:"bookingId"`
	CustomerID uuid.UUID `json:"customerId"`
	ProviderID uuid.UUID `json:"providerId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	Scheduled  time.Time `json:"scheduled"`
	Amount     float64   `json:"amount"`
}

type BookingStatusChanged struct {
	BookingID uuid.UUID `json:"bookingId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

type BookingReviewed struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ProviderID uuid.UUID `json:"providerId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	Rating     int       `json:"rating"`
}

type ChatMessage struct {
	ChatID    uuid.UUID `json:"chatId"`
	MessageID uuid.UUID `json:"messageId"`
	SenderID  uuid.UUID `json:"senderId"`
	SentAt    time.Time `json:"sentAt"`
}
