package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип чата.
type ChatType string

const (
	ChatTypeDirect  ChatType = "direct"
	ChatTypeBooking ChatType = "booking"
	ChatTypeSupport ChatType = "support"
)

func (t ChatType) Valid() bool {
	switch t {
	case ChatTypeDirect, ChatTypeBooking, ChatTypeSupport:
		return true
	}
	return false
}

// Тип сообщения.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeSystem:
		return true
	}
	return false
}

// chats
type Chat struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ChatType  ChatType   `gorm:"type:varchar(16);not null;default:'direct'" json:"chatType"`
	BookingID *uuid.UUID `gorm:"type:uuid;index" json:"bookingId,omitempty"`

	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	LastMessageAt time.Time `gorm:"not null;index" json:"lastMessageAt"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	Participants []User    `gorm:"many2many:chat_participants;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []Message `gorm:"foreignKey:ChatID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"messages,omitempty"`
	Booking      *Booking  `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (c *Chat) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.LastMessageAt.IsZero() {
		c.LastMessageAt = time.Now().UTC()
	}
	return nil
}

// HasParticipant проверяет членство пользователя в чате.
// Участники должны быть предзагружены.
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// messages
type Message struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ChatID   uuid.UUID `gorm:"type:uuid;not null;index" json:"chatId"`
	SenderID uuid.UUID `gorm:"type:uuid;not null;index" json:"senderId"`

	Content     string      `gorm:"type:varchar(2000);not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(16);not null;default:'text'" json:"messageType"`

	IsRead bool       `gorm:"not null;default:false" json:"isRead"`
	ReadAt *time.Time `json:"readAt,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
