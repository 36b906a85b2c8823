package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/model"
)

type ChatRepository interface {
	// Создать чат вместе с участниками.
	Create(ctx context.Context, chat *model.Chat, participants []model.User) error
	// Найти существующий чат двух участников заданного типа.
	FindByParticipants(ctx context.Context, a, b uuid.UUID, chatType model.ChatType) (*model.Chat, error)
	// Чат по ID с участниками, сообщениями и отправителями.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Chat, error)
	// Активные чаты пользователя, свежие сверху.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Chat, error)
	// Добавить сообщение и сдвинуть last_message_at.
	AddMessage(ctx context.Context, msg *model.Message) error
	// Пометить прочитанными все чужие сообщения в чате.
	MarkRead(ctx context.Context, chatID, readerID uuid.UUID, at time.Time) error
}

type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Create(ctx context.Context, chat *model.Chat, participants []model.User) error {
	chat.Participants = participants
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *GormChatRepository) FindByParticipants(
	ctx context.Context,
	a, b uuid.UUID,
	chatType model.ChatType,
) (*model.Chat, error) {
	// Чат, в котором состоят оба пользователя.
	var chat model.Chat
	err := r.db.WithContext(ctx).
		Where("chat_type = ?", chatType).
		Where("id IN (?)",
			r.db.Table("chat_participants").
				Select("chat_id").
				Where("user_id IN ?", []uuid.UUID{a, b}).
				Group("chat_id").
				Having("COUNT(DISTINCT user_id) = 2"),
		).
		Preload("Participants").
		First(&chat).
		Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *GormChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Preload("Messages.Sender").
		First(&chat, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *GormChatRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id IN (?)",
			r.db.Table("chat_participants").
				Select("chat_id").
				Where("user_id = ?", userID),
		).
		Preload("Participants").
		Order("last_message_at DESC").
		Find(&chats).
		Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *GormChatRepository) AddMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Chat{}).
			Where("id = ?", msg.ChatID).
			Update("last_message_at", msg.CreatedAt).
			Error
	})
}

func (r *GormChatRepository) MarkRead(ctx context.Context, chatID, readerID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": at,
		}).
		Error
}
