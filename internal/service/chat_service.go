package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/events"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

// ChatService — чаты между пользователями и чат поддержки.
// Доставка в реальном времени — забота внешнего pub/sub-канала,
// сюда сообщения только пишутся и публикуются best-effort.
type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	pub      EventPublisher
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, pub EventPublisher) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo, pub: pub}
}

// OpenChat возвращает существующий чат с участником или создаёт новый.
func (s *ChatService) OpenChat(
	ctx context.Context,
	callerID, participantID uuid.UUID,
	chatType model.ChatType,
	bookingID *uuid.UUID,
) (*model.Chat, error) {
	if chatType == "" {
		chatType = model.ChatTypeDirect
	}
	if !chatType.Valid() {
		return nil, apperr.Validation("unknown chat type %q", chatType)
	}
	if callerID == participantID {
		return nil, apperr.Validation("cannot open a chat with yourself")
	}

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("load caller", err)
	}
	participant, err := s.userRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("participant not found")
		}
		return nil, apperr.Internal("load participant", err)
	}

	chat, err := s.chatRepo.FindByParticipants(ctx, callerID, participantID, chatType)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("find chat", err)
	}

	chat = &model.Chat{ChatType: chatType, BookingID: bookingID, IsActive: true}
	if err := s.chatRepo.Create(ctx, chat, []model.User{*caller, *participant}); err != nil {
		return nil, apperr.Internal("create chat", err)
	}
	return chat, nil
}

// ListChats — активные чаты пользователя, свежие сверху.
func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	chats, err := s.chatRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list chats", err)
	}
	return chats, nil
}

// GetChat возвращает чат с историей и помечает чужие сообщения прочитанными.
// Чат, где вызывающий не участник, неотличим от несуществующего.
func (s *ChatService) GetChat(ctx context.Context, callerID, chatID uuid.UUID) (*model.Chat, error) {
	chat, err := s.loadMemberChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.chatRepo.MarkRead(ctx, chatID, callerID, time.Now().UTC()); err != nil {
		return nil, apperr.Internal("mark read", err)
	}
	return chat, nil
}

// SendMessage добавляет сообщение в чат вызывающего.
func (s *ChatService) SendMessage(
	ctx context.Context,
	callerID, chatID uuid.UUID,
	content string,
	msgType model.MessageType,
) (*model.Message, error) {
	if content == "" {
		return nil, apperr.Validation("message content is required")
	}
	if len(content) > 2000 {
		return nil, apperr.Validation("message content must be at most 2000 characters")
	}
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if !msgType.Valid() {
		return nil, apperr.Validation("unknown message type %q", msgType)
	}

	if _, err := s.loadMemberChat(ctx, callerID, chatID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ChatID:      chatID,
		SenderID:    callerID,
		Content:     content,
		MessageType: msgType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.chatRepo.AddMessage(ctx, msg); err != nil {
		return nil, apperr.Internal("add message", err)
	}

	// Шина недоступна — сообщение всё равно сохранено.
	s.publish(ctx, events.KeyChatMessage, events.ChatMessage{
		ChatID:    chatID,
		MessageID: msg.ID,
		SenderID:  callerID,
		SentAt:    msg.CreatedAt,
	})

	return msg, nil
}

// OpenSupportChat находит или создаёт чат поддержки с первым активным
// админом и кладёт туда первое сообщение.
func (s *ChatService) OpenSupportChat(ctx context.Context, callerID uuid.UUID, message string) (*model.Chat, error) {
	if message == "" {
		return nil, apperr.Validation("message is required")
	}

	admin, err := s.userRepo.FirstActiveAdmin(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no admin available")
		}
		return nil, apperr.Internal("find admin", err)
	}

	chat, err := s.OpenChat(ctx, callerID, admin.ID, model.ChatTypeSupport, nil)
	if err != nil {
		return nil, err
	}
	if _, err := s.SendMessage(ctx, callerID, chat.ID, message, model.MessageTypeText); err != nil {
		return nil, err
	}
	return s.chatRepo.GetByID(ctx, chat.ID)
}

func (s *ChatService) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishJSON(ctx, key, v); err != nil {
		log.Printf("publish %s: %v", key, err)
	}
}

func (s *ChatService) loadMemberChat(ctx context.Context, callerID, chatID uuid.UUID) (*model.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("chat not found")
		}
		return nil, apperr.Internal("load chat", err)
	}
	if !chat.HasParticipant(callerID) {
		return nil, apperr.NotFound("chat not found")
	}
	return chat, nil
}
