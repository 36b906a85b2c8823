package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

type chatTestEnv struct {
	svc   *ChatService
	db    *gorm.DB
	alice *model.User
	bob   *model.User
	admin *model.User
}

func newChatTestEnv(t *testing.T) *chatTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	alice := &model.User{FirstName: "Alice", LastName: "A", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleCustomer, IsActive: true}
	bob := &model.User{FirstName: "Bob", LastName: "B", Email: "bob@example.com", PasswordHash: "x", Role: model.RoleProvider, IsActive: true}
	admin := &model.User{FirstName: "Root", LastName: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: model.RoleAdmin, IsActive: true}
	for _, u := range []*model.User{alice, bob, admin} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	svc := NewChatService(
		repository.NewGormChatRepository(db),
		repository.NewGormUserRepository(db),
		nil,
	)
	return &chatTestEnv{svc: svc, db: db, alice: alice, bob: bob, admin: admin}
}

func TestOpenChat_FindOrCreate(t *testing.T) {
	env := newChatTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.OpenChat(ctx, env.alice.ID, env.bob.ID, model.ChatTypeDirect, nil)
	if err != nil {
		t.Fatalf("open chat: %v", err)
	}

	// Повторное открытие возвращает тот же чат, в любом порядке участников.
	second, err := env.svc.OpenChat(ctx, env.bob.ID, env.alice.ID, model.ChatTypeDirect, nil)
	if err != nil {
		t.Fatalf("reopen chat: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same chat, got %s and %s", first.ID, second.ID)
	}
}

func TestOpenChat_SelfRejected(t *testing.T) {
	env := newChatTestEnv(t)

	_, err := env.svc.OpenChat(context.Background(), env.alice.ID, env.alice.ID, model.ChatTypeDirect, nil)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	env := newChatTestEnv(t)
	ctx := context.Background()

	chat, err := env.svc.OpenChat(ctx, env.alice.ID, env.bob.ID, model.ChatTypeDirect, nil)
	if err != nil {
		t.Fatalf("open chat: %v", err)
	}

	msg, err := env.svc.SendMessage(ctx, env.alice.ID, chat.ID, "hello bob", model.MessageTypeText)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.SenderID != env.alice.ID || msg.Content != "hello bob" {
		t.Fatalf("unexpected message %+v", msg)
	}

	loaded, err := env.svc.GetChat(ctx, env.bob.ID, chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if len(loaded.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(loaded.Messages))
	}
}

func TestSendMessage_NonMemberLooksMissing(t *testing.T) {
	env := newChatTestEnv(t)
	ctx := context.Background()

	chat, err := env.svc.OpenChat(ctx, env.alice.ID, env.bob.ID, model.ChatTypeDirect, nil)
	if err != nil {
		t.Fatalf("open chat: %v", err)
	}

	// Чужой чат неотличим от несуществующего.
	_, err = env.svc.SendMessage(ctx, env.admin.ID, chat.ID, "hi", model.MessageTypeText)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = env.svc.GetChat(ctx, env.admin.ID, chat.ID)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found on read, got %v", err)
	}
}

func TestGetChat_MarksRead(t *testing.T) {
	env := newChatTestEnv(t)
	ctx := context.Background()

	chat, err := env.svc.OpenChat(ctx, env.alice.ID, env.bob.ID, model.ChatTypeDirect, nil)
	if err != nil {
		t.Fatalf("open chat: %v", err)
	}
	if _, err := env.svc.SendMessage(ctx, env.alice.ID, chat.ID, "ping", model.MessageTypeText); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := env.svc.GetChat(ctx, env.bob.ID, chat.ID); err != nil {
		t.Fatalf("get chat: %v", err)
	}

	var msg model.Message
	if err := env.db.First(&msg, "chat_id = ?", chat.ID).Error; err != nil {
		t.Fatalf("load message: %v", err)
	}
	if !msg.IsRead || msg.ReadAt == nil {
		t.Fatalf("expected message to be marked read")
	}
}

type failingBus struct{}

func (failingBus) PublishJSON(ctx context.Context, key string, v any) error {
	return errors.New("bus down")
}

func TestSendMessage_BusFailureDoesNotBlock(t *testing.T) {
	env := newChatTestEnv(t)
	env.svc.pub = failingBus{}
	ctx := context.Background()

	chat, err := env.svc.OpenChat(ctx, env.alice.ID, env.bob.ID, model.ChatTypeDirect, nil)
	if err != nil {
		t.Fatalf("open chat: %v", err)
	}

	// Сбой шины не мешает сохранению сообщения.
	msg, err := env.svc.SendMessage(ctx, env.alice.ID, chat.ID, "still delivered", model.MessageTypeText)
	if err != nil {
		t.Fatalf("send with failing bus: %v", err)
	}

	var saved model.Message
	if err := env.db.First(&saved, "id = ?", msg.ID).Error; err != nil {
		t.Fatalf("expected message to be persisted: %v", err)
	}
}

func TestOpenSupportChat(t *testing.T) {
	env := newChatTestEnv(t)

	chat, err := env.svc.OpenSupportChat(context.Background(), env.alice.ID, "I need help with my booking")
	if err != nil {
		t.Fatalf("open support chat: %v", err)
	}
	if chat.ChatType != model.ChatTypeSupport {
		t.Fatalf("expected support chat, got %s", chat.ChatType)
	}
	if !chat.HasParticipant(env.admin.ID) {
		t.Fatalf("expected an admin in the support chat")
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("expected the opening message, got %d", len(chat.Messages))
	}
}

func TestOpenSupportChat_NoAdmin(t *testing.T) {
	env := newChatTestEnv(t)

	if err := env.db.Model(env.admin).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate admin: %v", err)
	}

	_, err := env.svc.OpenSupportChat(context.Background(), env.alice.ID, "help")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
