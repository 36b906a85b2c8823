package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/service"
)

type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// POST /api/chat
func (h *ChatHandler) Open(c *gin.Context) {
	var in struct {
		ParticipantID string `json:"participantId" binding:"required"`
		ChatType      string `json:"chatType"`
		BookingID     string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	participantID, err := uuid.Parse(in.ParticipantID)
	if err != nil {
		fail(c, apperr.Validation("invalid participant id"))
		return
	}
	var bookingID *uuid.UUID
	if in.BookingID != "" {
		id, err := uuid.Parse(in.BookingID)
		if err != nil {
			fail(c, apperr.Validation("invalid booking id"))
			return
		}
		bookingID = &id
	}

	callerID, _ := caller(c)
	chat, err := h.chats.OpenChat(c.Request.Context(), callerID, participantID, model.ChatType(in.ChatType), bookingID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// GET /api/chat
func (h *ChatHandler) List(c *gin.Context) {
	callerID, _ := caller(c)
	chats, err := h.chats.ListChats(c.Request.Context(), callerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GET /api/chat/:id
func (h *ChatHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid chat id"))
		return
	}

	callerID, _ := caller(c)
	chat, err := h.chats.GetChat(c.Request.Context(), callerID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// POST /api/chat/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid chat id"))
		return
	}

	var in struct {
		Content     string `json:"content" binding:"required"`
		MessageType string `json:"messageType"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	callerID, _ := caller(c)
	msg, err := h.chats.SendMessage(c.Request.Context(), callerID, id, in.Content, model.MessageType(in.MessageType))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message sent successfully", "chatMessage": msg})
}

// POST /api/chat/support
func (h *ChatHandler) OpenSupport(c *gin.Context) {
	var in struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	callerID, _ := caller(c)
	chat, err := h.chats.OpenSupportChat(c.Request.Context(), callerID, in.Message)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "support chat created successfully", "chat": chat})
}

// PUT /api/chat/:id/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperr.Validation("invalid chat id"))
		return
	}

	callerID, _ := caller(c)
	if _, err := h.chats.GetChat(c.Request.Context(), callerID, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "messages marked as read"})
}

// POST /api/chat/bot — публичный, без аутентификации.
func (h *ChatHandler) Bot(c *gin.Context) {
	var in struct {
		Message   string `json:"message" binding:"required"`
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   service.BotReply(in.Message),
		"sessionId": sessionID,
	})
}
