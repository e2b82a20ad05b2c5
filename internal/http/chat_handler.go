package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillconnect/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de mensajes y conversaciones.
type ChatHandler struct {
	logger           *zap.Logger
	conversationServ *service.ConversationService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, conversationServ *service.ConversationService) *ChatHandler {
	return &ChatHandler{
		logger:           logger,
		conversationServ: conversationServ,
	}
}

// PostMessage maneja POST /messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		ReceiverID string `json:"receiver_id" binding:"required"`
		Text       string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.conversationServ.Send(c.Request.Context(), claims.UserID, req.ReceiverID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown user reference"})
			return
		case errors.Is(err, service.ErrMessageInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message"})
			return
		default:
			h.logger.Error("post message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post message"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages maneja GET /messages/:partnerId.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	partnerID := c.Param("partnerId")

	msgs, err := h.conversationServ.ListBetween(c.Request.Context(), claims.UserID, partnerID)
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ListConversations maneja GET /conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	summaries, err := h.conversationServ.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list conversations failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}
