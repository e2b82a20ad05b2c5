package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillconnect/internal/service"
)

// SessionHandler mantiene dependencias para endpoints de sesiones de mentoria.
type SessionHandler struct {
	logger      *zap.Logger
	sessionServ *service.SessionService
}

// NewSessionHandler crea una instancia de SessionHandler con dependencias necesarias.
func NewSessionHandler(logger *zap.Logger, sessionServ *service.SessionService) *SessionHandler {
	return &SessionHandler{
		logger:      logger,
		sessionServ: sessionServ,
	}
}

// List maneja GET /sessions: limpieza de retencion + listado ordenado para el
// mentor autenticado.
func (h *SessionHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	views, err := h.sessionServ.ListForOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err), zap.String("alumni_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Book maneja POST /sessions.
func (h *SessionHandler) Book(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		AlumniID       string    `json:"alumni_id" binding:"required"`
		SessionDate    time.Time `json:"session_date" binding:"required"`
		BookingDetails string    `json:"booking_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid book session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.sessionServ.Book(c.Request.Context(), service.BookSessionInput{
		StudentID:      claims.UserID,
		AlumniID:       req.AlumniID,
		SessionDate:    req.SessionDate,
		BookingDetails: req.BookingDetails,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown user reference"})
			return
		case errors.Is(err, service.ErrSessionInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session data"})
			return
		default:
			h.logger.Error("book session failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not book session"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// End maneja PUT /sessions/:id/end.
func (h *SessionHandler) End(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := h.sessionServ.End(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		case errors.Is(err, service.ErrSessionInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		default:
			h.logger.Error("end session failed", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not end session"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}
