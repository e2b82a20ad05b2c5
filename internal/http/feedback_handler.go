package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillconnect/internal/service"
)

// FeedbackHandler mantiene dependencias para endpoints de feedback.
type FeedbackHandler struct {
	logger       *zap.Logger
	feedbackServ *service.FeedbackService
}

// NewFeedbackHandler crea una instancia de FeedbackHandler con dependencias necesarias.
func NewFeedbackHandler(logger *zap.Logger, feedbackServ *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		logger:       logger,
		feedbackServ: feedbackServ,
	}
}

// Submit maneja POST /feedback.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		AlumniID string `json:"alumni_id" binding:"required"`
		Rating   int    `json:"rating" binding:"required"`
		Comment  string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	feedback, err := h.feedbackServ.Submit(c.Request.Context(), service.SubmitFeedbackInput{
		StudentID: claims.UserID,
		AlumniID:  req.AlumniID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown user reference"})
			return
		case errors.Is(err, service.ErrFeedbackInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback"})
			return
		default:
			h.logger.Error("submit feedback failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit feedback"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// List maneja GET /feedback/:alumniId.
func (h *FeedbackHandler) List(c *gin.Context) {
	alumniID := c.Param("alumniId")

	views, err := h.feedbackServ.ListForMentor(c.Request.Context(), alumniID)
	if err != nil {
		h.logger.Error("list feedback failed", zap.Error(err), zap.String("alumni_id", alumniID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": views})
}
