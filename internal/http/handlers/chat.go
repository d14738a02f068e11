package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stando/backend/internal/db"
	"github.com/stando/backend/internal/models"
)

func (h *Handler) GetChatMessages(c *gin.Context) {
	history, err := h.Store.GetChatHistory(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		h.serverError(c, err, "failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, history)
}

type PostMessageRequest struct {
	Sender      string `json:"sender" validate:"required"`
	MessageType string `json:"message_type" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

func (h *Handler) PostChatMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Missing required message fields")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Missing required message fields")
		return
	}

	now := time.Now().UTC()
	msg := models.ChatMessage{
		ID:          now.UnixMilli(),
		Sender:      req.Sender,
		MessageType: req.MessageType,
		Content:     req.Content,
		CreatedAt:   now,
	}

	if err := h.Store.AppendChatMessage(c.Request.Context(), c.Param("bookingId"), msg); err != nil {
		if errors.Is(err, db.ErrBookingNotFound) {
			writeMessage(c, http.StatusNotFound, "Booking not found or failed to save message")
			return
		}
		h.serverError(c, err, "failed to append chat message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}
