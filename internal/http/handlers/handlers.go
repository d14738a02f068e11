package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/stando/backend/internal/db"
	"github.com/stando/backend/internal/geocode"
)

type Handler struct {
	Store     *db.Store
	Searcher  geocode.Searcher
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeMessage(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// The portals key their error toasts off this exact body shape.
func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	h.Logger.Error().Err(err).Msg(msg)
	writeMessage(c, http.StatusInternalServerError, "Server Error")
}
