package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stando/backend/internal/geocode"
)

// SearchLocations proxies the booking form's free-text address lookup.
// Lookup failures degrade to an empty result list; the form treats "no
// suggestions" and "search backend down" identically.
func (h *Handler) SearchLocations(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		writeMessage(c, http.StatusBadRequest, "Search query is required")
		return
	}

	places, err := h.Searcher.Search(c.Request.Context(), query, 5)
	if err != nil {
		if !errors.Is(err, geocode.ErrNotFound) {
			h.Logger.Error().Err(err).Str("query", query).Msg("location search failed")
		}
		c.JSON(http.StatusOK, []geocode.Place{})
		return
	}
	c.JSON(http.StatusOK, places)
}
