package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stando/backend/internal/db"
	"github.com/stando/backend/internal/models"
	"github.com/stando/backend/internal/service"
	"github.com/stando/backend/internal/utils"
)

// New agents start near Connaught Place until they report a real location.
const (
	defaultAgentLat = 28.6139
	defaultAgentLng = 77.2090
	defaultAgentETA = "15 mins"
)

func (h *Handler) ListAgents(c *gin.Context) {
	agents, err := h.Store.ListAgents(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "failed to list agents")
		return
	}

	out := make([]gin.H, 0, len(agents))
	for _, a := range agents {
		out = append(out, gin.H{
			"id":          a.ID,
			"name":        a.Name,
			"phone":       a.Phone,
			"eta":         a.ETA,
			"location":    models.LatLng{Lat: a.Lat, Lng: a.Lng},
			"isAvailable": a.IsAvailable,
		})
	}
	c.JSON(http.StatusOK, out)
}

type RegisterAgentRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) RegisterAgent(c *gin.Context) {
	var req RegisterAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Please enter all fields")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Please enter all fields")
		return
	}

	exists, err := h.Store.AgentEmailExists(c.Request.Context(), req.Email)
	if err != nil {
		h.serverError(c, err, "failed to check agent email")
		return
	}
	if exists {
		writeMessage(c, http.StatusBadRequest, "An agent with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.serverError(c, err, "failed to hash password")
		return
	}

	agent := models.Agent{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashed,
		Lat:      defaultAgentLat,
		Lng:      defaultAgentLng,
		ETA:      defaultAgentETA,
	}
	if err := h.Store.CreateAgent(c.Request.Context(), &agent); err != nil {
		h.serverError(c, err, "failed to create agent")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    agent.ID,
		"name":  agent.Name,
		"email": agent.Email,
		"phone": agent.Phone,
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) LoginAgent(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Please provide email and password")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	agent, err := h.Store.GetAgentByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrAgentNotFound) {
			writeMessage(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.serverError(c, err, "failed to load agent")
		return
	}
	if !utils.CheckPasswordHash(req.Password, agent.Password) {
		writeMessage(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       agent.ID,
		"name":     agent.Name,
		"email":    agent.Email,
		"phone":    agent.Phone,
		"location": models.LatLng{Lat: agent.Lat, Lng: agent.Lng},
	})
}

type AgentLocationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

func (h *Handler) UpdateAgentLocation(c *gin.Context) {
	id := c.Param("id")

	var req AgentLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}

	if err := h.Store.UpdateAgentLocation(c.Request.Context(), id, *req.Lat, *req.Lng); err != nil {
		if errors.Is(err, db.ErrAgentNotFound) {
			writeMessage(c, http.StatusNotFound, "Agent not found")
			return
		}
		h.serverError(c, err, "failed to update agent location")
		return
	}

	agent, err := h.Store.GetAgent(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "failed to load agent")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       agent.ID,
		"name":     agent.Name,
		"location": models.LatLng{Lat: agent.Lat, Lng: agent.Lng},
		"message":  "Location updated successfully",
	})
}

type AssignAgentRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
}

// @Summary Auto-assign the nearest available agent to a pending booking
// @Tags agents
// @Accept json
// @Produce json
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/agents/assign [post]
func (h *Handler) AssignAgent(c *gin.Context) {
	var req AssignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Booking ID is required")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Booking ID is required")
		return
	}

	booking, err := h.Store.GetBooking(c.Request.Context(), req.BookingID)
	if err != nil {
		if errors.Is(err, db.ErrBookingNotFound) {
			writeMessage(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.serverError(c, err, "failed to load booking")
		return
	}
	if booking.Status != service.StatusPending {
		writeMessage(c, http.StatusConflict, "Booking has already been taken")
		return
	}
	if booking.Latitude == nil || booking.Longitude == nil {
		writeMessage(c, http.StatusBadRequest, "Booking has no coordinates")
		return
	}

	agents, err := h.Store.ListAvailableAgents(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "failed to list available agents")
		return
	}
	nearest, ok := service.NearestAgent(*booking.Latitude, *booking.Longitude, agents)
	if !ok {
		// Not a failure: the pool is empty and the booking stays Pending.
		writeMessage(c, http.StatusNotFound, "No available agents found")
		return
	}

	if err := h.Store.AcceptBooking(c.Request.Context(), booking.ID, nearest.ID); err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyTaken):
			writeMessage(c, http.StatusConflict, "Booking has already been taken")
		case errors.Is(err, db.ErrBookingNotFound):
			writeMessage(c, http.StatusNotFound, "Booking not found")
		default:
			h.serverError(c, err, "failed to assign agent")
		}
		return
	}

	updated, err := h.Store.GetBooking(c.Request.Context(), booking.ID)
	if err != nil {
		h.serverError(c, err, "failed to load assigned booking")
		return
	}
	c.JSON(http.StatusOK, updated)
}
