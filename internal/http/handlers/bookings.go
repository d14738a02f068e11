package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stando/backend/internal/db"
	"github.com/stando/backend/internal/models"
	"github.com/stando/backend/internal/service"
)

type CreateBookingRequest struct {
	Service       string   `json:"service" validate:"required"`
	Location      string   `json:"location" validate:"required"`
	Instructions  string   `json:"instructions"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Customer      string   `json:"customer" validate:"required"`
	CustomerID    *int64   `json:"customer_id" validate:"required"`
	CustomerPhone string   `json:"customerPhone"`
}

// @Summary Create a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]any
// @Router /api/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	booking := models.Booking{
		Customer:      req.Customer,
		CustomerID:    *req.CustomerID,
		CustomerPhone: req.CustomerPhone,
		Service:       req.Service,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Instructions:  req.Instructions,
	}
	if err := h.Store.CreateBooking(c.Request.Context(), &booking); err != nil {
		h.serverError(c, err, "failed to create booking")
		return
	}

	// Assignment happens later, either by an agent accepting the job or by
	// the nearest-match engine; the booking is returned Pending.
	created, err := h.Store.GetBooking(c.Request.Context(), booking.ID)
	if err != nil {
		h.serverError(c, err, "failed to load created booking")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.Store.ListBookings(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) ListBookingsByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		// A non-numeric id matches no customer; report that as no bookings.
		c.JSON(http.StatusOK, []models.Booking{})
		return
	}
	bookings, err := h.Store.ListBookingsByCustomer(c.Request.Context(), userID)
	if err != nil {
		h.serverError(c, err, "failed to list user bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) GetBooking(c *gin.Context) {
	booking, err := h.Store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrBookingNotFound) {
			writeMessage(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.serverError(c, err, "failed to get booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// @Summary Update booking status
// @Description Drives the booking lifecycle; completing a booking computes the fare and releases the agent.
// @Tags bookings
// @Accept json
// @Produce json
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/bookings/{id}/status [patch]
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Status is required")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Status is required")
		return
	}

	booking, err := h.Store.GetBooking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrBookingNotFound) {
			writeMessage(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.serverError(c, err, "failed to load booking")
		return
	}

	update, err := service.PlanTransition(booking.Status, req.Status, booking.CreatedAt, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStatus):
			writeMessage(c, http.StatusBadRequest, "Unknown status")
		default:
			writeMessage(c, http.StatusConflict, "Illegal status transition")
		}
		return
	}

	if err := h.Store.ApplyStatusUpdate(c.Request.Context(), id, booking.Status, update); err != nil {
		switch {
		case errors.Is(err, db.ErrBookingNotFound):
			writeMessage(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, db.ErrStaleStatus):
			writeMessage(c, http.StatusConflict, "Booking status changed, refresh and retry")
		default:
			h.serverError(c, err, "failed to update booking status")
		}
		return
	}

	updated, err := h.Store.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "failed to load updated booking")
		return
	}
	c.JSON(http.StatusOK, updated)
}

type AcceptBookingRequest struct {
	AgentID string `json:"agentId" validate:"required"`
}

// @Summary Agent accepts a pending booking
// @Description First accept wins; a booking already claimed by another agent returns 409.
// @Tags bookings
// @Accept json
// @Produce json
// @Success 200 {object} models.Booking
// @Failure 409 {object} map[string]any
// @Router /api/bookings/{id}/accept [patch]
func (h *Handler) AcceptBooking(c *gin.Context) {
	id := c.Param("id")

	var req AcceptBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Agent ID is required")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Agent ID is required")
		return
	}

	if err := h.Store.AcceptBooking(c.Request.Context(), id, req.AgentID); err != nil {
		switch {
		case errors.Is(err, db.ErrBookingNotFound):
			writeMessage(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, db.ErrAgentNotFound):
			writeMessage(c, http.StatusNotFound, "Agent not found")
		case errors.Is(err, db.ErrAlreadyTaken):
			writeMessage(c, http.StatusConflict, "Booking has already been taken")
		default:
			h.serverError(c, err, "failed to accept booking")
		}
		return
	}

	updated, err := h.Store.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "failed to load accepted booking")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) VerifyBookingLocation(c *gin.Context) {
	id := c.Param("id")

	if err := h.Store.VerifyLocation(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrBookingNotFound) {
			writeMessage(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.serverError(c, err, "failed to verify booking location")
		return
	}

	updated, err := h.Store.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "failed to load verified booking")
		return
	}
	c.JSON(http.StatusOK, updated)
}

type QueueInfoRequest struct {
	QueuePosition *int `json:"queuePosition" validate:"required"`
	TotalInQueue  *int `json:"totalInQueue" validate:"required"`
}

func (h *Handler) UpdateQueueInfo(c *gin.Context) {
	id := c.Param("id")

	var req QueueInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Queue position and total are required")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Queue position and total are required")
		return
	}

	if err := h.Store.UpdateQueueInfo(c.Request.Context(), id, *req.QueuePosition, *req.TotalInQueue); err != nil {
		if errors.Is(err, db.ErrBookingNotFound) {
			writeMessage(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.serverError(c, err, "failed to update queue info")
		return
	}

	updated, err := h.Store.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "failed to load updated booking")
		return
	}
	c.JSON(http.StatusOK, updated)
}
