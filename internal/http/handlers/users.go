package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stando/backend/internal/db"
	"github.com/stando/backend/internal/models"
	"github.com/stando/backend/internal/utils"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Please enter all fields")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Please enter all fields")
		return
	}

	exists, err := h.Store.UserEmailExists(c.Request.Context(), req.Email)
	if err != nil {
		h.serverError(c, err, "failed to check user email")
		return
	}
	if exists {
		writeMessage(c, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.serverError(c, err, "failed to hash password")
		return
	}

	user := models.User{Name: req.Name, Email: req.Email, Password: hashed}
	if err := h.Store.CreateUser(c.Request.Context(), &user); err != nil {
		h.serverError(c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeMessage(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	user, err := h.Store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			writeMessage(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.serverError(c, err, "failed to load user")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		writeMessage(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}
