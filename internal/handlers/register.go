package handlers

import (
	"errors"
	"net/http"

	"taskify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterHandler struct {
	db          *gorm.DB
	userService services.UserService
}

func NewRegisterHandler(db *gorm.DB, userService services.UserService) *RegisterHandler {
	return &RegisterHandler{db: db, userService: userService}
}

type RegistrationResponse struct {
	Message string                 `json:"message"`
	User    RegistrationUserDetail `json:"user"`
}

type RegistrationUserDetail struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func (h *RegisterHandler) Registration(c *gin.Context) {
	var req services.CreateUserInput

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	user, err := h.userService.CreateUser(h.db, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": "An email address is required",
			})
		case errors.Is(err, services.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Registration failed",
				"details": "An account with this email already exists",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Registration failed",
				"details": "An unexpected error occurred. Please try again later.",
			})
		}
		return
	}

	response := RegistrationResponse{
		Message: "Welcome to Taskify! Your account has been created successfully.",
		User: RegistrationUserDetail{
			ID:          user.ID.String(),
			Email:       user.Email,
			Username:    user.Username,
			PhoneNumber: user.PhoneNumber,
			IsActive:    user.IsActive,
		},
	}

	c.JSON(http.StatusCreated, response)
}
