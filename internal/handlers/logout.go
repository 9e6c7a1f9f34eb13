package handlers

import (
	"log"
	"net/http"

	"taskify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LogoutHandler struct {
	db          *gorm.DB
	authService services.AuthService
}

func NewLogoutHandler(db *gorm.DB, authService services.AuthService) *LogoutHandler {
	return &LogoutHandler{db: db, authService: authService}
}

// Logout revokes the presented refresh token. Revoking a token that is
// already gone still counts as a logout; the client holds no session state
// worth distinguishing.
func (h *LogoutHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	if err := h.authService.RevokeToken(h.db, req.RefreshToken); err != nil {
		log.Printf("logout: revoking refresh token: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
