package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a1-en/E-Shoe-Store/internal/application/dto"
	"github.com/a1-en/E-Shoe-Store/internal/application/services"
	"github.com/a1-en/E-Shoe-Store/pkg/authmw"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles account creation.
// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles user login.
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Protected is the token-validation probe.
// GET /protected
func (h *AuthHandler) Protected(c *gin.Context) {
	c.String(http.StatusOK, "This is a protected route")
}

// Me returns the authenticated user's account.
// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := authmw.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized, token missing"})
		return
	}

	resp, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
