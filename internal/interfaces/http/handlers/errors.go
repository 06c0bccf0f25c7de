package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a1-en/E-Shoe-Store/pkg/errors"
	"github.com/a1-en/E-Shoe-Store/pkg/logger"
)

// handleAuthError converts domain errors to HTTP responses. Internal
// errors are logged server-side and returned as an opaque 500 body.
func handleAuthError(c *gin.Context, err error) {
	var verrs *errors.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": verrs.Errors[0].Message,
			"errors":  verrs.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, errors.ErrEmailAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
	case errors.Is(err, errors.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already taken"})
	case errors.Is(err, errors.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, errors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, errors.ErrTokenExpired), errors.Is(err, errors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token or token expired"})
	default:
		logger.FromContext(c.Request.Context()).Error("unhandled error",
			logger.Error(err),
			logger.Path(c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}
