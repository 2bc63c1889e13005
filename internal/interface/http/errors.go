package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pinit-down/internal/application"
	"github.com/oksasatya/pinit-down/pkg/helpers"
	"github.com/oksasatya/pinit-down/pkg/response"
	"github.com/oksasatya/pinit-down/pkg/validation"
)

const msgInternal = "Internal server error"

// writeError maps service errors onto status codes and client messages.
// Unmapped errors are logged and answered with a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.Validation(c, verr.Fields)
	case errors.Is(err, application.ErrDuplicateEmail):
		response.Error(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, application.ErrInvalidVerificationToken):
		response.Error(c, http.StatusBadRequest, "Invalid or expired verification token")
	case errors.Is(err, application.ErrInvalidResetToken):
		response.Error(c, http.StatusBadRequest, "Invalid or expired reset token")
	case errors.Is(err, application.ErrInvalidOrExpiredToken):
		response.Error(c, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, application.ErrAlreadyVerified):
		response.Error(c, http.StatusBadRequest, "Email already verified")
	case errors.Is(err, application.ErrMissingToken):
		response.Error(c, http.StatusUnauthorized, "Access token required")
	case errors.Is(err, application.ErrInvalidToken):
		response.Error(c, http.StatusForbidden, "Invalid or expired token")
	case errors.Is(err, application.ErrInvalidID):
		response.Error(c, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Item not found")
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
			"method":     c.Request.Method,
		})
		response.Error(c, http.StatusInternalServerError, msgInternal)
	}
}

// badPayload answers a body that could not be decoded.
func badPayload(c *gin.Context, err error) {
	response.Validation(c, validation.ToDetails(err))
}
