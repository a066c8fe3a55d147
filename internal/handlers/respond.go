package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/amberglobal/identity-service/internal/ratelimit"
	"github.com/amberglobal/identity-service/internal/repository"
	"github.com/amberglobal/identity-service/internal/service"
	"github.com/gin-gonic/gin"
)

// RespondError writes a JSON error body with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RespondServiceError maps service-layer errors onto HTTP statuses.
// Validation and business-rule errors surface verbatim; anything unexpected
// is logged and collapsed into a generic 500.
func RespondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "reasons": validationErr.Reasons})
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrInvalidOTP):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotVerified),
		errors.Is(err, service.ErrInactiveAdmin),
		errors.Is(err, service.ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAdminNotFound),
		errors.Is(err, repository.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ratelimit.ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrNotificationFailed):
		RespondError(c, http.StatusInternalServerError, "Failed to send email. Please try again.")
	case errors.Is(err, service.ErrSelfDemotion),
		errors.Is(err, service.ErrSelfDeletion):
		RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		RespondError(c, http.StatusInternalServerError, "internal server error")
	}
}
