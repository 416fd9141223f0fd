package handlers

import (
	"errors"
	"net/http"

	"reminderx/database/repository"
	"reminderx/middleware"
	"reminderx/services/contact"
	"reminderx/services/inventory"
	"reminderx/services/reminder"
	userSvc "reminderx/services/user"
	"reminderx/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the caller's user id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	if id == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "no registered user for this token")
		return "", false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, userSvc.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, reminder.ErrInvalidReminder),
		errors.Is(err, reminder.ErrInvalidStatus),
		errors.Is(err, reminder.ErrNoDoseToday),
		errors.Is(err, inventory.ErrInvalidItem),
		errors.Is(err, contact.ErrInvalidContact),
		errors.Is(err, userSvc.ErrInvalidProfile),
		errors.Is(err, userSvc.ErrInvalidPushToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to its HTTP status and aborts.
func respondError(c *gin.Context, err error, message string) {
	utils.JSONError(c, statusFor(err), message, err.Error())
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
