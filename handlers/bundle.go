// File: reminderx/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the auth middleware into one struct.
type HandlerBundle struct {
	// Auth requires a registered user; RegistrationAuth also admits a
	// verified identity that has not registered yet.
	Auth             gin.HandlerFunc
	RegistrationAuth gin.HandlerFunc

	Reminder  *ReminderHandler
	Inventory *InventoryHandler
	Contact   *ContactHandler
	User      *UserHandler
	Records   *RecordsHandler
}
