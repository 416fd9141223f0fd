// File: reminderx/models/device.go
package models

import "time"

// Device pairs a pill dispenser (identified by its model string) with a user.
type Device struct {
	ID        string    `bson:"id" json:"id"`
	Model     string    `bson:"model" json:"model"`
	UserID    string    `bson:"userId" json:"userId"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
