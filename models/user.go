// models/user.go
package models

import "time"

// User is the owner of reminders, inventory and contacts.
type User struct {
	ID          string    `bson:"id" json:"id"`
	FirebaseUID string    `bson:"firebaseUid" json:"-"`
	Email       string    `bson:"email" json:"email"`
	Name        string    `bson:"name" json:"name"`
	Address     string    `bson:"address" json:"address"`
	Age         int       `bson:"age" json:"age"`
	PushToken   string    `bson:"pushToken,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
