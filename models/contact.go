package models

// Contact is an emergency contact notified by SMS when a dose is missed.
type Contact struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	PhoneNumber string `bson:"phoneNumber" json:"phone_number"`
	UserID      string `bson:"userId" json:"userId"`
}
