package models

import "time"

// DoseRecord is the user-facing log of a taken or skipped dose.
type DoseRecord struct {
	ID           string    `bson:"id" json:"id"`
	MedicineName string    `bson:"medicineName" json:"medicineName"`
	Dosage       int       `bson:"dosage" json:"dosage"`
	Compartment  int       `bson:"compartment" json:"compartment"`
	Time         time.Time `bson:"time" json:"time"`
	Status       string    `bson:"status" json:"status"`
	UserID       string    `bson:"userId" json:"userId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
