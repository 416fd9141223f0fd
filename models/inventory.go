package models

import "time"

type InventoryItem struct {
	ID             string    `bson:"id" json:"id"`
	MedicineName   string    `bson:"medicineName" json:"medicine_name"`
	Dosage         int       `bson:"dosage" json:"dosage"`
	ExpirationDate time.Time `bson:"expirationDate" json:"expiration_date"`
	Stock          int       `bson:"stock" json:"stock"`
	Compartment    int       `bson:"compartment" json:"compartment"`

	NotifiedLowStock bool `bson:"notifiedLowStock" json:"notifiedLowStock"`
	NotifiedExpiry   bool `bson:"notifiedExpiry" json:"notifiedExpiry"`

	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CompartmentUsage is what a dispenser reports after releasing pills.
type CompartmentUsage struct {
	Compartment int `json:"compartment" binding:"required"`
	PillCount   int `json:"pillCount" binding:"min=0"`
}
