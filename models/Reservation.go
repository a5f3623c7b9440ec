package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation lifecycle states.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationRejected  = "rejected"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

type Reservation struct {
	gorm.Model
	PropertyID uint      `json:"propertyID" gorm:"not null;index"`
	TenantID   uint      `json:"tenantID" gorm:"not null;index"`
	CheckIn    time.Time `json:"checkIn" gorm:"not null"`
	CheckOut   time.Time `json:"checkOut" gorm:"not null"`
	TotalDue   float64   `json:"totalDue"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Contract *Contract `json:"contract,omitempty" gorm:"foreignKey:ReservationID"`
}

// Contract is the generated lease document, at most one per reservation.
// Regenerating replaces DocumentURL in place.
type Contract struct {
	gorm.Model
	ReservationID uint   `json:"reservationID" gorm:"uniqueIndex;not null"`
	DocumentURL   string `json:"documentURL"`
}
