package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognized across the API.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	FullName string `json:"fullName"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"type:varchar(20);default:'tenant';index"`

	VerifiedProfile *VerifiedProfile `json:"verifiedProfile,omitempty" gorm:"foreignKey:UserID"`
	Properties      []Property       `json:"properties,omitempty" gorm:"foreignKey:OwnerID"`
}

// Verification request states.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// VerifiedProfile holds the landlord identity data reviewed by an admin.
// One row per user; NationalID (cedula/RUC) is unique across the platform.
type VerifiedProfile struct {
	gorm.Model
	UserID      uint      `json:"userID" gorm:"uniqueIndex;not null"`
	NationalID  string    `json:"nationalID" gorm:"uniqueIndex;not null"`
	Phone       string    `json:"phone"`
	Bio         string    `json:"bio" gorm:"type:text"`
	DocumentURL string    `json:"documentURL"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	IsVerified  bool      `json:"isVerified" gorm:"default:false"`
	Notes       string    `json:"notes" gorm:"type:text"`
	RequestedAt time.Time `json:"requestedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
