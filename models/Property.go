package models

import "gorm.io/gorm"

// PropertyStatus is a catalog row (Disponible, Rentada, ...).
type PropertyStatus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// TargetAudience is a catalog row (Estudiantes, Familias, ...).
type TargetAudience struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// ServiceItem is a catalog row for services/amenities a property can offer
// (agua, luz, internet, ...).
type ServiceItem struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Property struct {
	gorm.Model
	OwnerID          uint    `json:"ownerID" gorm:"not null;index"`
	StatusID         uint    `json:"statusID" gorm:"not null"`
	TargetAudienceID *uint   `json:"targetAudienceID"`
	Title            string  `json:"title" gorm:"not null"`
	Description      string  `json:"description" gorm:"type:text"`
	MonthlyPrice     float64 `json:"monthlyPrice" gorm:"not null"`
	Address          string  `json:"address"`
	Lat              float32 `json:"lat"`
	Lng              float32 `json:"lng"`
	Furnished        bool    `json:"furnished" gorm:"default:false"`

	Owner          *User             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Status         *PropertyStatus   `json:"status,omitempty" gorm:"foreignKey:StatusID"`
	TargetAudience *TargetAudience   `json:"targetAudience,omitempty" gorm:"foreignKey:TargetAudienceID"`
	Services       []PropertyService `json:"services,omitempty" gorm:"foreignKey:PropertyID"`
	Photos         []PropertyPhoto   `json:"photos,omitempty" gorm:"foreignKey:PropertyID"`
	Reservations   []Reservation     `json:"reservations,omitempty" gorm:"foreignKey:PropertyID"`
}

// PropertyService links a property to a catalog service, with a flag for
// whether the service is included in the monthly price.
type PropertyService struct {
	gorm.Model
	PropertyID      uint `json:"propertyID" gorm:"not null;index"`
	ServiceID       uint `json:"serviceID" gorm:"not null"`
	IncludedInPrice bool `json:"includedInPrice" gorm:"default:true"`

	Service *ServiceItem `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

type PropertyPhoto struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null"`
	IsPrimary  bool   `json:"isPrimary" gorm:"default:false"`
}
