package vendors

import (
	"time"

	"beatbloom/internal/catalog"

	"github.com/google/uuid"
)

// Availability is the vendor's current working status. It is driven
// externally (vendor app, admin) and never mutated by the booking engine.
type Availability string

const (
	Available   Availability = "AVAILABLE"
	Busy        Availability = "BUSY"
	Unavailable Availability = "UNAVAILABLE"
)

// IsValid checks if the availability status is known
func (a Availability) IsValid() bool {
	switch a {
	case Available, Busy, Unavailable:
		return true
	}
	return false
}

// Vendor is a service provider assignable to bookings
type Vendor struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name            string       `json:"name" gorm:"not null;size:255"`
	Email           string       `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone           string       `json:"phone" gorm:"size:20"`
	ServicesOffered StringArray  `json:"services_offered" gorm:"type:text"`
	Availability    Availability `json:"availability" gorm:"type:varchar(20);default:'AVAILABLE'"`
	Rating          float64      `json:"rating" gorm:"default:0;check:rating >= 0 AND rating <= 5"`
	CreatedAt       time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// Offers reports whether the vendor covers the given service category
func (v *Vendor) Offers(category catalog.ServiceCategory) bool {
	for _, s := range v.ServicesOffered {
		if s == string(category) {
			return true
		}
	}
	return false
}

// IsAvailable reports whether the vendor can take new assignments
func (v *Vendor) IsAvailable() bool {
	return v.Availability == Available
}
