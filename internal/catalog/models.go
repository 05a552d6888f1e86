package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory classifies packages and a-la-carte services
type ServiceCategory string

const (
	CategoryMusic       ServiceCategory = "MUSIC"
	CategoryFloral      ServiceCategory = "FLORAL"
	CategoryDecor       ServiceCategory = "DECOR"
	CategoryCatering    ServiceCategory = "CATERING"
	CategoryPhotography ServiceCategory = "PHOTOGRAPHY"
	CategoryFullEvent   ServiceCategory = "FULL_EVENT"
)

// IsValid checks if the service category is known
func (c ServiceCategory) IsValid() bool {
	switch c {
	case CategoryMusic, CategoryFloral, CategoryDecor, CategoryCatering,
		CategoryPhotography, CategoryFullEvent:
		return true
	}
	return false
}

// PackageDefinition is an immutable catalog record. All money values are
// integer minor units (paise). Bookings snapshot prices at selection time, so
// edits here never retroactively change an existing booking.
type PackageDefinition struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string          `json:"name" gorm:"not null;size:255"`
	Description   string          `json:"description" gorm:"type:text"`
	Category      ServiceCategory `json:"category" gorm:"type:varchar(20);not null"`
	BasePrice     int64           `json:"base_price" gorm:"not null;check:base_price >= 0"`
	PerGuestPrice int64           `json:"per_guest_price" gorm:"default:0;check:per_guest_price >= 0"`
	Active        bool            `json:"active" gorm:"default:true"`
	ImageURL      string          `json:"image_url" gorm:"size:500"`

	IncludedFeatures     []IncludedFeature     `json:"included_features,omitempty" gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE;"`
	CustomizationOptions []CustomizationOption `json:"customization_options,omitempty" gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// IncludedFeature is a package component bundled by default, optionally
// removable for a price reduction.
type IncludedFeature struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PackageID   uuid.UUID `json:"package_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Price       int64     `json:"price" gorm:"not null;check:price >= 0"`
	IsRemovable bool      `json:"is_removable" gorm:"default:false"`
	IsRequired  bool      `json:"is_required" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// CanBeRemoved reports whether a customer may drop this feature. Required
// features are never removable, whatever flag combination an editor left.
func (f *IncludedFeature) CanBeRemoved() bool {
	return f.IsRemovable && !f.IsRequired
}

// CustomizationOption is a paid add-on not bundled by default, selectable with
// a quantity up to MaxQuantity.
type CustomizationOption struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PackageID   uuid.UUID `json:"package_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Price       int64     `json:"price" gorm:"not null;check:price >= 0"`
	Category    string    `json:"category" gorm:"size:50"`
	IsRequired  bool      `json:"is_required" gorm:"default:false"`
	MaxQuantity int       `json:"max_quantity" gorm:"default:1;check:max_quantity >= 1"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for PackageDefinition
func (PackageDefinition) TableName() string {
	return "package_definitions"
}

// TableName sets the table name for IncludedFeature
func (IncludedFeature) TableName() string {
	return "included_features"
}

// TableName sets the table name for CustomizationOption
func (CustomizationOption) TableName() string {
	return "customization_options"
}

// FeatureByID looks up an included feature on the package
func (p *PackageDefinition) FeatureByID(id uuid.UUID) (*IncludedFeature, bool) {
	for i := range p.IncludedFeatures {
		if p.IncludedFeatures[i].ID == id {
			return &p.IncludedFeatures[i], true
		}
	}
	return nil, false
}

// OptionByID looks up a customization option on the package
func (p *PackageDefinition) OptionByID(id uuid.UUID) (*CustomizationOption, bool) {
	for i := range p.CustomizationOptions {
		if p.CustomizationOptions[i].ID == id {
			return &p.CustomizationOptions[i], true
		}
	}
	return nil, false
}
