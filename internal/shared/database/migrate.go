package database

import (
	"beatbloom/internal/bookings"
	"beatbloom/internal/catalog"
	"beatbloom/internal/vendors"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.PackageDefinition{},
		&catalog.IncludedFeature{},
		&catalog.CustomizationOption{},
		&vendors.Vendor{},
		&bookings.Booking{},
		&bookings.Payment{},
	)
}
