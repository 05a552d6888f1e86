package vendors

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVendorNotFound signals an unknown vendor id
var ErrVendorNotFound = errors.New("vendor not found")

type Repository interface {
	CreateVendor(ctx context.Context, vendor *Vendor) error
	GetVendorByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	ListVendors(ctx context.Context, query VendorListQuery) ([]Vendor, int64, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, availability Availability) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVendor(ctx context.Context, vendor *Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *repository) GetVendorByID(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	var vendor Vendor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) ListVendors(ctx context.Context, query VendorListQuery) ([]Vendor, int64, error) {
	var vendorList []Vendor
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Vendor{})

	if query.Availability != "" {
		baseQuery = baseQuery.Where("availability = ?", query.Availability)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("rating DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&vendorList).Error

	return vendorList, totalCount, err
}

func (r *repository) UpdateAvailability(ctx context.Context, id uuid.UUID, availability Availability) error {
	result := r.db.WithContext(ctx).
		Model(&Vendor{}).
		Where("id = ?", id).
		Update("availability", availability)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}
