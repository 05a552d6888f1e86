package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPackageNotFound signals an unknown package id
var ErrPackageNotFound = errors.New("package not found")

type Repository interface {
	CreatePackage(ctx context.Context, pkg *PackageDefinition) error
	GetPackageByID(ctx context.Context, id uuid.UUID) (*PackageDefinition, error)
	ListPackages(ctx context.Context, query PackageListQuery) ([]PackageDefinition, int64, error)
	UpdatePackage(ctx context.Context, pkg *PackageDefinition) error

	AddFeature(ctx context.Context, feature *IncludedFeature) error
	AddOption(ctx context.Context, option *CustomizationOption) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePackage(ctx context.Context, pkg *PackageDefinition) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *repository) GetPackageByID(ctx context.Context, id uuid.UUID) (*PackageDefinition, error) {
	var pkg PackageDefinition
	err := r.db.WithContext(ctx).
		Preload("IncludedFeatures").
		Preload("CustomizationOptions").
		Where("id = ?", id).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) ListPackages(ctx context.Context, query PackageListQuery) ([]PackageDefinition, int64, error) {
	var pkgs []PackageDefinition
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&PackageDefinition{})

	if query.Category != "" {
		baseQuery = baseQuery.Where("category = ?", query.Category)
	}
	if query.Active == "true" {
		baseQuery = baseQuery.Where("active = ?", true)
	} else if query.Active == "false" {
		baseQuery = baseQuery.Where("active = ?", false)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("IncludedFeatures").
		Preload("CustomizationOptions").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&pkgs).Error

	return pkgs, totalCount, err
}

func (r *repository) UpdatePackage(ctx context.Context, pkg *PackageDefinition) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

func (r *repository) AddFeature(ctx context.Context, feature *IncludedFeature) error {
	return r.db.WithContext(ctx).Create(feature).Error
}

func (r *repository) AddOption(ctx context.Context, option *CustomizationOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}
