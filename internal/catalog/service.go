package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service interface defines the contract for catalog business logic
type Service interface {
	CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageDefinition, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*PackageDefinition, error)
	ListPackages(ctx context.Context, query PackageListQuery) ([]PackageDefinition, int64, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*PackageDefinition, error)
	AddFeature(ctx context.Context, packageID uuid.UUID, req CreateFeatureRequest) (*IncludedFeature, error)
	AddOption(ctx context.Context, packageID uuid.UUID, req CreateOptionRequest) (*CustomizationOption, error)
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageDefinition, error) {
	category := ServiceCategory(req.Category)
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown service category: %s", req.Category)
	}

	pkg := &PackageDefinition{
		Name:          req.Name,
		Description:   req.Description,
		Category:      category,
		BasePrice:     req.BasePrice,
		PerGuestPrice: req.PerGuestPrice,
		Active:        true,
		ImageURL:      req.ImageURL,
	}

	for _, f := range req.Features {
		pkg.IncludedFeatures = append(pkg.IncludedFeatures, IncludedFeature{
			Name:        f.Name,
			Price:       f.Price,
			IsRemovable: f.IsRemovable && !f.IsRequired,
			IsRequired:  f.IsRequired,
		})
	}

	for _, o := range req.Options {
		pkg.CustomizationOptions = append(pkg.CustomizationOptions, CustomizationOption{
			Name:        o.Name,
			Price:       o.Price,
			Category:    o.Category,
			IsRequired:  o.IsRequired,
			MaxQuantity: o.MaxQuantity,
		})
	}

	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	return pkg, nil
}

func (s *service) GetPackage(ctx context.Context, id uuid.UUID) (*PackageDefinition, error) {
	return s.repo.GetPackageByID(ctx, id)
}

func (s *service) ListPackages(ctx context.Context, query PackageListQuery) ([]PackageDefinition, int64, error) {
	return s.repo.ListPackages(ctx, query)
}

func (s *service) UpdatePackage(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*PackageDefinition, error) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.BasePrice != nil {
		pkg.BasePrice = *req.BasePrice
	}
	if req.PerGuestPrice != nil {
		pkg.PerGuestPrice = *req.PerGuestPrice
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if req.ImageURL != nil {
		pkg.ImageURL = *req.ImageURL
	}

	if err := s.repo.UpdatePackage(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	return pkg, nil
}

func (s *service) AddFeature(ctx context.Context, packageID uuid.UUID, req CreateFeatureRequest) (*IncludedFeature, error) {
	if _, err := s.repo.GetPackageByID(ctx, packageID); err != nil {
		return nil, err
	}

	feature := &IncludedFeature{
		PackageID: packageID,
		Name:      req.Name,
		Price:     req.Price,
		// A required feature can never be removable, whatever the editor sent.
		IsRemovable: req.IsRemovable && !req.IsRequired,
		IsRequired:  req.IsRequired,
	}

	if err := s.repo.AddFeature(ctx, feature); err != nil {
		return nil, fmt.Errorf("failed to add feature: %w", err)
	}

	return feature, nil
}

func (s *service) AddOption(ctx context.Context, packageID uuid.UUID, req CreateOptionRequest) (*CustomizationOption, error) {
	if _, err := s.repo.GetPackageByID(ctx, packageID); err != nil {
		return nil, err
	}

	option := &CustomizationOption{
		PackageID:   packageID,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		IsRequired:  req.IsRequired,
		MaxQuantity: req.MaxQuantity,
	}

	if err := s.repo.AddOption(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to add option: %w", err)
	}

	return option, nil
}
