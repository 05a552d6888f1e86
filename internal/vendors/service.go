package vendors

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service is the vendor directory consumed by the booking engine and the
// admin API. The booking engine only reads from it; availability transitions
// come from the outside.
type Service interface {
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*Vendor, error)
	ListVendors(ctx context.Context, query VendorListQuery) ([]Vendor, int64, error)
	SetAvailability(ctx context.Context, id uuid.UUID, availability Availability) error
	IsAvailable(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService creates a new vendor directory service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVendor(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	vendor := &Vendor{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ServicesOffered: req.ServicesOffered,
		Availability:    Available,
		Rating:          0,
	}

	if err := s.repo.CreateVendor(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return vendor, nil
}

func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	return s.repo.GetVendorByID(ctx, id)
}

func (s *service) ListVendors(ctx context.Context, query VendorListQuery) ([]Vendor, int64, error) {
	return s.repo.ListVendors(ctx, query)
}

func (s *service) SetAvailability(ctx context.Context, id uuid.UUID, availability Availability) error {
	if !availability.IsValid() {
		return fmt.Errorf("unknown availability status: %s", availability)
	}
	return s.repo.UpdateAvailability(ctx, id, availability)
}

func (s *service) IsAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	vendor, err := s.repo.GetVendorByID(ctx, id)
	if err != nil {
		return false, err
	}
	return vendor.IsAvailable(), nil
}
