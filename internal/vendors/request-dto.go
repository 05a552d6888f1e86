package vendors

// CreateVendorRequest registers a new vendor
type CreateVendorRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=255"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"omitempty,min=7,max=20"`
	ServicesOffered []string `json:"services_offered" binding:"required,min=1,dive,oneof=MUSIC FLORAL DECOR CATERING PHOTOGRAPHY FULL_EVENT"`
}

// UpdateAvailabilityRequest changes a vendor's availability
type UpdateAvailabilityRequest struct {
	Availability string `json:"availability" binding:"required,oneof=AVAILABLE BUSY UNAVAILABLE"`
}

// VendorListQuery filters the vendor list
type VendorListQuery struct {
	Availability string `form:"availability"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}
