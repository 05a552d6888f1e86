package catalog

// CreatePackageRequest creates a new package definition
type CreatePackageRequest struct {
	Name          string                       `json:"name" binding:"required,min=3,max=255"`
	Description   string                       `json:"description" binding:"max=2000"`
	Category      string                       `json:"category" binding:"required,oneof=MUSIC FLORAL DECOR CATERING PHOTOGRAPHY FULL_EVENT"`
	BasePrice     int64                        `json:"base_price" binding:"required,min=0"`
	PerGuestPrice int64                        `json:"per_guest_price" binding:"min=0"`
	ImageURL      string                       `json:"image_url" binding:"omitempty,url"`
	Features      []CreateFeatureRequest       `json:"features" binding:"dive"`
	Options       []CreateOptionRequest        `json:"options" binding:"dive"`
}

// CreateFeatureRequest adds an included feature to a package
type CreateFeatureRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Price       int64  `json:"price" binding:"min=0"`
	IsRemovable bool   `json:"is_removable"`
	IsRequired  bool   `json:"is_required"`
}

// CreateOptionRequest adds a customization option to a package
type CreateOptionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Price       int64  `json:"price" binding:"min=0"`
	Category    string `json:"category" binding:"max=50"`
	IsRequired  bool   `json:"is_required"`
	MaxQuantity int    `json:"max_quantity" binding:"required,min=1,max=100"`
}

// UpdatePackageRequest updates mutable package fields
type UpdatePackageRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=3,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	BasePrice     *int64  `json:"base_price" binding:"omitempty,min=0"`
	PerGuestPrice *int64  `json:"per_guest_price" binding:"omitempty,min=0"`
	Active        *bool   `json:"active"`
	ImageURL      *string `json:"image_url" binding:"omitempty,url"`
}

// PackageListQuery filters the package list
type PackageListQuery struct {
	Category string `form:"category"`
	Active   string `form:"active"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
