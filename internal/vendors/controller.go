package vendors

import (
	"errors"
	"net/http"

	"beatbloom/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateVendor handles POST /api/v1/admin/vendors
func (c *Controller) CreateVendor(ctx *gin.Context) {
	var req CreateVendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	vendor, err := c.service.CreateVendor(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create vendor", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Vendor created", vendor, nil)
}

// GetVendor handles GET /api/v1/vendors/:id
func (c *Controller) GetVendor(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid vendor ID", nil, nil)
		return
	}

	vendor, err := c.service.GetVendor(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrVendorNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Vendor not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get vendor", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vendor retrieved", vendor, nil)
}

// ListVendors handles GET /api/v1/vendors
func (c *Controller) ListVendors(ctx *gin.Context) {
	var query VendorListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	vendorList, total, err := c.service.ListVendors(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list vendors", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vendors retrieved", gin.H{
		"vendors":     vendorList,
		"total_count": total,
		"page":        query.Page,
		"limit":       query.Limit,
	}, nil)
}

// UpdateAvailability handles PUT /api/v1/vendors/:id/availability
func (c *Controller) UpdateAvailability(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid vendor ID", nil, nil)
		return
	}

	var req UpdateAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	if err := c.service.SetAvailability(ctx.Request.Context(), id, Availability(req.Availability)); err != nil {
		if errors.Is(err, ErrVendorNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Vendor not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to update availability", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability updated", nil, nil)
}
