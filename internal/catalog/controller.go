package catalog

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

// CreatePackage handles POST /api/v1/admin/packages
func (c *Controller) CreatePackage(ctx *gin.Context) {
	var req CreatePackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	pkg, err := c.service.CreatePackage(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create package", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Package created", pkg, nil)
}

// GetPackage handles GET /api/v1/packages/:id
func (c *Controller) GetPackage(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid package ID", nil, nil)
		return
	}

	pkg, err := c.service.GetPackage(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Package not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get package", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Package retrieved", pkg, nil)
}

// ListPackages handles GET /api/v1/packages
func (c *Controller) ListPackages(ctx *gin.Context) {
	var query PackageListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	pkgs, total, err := c.service.ListPackages(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list packages", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Packages retrieved", gin.H{
		"packages":    pkgs,
		"total_count": total,
		"page":        query.Page,
		"limit":       query.Limit,
	}, nil)
}

// UpdatePackage handles PUT /api/v1/admin/packages/:id
func (c *Controller) UpdatePackage(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid package ID", nil, nil)
		return
	}

	var req UpdatePackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	pkg, err := c.service.UpdatePackage(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Package not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to update package", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Package updated", pkg, nil)
}

// AddFeature handles POST /api/v1/admin/packages/:id/features
func (c *Controller) AddFeature(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid package ID", nil, nil)
		return
	}

	var req CreateFeatureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	feature, err := c.service.AddFeature(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Package not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to add feature", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Feature added", feature, nil)
}

// AddOption handles POST /api/v1/admin/packages/:id/options
func (c *Controller) AddOption(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid package ID", nil, nil)
		return
	}

	var req CreateOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	option, err := c.service.AddOption(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Package not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to add option", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Option added", option, nil)
}
