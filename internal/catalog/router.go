package catalog

import (
	"beatbloom/internal/shared/config"
	"beatbloom/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public browsing routes
	packages := rg.Group("/packages")
	{
		packages.GET("", controller.ListPackages)
		packages.GET("/:id", controller.GetPackage)
	}

	// Admin catalog management
	admin := rg.Group("/admin/packages")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreatePackage)
		admin.PUT("/:id", controller.UpdatePackage)
		admin.POST("/:id/features", controller.AddFeature)
		admin.POST("/:id/options", controller.AddOption)
	}
}
