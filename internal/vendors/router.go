package vendors

import (
	"beatbloom/internal/shared/config"
	"beatbloom/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVendorRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public vendor directory
	public := rg.Group("/vendors")
	{
		public.GET("", controller.ListVendors)
		public.GET("/:id", controller.GetVendor)
	}

	// Availability updates come from vendors themselves or admins
	protected := rg.Group("/vendors")
	protected.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(middleware.RoleVendor, middleware.RoleAdmin))
	{
		protected.PUT("/:id/availability", controller.UpdateAvailability)
	}

	// Admin vendor management
	admin := rg.Group("/admin/vendors")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateVendor)
	}
}
