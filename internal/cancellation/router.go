package cancellation

import (
	"beatbloom/internal/shared/config"
	"beatbloom/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("/:id/cancel", controller.CancelBooking)
		bookings.POST("/:id/refund", middleware.RequireAdmin(), controller.ProcessRefund)
	}
}
