package bookings

import (
	"beatbloom/internal/shared/config"
	"beatbloom/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// The gateway calls this unauthenticated; the HMAC signature is the auth.
	rg.POST("/payments/webhook", controller.GatewayWebhook)

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("/quote", controller.Quote)
		bookings.POST("", middleware.RequireRole(middleware.RoleCustomer), controller.CreateBooking)
		bookings.GET("", controller.ListMyBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.GET("/:id/payments", controller.ListPayments)
		bookings.POST("/:id/payments", middleware.RequireRole(middleware.RoleCustomer), controller.RecordPayment)

		// Vendor-side lifecycle
		bookings.POST("/:id/start", middleware.RequireRoles(middleware.RoleVendor, middleware.RoleAdmin), controller.StartService)
		bookings.POST("/:id/complete", middleware.RequireRoles(middleware.RoleVendor, middleware.RoleAdmin), controller.RequestCompletion)

		// The customer confirms on-site completion with the OTP.
		bookings.POST("/:id/otp/verify", middleware.RequireRole(middleware.RoleCustomer), controller.VerifyCompletionOTP)

		// Assignment is an admin decision.
		bookings.POST("/:id/assign-vendor", middleware.RequireAdmin(), controller.AssignVendor)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListAllBookings)
	}
}
