package cancellation

import (
	"errors"
	"net/http"

	"beatbloom/internal/bookings"
	"beatbloom/internal/shared/middleware"
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

// RefundRequest optionally narrows the refund to part of the paid amount and
// records why the operator issued it
type RefundRequest struct {
	Amount int64  `json:"amount" binding:"omitempty,min=1"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

func respondRefundError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, bookings.ErrNotOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, bookings.ErrConflict),
		errors.Is(err, bookings.ErrConcurrency),
		errors.Is(err, ErrNotCancelled),
		errors.Is(err, ErrRefundAlreadyProcessed):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrNothingToRefund),
		errors.Is(err, ErrRefundExceedsPaid):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrGatewayRefundFailed):
		response.RespondJSON(ctx, "error", http.StatusBadGateway, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Something went wrong", nil, err.Error())
	}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req bookings.CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	rawUserID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}
	userIDStr, ok := rawUserID.(string)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}
	role, _ := ctx.Get("user_role")
	isAdmin := role == middleware.RoleAdmin

	booking, err := c.service.RequestCancellation(ctx.Request.Context(), id, userID, isAdmin, req.Reason)
	if err != nil {
		respondRefundError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled", bookings.ToBookingResponse(booking), nil)
}

// ProcessRefund handles POST /api/v1/bookings/:id/refund (admin only)
func (c *Controller) ProcessRefund(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		response.RespondBindingError(ctx, err)
		return
	}

	booking, err := c.service.ProcessRefund(ctx.Request.Context(), id, req.Amount, req.Reason)
	if err != nil {
		respondRefundError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund processed", bookings.ToBookingResponse(booking), nil)
}
