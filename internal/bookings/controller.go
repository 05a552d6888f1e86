package bookings

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"beatbloom/internal/catalog"
	"beatbloom/internal/payments"
	"beatbloom/internal/pricing"
	"beatbloom/internal/shared/middleware"
	"beatbloom/internal/shared/utils/response"
	"beatbloom/internal/vendors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// webhookSignatureHeader carries the gateway's HMAC over the raw body
const webhookSignatureHeader = "X-Webhook-Signature"

type Controller struct {
	service Service
	gateway payments.Gateway
}

func NewController(service Service, gateway payments.Gateway) *Controller {
	return &Controller{service: service, gateway: gateway}
}

// respondServiceError maps service sentinels onto HTTP statuses
func respondServiceError(ctx *gin.Context, err error) {
	var verrs pricing.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Customization is invalid", nil, verrs)
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, catalog.ErrPackageNotFound),
		errors.Is(err, vendors.ErrVendorNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrVendorUnavailable),
		errors.Is(err, ErrPackageInactive):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrConcurrency):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Booking was modified concurrently, please retry", nil, nil)
	case errors.Is(err, ErrPaymentRequired),
		errors.Is(err, ErrPaymentDeclined):
		response.RespondJSON(ctx, "error", http.StatusPaymentRequired, err.Error(), nil, nil)
	case errors.Is(err, ErrOverpayment),
		errors.Is(err, ErrEventDateInPast),
		errors.Is(err, ErrOTPNotIssued),
		errors.Is(err, ErrOTPExpired),
		errors.Is(err, ErrOTPMismatch):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Something went wrong", nil, err.Error())
	}
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func isAdmin(ctx *gin.Context) bool {
	role, exists := ctx.Get("user_role")
	return exists && role == middleware.RoleAdmin
}

// Quote handles POST /api/v1/bookings/quote
func (c *Controller) Quote(ctx *gin.Context) {
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	quote, err := c.service.Quote(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote computed", quote, nil)
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created", ToBookingResponse(booking), nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok || (!isAdmin(ctx) && booking.UserID != userID) {
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Booking belongs to another user", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved", ToBookingResponse(booking), nil)
}

// ListMyBookings handles GET /api/v1/bookings
func (c *Controller) ListMyBookings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	bookings, total, err := c.service.GetUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, ToBookingResponse(&bookings[i]))
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved", gin.H{
		"bookings":    responses,
		"total_count": total,
		"page":        query.Page,
		"limit":       query.Limit,
	}, nil)
}

// ListAllBookings handles GET /api/v1/admin/bookings
func (c *Controller) ListAllBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	bookings, total, err := c.service.GetAllBookings(ctx.Request.Context(), query)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, ToBookingResponse(&bookings[i]))
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved", gin.H{
		"bookings":    responses,
		"total_count": total,
		"page":        query.Page,
		"limit":       query.Limit,
	}, nil)
}

// ListPayments handles GET /api/v1/bookings/:id/payments
func (c *Controller) ListPayments(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	payments, err := c.service.GetPayments(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved", ToPaymentResponses(payments), nil)
}

// RecordPayment handles POST /api/v1/bookings/:id/payments
func (c *Controller) RecordPayment(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	booking, err := c.service.RecordPayment(ctx.Request.Context(), id, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment recorded", ToBookingResponse(booking), nil)
}

// GatewayWebhook handles POST /api/v1/payments/webhook. The signature is
// checked over the raw body before anything is parsed.
func (c *Controller) GatewayWebhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to read body", nil, nil)
		return
	}

	signature := ctx.GetHeader(webhookSignatureHeader)
	if !c.gateway.VerifyWebhookSignature(body, signature) {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid webhook signature", nil, nil)
		return
	}

	var req GatewayWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid webhook payload", nil, err.Error())
		return
	}
	if req.TransactionID == "" || req.BookingID == "" || req.Amount <= 0 {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid webhook payload", nil, nil)
		return
	}

	if err := c.service.HandleGatewayWebhook(ctx.Request.Context(), req); err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Webhook processed", nil, nil)
}

// AssignVendor handles POST /api/v1/admin/bookings/:id/assign-vendor
func (c *Controller) AssignVendor(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req AssignVendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid vendor ID", nil, nil)
		return
	}

	booking, err := c.service.AssignVendor(ctx.Request.Context(), id, vendorID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Vendor assigned", ToBookingResponse(booking), nil)
}

// StartService handles POST /api/v1/bookings/:id/start
func (c *Controller) StartService(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.StartService(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Service started", ToBookingResponse(booking), nil)
}

// RequestCompletion handles POST /api/v1/bookings/:id/complete
func (c *Controller) RequestCompletion(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	result, err := c.service.RequestCompletion(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	message := "Completion OTP issued"
	if result.Completed {
		message = "Booking completed"
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, result, nil)
}

// VerifyCompletionOTP handles POST /api/v1/bookings/:id/otp/verify
func (c *Controller) VerifyCompletionOTP(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondBindingError(ctx, err)
		return
	}

	booking, err := c.service.VerifyCompletionOTP(ctx.Request.Context(), id, req.Code)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking completed", ToBookingResponse(booking), nil)
}
