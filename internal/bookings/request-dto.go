package bookings

import (
	"beatbloom/internal/pricing"
)

// CreateBookingRequest is the checkout payload. The customization block and
// the price are never trusted from the client: both are revalidated and
// recomputed server-side before the booking is frozen.
type CreateBookingRequest struct {
	PackageID     string                `json:"package_id" binding:"required,uuid"`
	EventDate     string                `json:"event_date" binding:"required"` // RFC 3339
	Location      string                `json:"location" binding:"required,max=500"`
	Guests        int                   `json:"guests" binding:"required,min=1,max=1000"`
	TravelFee     int64                 `json:"travel_fee" binding:"omitempty,min=0"`
	Customization pricing.SelectionInput `json:"customization"`
}

// QuoteRequest prices a prospective configuration without creating anything
type QuoteRequest struct {
	PackageID     string                `json:"package_id" binding:"required,uuid"`
	Guests        int                   `json:"guests" binding:"required,min=1,max=1000"`
	TravelFee     int64                 `json:"travel_fee" binding:"omitempty,min=0"`
	Customization pricing.SelectionInput `json:"customization"`
}

// RecordPaymentRequest is a direct charge attempt against the booking
type RecordPaymentRequest struct {
	Amount int64  `json:"amount" binding:"required,min=1"`
	Method string `json:"method" binding:"required,oneof=CARD UPI NETBANKING WALLET"`
}

// GatewayWebhookRequest is the payment gateway's asynchronous callback body.
// TransactionID is the idempotency key: replays are acknowledged, not
// re-applied.
type GatewayWebhookRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	BookingID     string `json:"booking_id" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,min=1"`
	Method        string `json:"method" binding:"required"`
	Status        string `json:"status" binding:"required,oneof=SUCCESS FAILED"`
	FailureReason string `json:"failure_reason"`
}

// AssignVendorRequest binds a vendor to the booking
type AssignVendorRequest struct {
	VendorID string `json:"vendor_id" binding:"required,uuid"`
}

// CancelBookingRequest carries the cancellation reason
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// VerifyOTPRequest is the customer's confirmation of on-site completion
type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// BookingListQuery filters paginated booking listings. UserID only applies to
// the admin listing; customer listings are already scoped to the caller.
type BookingListQuery struct {
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=PENDING_PAYMENT PARTIALLY_PAID FULLY_PAID FAILED_PAYMENT"`
	VendorStatus  string `form:"vendor_status" binding:"omitempty,oneof=UNASSIGNED ASSIGNED IN_PROGRESS COMPLETED CANCELLED"`
	UserID        string `form:"user_id" binding:"omitempty,uuid"`
	Page          int    `form:"page,default=1" binding:"min=1"`
	Limit         int    `form:"limit,default=20" binding:"min=1,max=100"`
}
