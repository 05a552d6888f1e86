package bookings

import (
	"time"

	"beatbloom/internal/pricing"

	"github.com/google/uuid"
)

// QuoteResponse is the priced breakdown for a prospective configuration
type QuoteResponse struct {
	PackageID uuid.UUID         `json:"package_id"`
	Guests    int               `json:"guests"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// BookingResponse is the API shape of a booking
type BookingResponse struct {
	ID                uuid.UUID     `json:"id"`
	BookingRef        string        `json:"booking_ref"`
	PackageID         uuid.UUID     `json:"package_id"`
	EventDate         time.Time     `json:"event_date"`
	Location          string        `json:"location"`
	Guests            int           `json:"guests"`
	TotalAmount       int64         `json:"total_amount"`
	AmountPaid        int64         `json:"amount_paid"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	VendorStatus      VendorStatus  `json:"vendor_status"`
	AssignedVendorID  *uuid.UUID    `json:"assigned_vendor_id,omitempty"`
	RefundStatus      RefundStatus  `json:"refund_status"`
	RefundAmount      int64         `json:"refund_amount"`
	OnlinePaymentDone bool          `json:"online_payment_done"`
	OTPVerified       bool          `json:"otp_verified"`
	CancelReason      string        `json:"cancel_reason,omitempty"`
	CancelledAt       *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// PaymentResponse is the API shape of one ledger entry
type PaymentResponse struct {
	ID            uuid.UUID          `json:"id"`
	Amount        int64              `json:"amount"`
	Status        PaymentEntryStatus `json:"status"`
	Method        string             `json:"method"`
	TransactionID string             `json:"transaction_id"`
	FailureReason string             `json:"failure_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// CompletionResponse reports how a completion request resolved: either the
// booking completed immediately, or an OTP was issued for on-site
// confirmation.
type CompletionResponse struct {
	Completed    bool       `json:"completed"`
	OTPIssued    bool       `json:"otp_issued"`
	OTPExpiresAt *time.Time `json:"otp_expires_at,omitempty"`
}

// ToBookingResponse maps a booking aggregate to its API shape
func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		BookingRef:        b.BookingRef,
		PackageID:         b.PackageID,
		EventDate:         b.EventDate,
		Location:          b.Location,
		Guests:            b.Guests,
		TotalAmount:       b.TotalAmount,
		AmountPaid:        b.AmountPaid,
		PaymentStatus:     b.PaymentStatus,
		VendorStatus:      b.VendorStatus,
		AssignedVendorID:  b.AssignedVendorID,
		RefundStatus:      b.RefundStatus,
		RefundAmount:      b.RefundAmount,
		OnlinePaymentDone: b.OnlinePaymentDone,
		OTPVerified:       b.OTPVerified,
		CancelReason:      b.CancelReason,
		CancelledAt:       b.CancelledAt,
		CreatedAt:         b.CreatedAt,
	}
}

// ToPaymentResponses maps ledger entries to their API shape
func ToPaymentResponses(payments []Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Status:        p.Status,
			Method:        p.Method,
			TransactionID: p.TransactionID,
			FailureReason: p.FailureReason,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out
}
