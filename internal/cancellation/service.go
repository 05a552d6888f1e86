package cancellation

import (
	"context"
	"fmt"
	"log/slog"

	"beatbloom/internal/bookings"
	"beatbloom/internal/payments"

	"github.com/google/uuid"
)

// BookingEngine is the slice of the booking service the refund coordinator
// drives. All writes go through it so the versioned-write discipline holds.
type BookingEngine interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	GetPayments(ctx context.Context, bookingID uuid.UUID) ([]bookings.Payment, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool, reason string) (*bookings.Booking, error)
	RecordRefundOutcome(ctx context.Context, bookingID uuid.UUID, amount int64, transactionID string, succeeded bool) (*bookings.Booking, error)
}

// Service coordinates cancellation and the refund that may follow it.
// Cancellation itself is a booking-state concern; the coordinator's own job
// is ordering the gateway call and the outcome write so a crash in between
// leaves the booking retryable, never double-refunded.
type Service interface {
	RequestCancellation(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool, reason string) (*bookings.Booking, error)
	ProcessRefund(ctx context.Context, bookingID uuid.UUID, amount int64, reason string) (*bookings.Booking, error)
}

type service struct {
	engine  BookingEngine
	gateway payments.Gateway
	logger  *slog.Logger
}

// NewService creates the cancellation and refund coordinator
func NewService(engine BookingEngine, gateway payments.Gateway, logger *slog.Logger) Service {
	return &service{engine: engine, gateway: gateway, logger: logger}
}

func (s *service) RequestCancellation(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool, reason string) (*bookings.Booking, error) {
	return s.engine.CancelBooking(ctx, bookingID, userID, isAdmin, reason)
}

// ProcessRefund pushes a cancelled booking's money back through the gateway.
// amount == 0 means refund everything paid; reason is the operator's note,
// kept in the audit log.
func (s *service) ProcessRefund(ctx context.Context, bookingID uuid.UUID, amount int64, reason string) (*bookings.Booking, error) {
	booking, err := s.engine.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.IsCancelled() {
		return nil, ErrNotCancelled
	}
	if booking.RefundStatus == bookings.RefundProcessed {
		return nil, ErrRefundAlreadyProcessed
	}
	if booking.AmountPaid <= 0 {
		return nil, ErrNothingToRefund
	}
	if amount == 0 {
		amount = booking.AmountPaid
	}
	if amount > booking.AmountPaid {
		return nil, ErrRefundExceedsPaid
	}

	transactionID, err := s.latestChargeTransaction(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "processing refund",
		slog.String("booking_id", bookingID.String()),
		slog.Int64("amount", amount),
		slog.String("reason", reason),
	)

	result, err := s.gateway.Refund(ctx, transactionID, amount)
	if err != nil {
		return nil, fmt.Errorf("gateway refund failed: %w", err)
	}

	if !result.Success {
		s.logger.WarnContext(ctx, "gateway declined refund",
			slog.String("booking_id", bookingID.String()),
			slog.Int64("amount", amount),
			slog.String("reason", result.FailureReason),
		)
		if _, err := s.engine.RecordRefundOutcome(ctx, bookingID, amount, "", false); err != nil {
			return nil, err
		}
		return nil, ErrGatewayRefundFailed
	}

	return s.engine.RecordRefundOutcome(ctx, bookingID, amount, result.TransactionID, true)
}

// latestChargeTransaction returns the most recent successful charge's
// transaction id, the reference the gateway refunds against.
func (s *service) latestChargeTransaction(ctx context.Context, bookingID uuid.UUID) (string, error) {
	entries, err := s.engine.GetPayments(ctx, bookingID)
	if err != nil {
		return "", err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Status == bookings.PaymentEntrySuccess {
			return entries[i].TransactionID, nil
		}
	}
	return "", ErrNothingToRefund
}
