package cancellation

import "errors"

var (
	// ErrNotCancelled rejects a refund for a booking that is still live
	ErrNotCancelled = errors.New("booking is not cancelled")

	// ErrRefundAlreadyProcessed keeps refunds one-shot per booking
	ErrRefundAlreadyProcessed = errors.New("refund has already been processed")

	// ErrNothingToRefund rejects refunds when no money was ever collected
	ErrNothingToRefund = errors.New("booking has no refundable payments")

	// ErrRefundExceedsPaid caps a partial refund at the amount actually paid
	ErrRefundExceedsPaid = errors.New("refund amount exceeds amount paid")

	// ErrGatewayRefundFailed reports a refund the gateway declined. The
	// booking is marked FAILED and an operator retries later.
	ErrGatewayRefundFailed = errors.New("gateway declined the refund")
)
