package bookings

import "errors"

var (
	// ErrBookingNotFound signals an unknown booking id
	ErrBookingNotFound = errors.New("booking not found")

	// ErrConflict signals an illegal state transition, e.g. assigning a
	// cancelled booking. The request was well-formed but the booking's
	// current state forbids it.
	ErrConflict = errors.New("operation conflicts with booking state")

	// ErrConcurrency signals a version mismatch on a conditional write.
	// The caller should re-read the booking and retry.
	ErrConcurrency = errors.New("booking was modified concurrently")

	// ErrVendorUnavailable rejects assignment of a vendor that is not AVAILABLE
	ErrVendorUnavailable = errors.New("vendor is not available")

	// ErrPaymentRequired rejects vendor assignment before any payment landed
	ErrPaymentRequired = errors.New("booking must be at least partially paid before vendor assignment")

	// ErrPaymentDeclined reports a gateway-declined charge. The attempt is
	// recorded on the ledger; the customer may retry.
	ErrPaymentDeclined = errors.New("payment was declined by the gateway")

	// ErrOverpayment rejects a payment that would exceed the booking total
	ErrOverpayment = errors.New("payment exceeds outstanding balance")

	// ErrNotOwner rejects access to another customer's booking
	ErrNotOwner = errors.New("booking belongs to another user")

	// ErrPackageInactive rejects checkout against a deactivated package
	ErrPackageInactive = errors.New("package is not active")

	// ErrEventDateInPast rejects bookings for dates that already passed
	ErrEventDateInPast = errors.New("event date must be in the future")

	// OTP verification failures
	ErrOTPNotIssued = errors.New("no completion OTP has been issued")
	ErrOTPExpired   = errors.New("completion OTP has expired")
	ErrOTPMismatch  = errors.New("completion OTP does not match")
)
