package bookings

// vendorTransitions is the legal vendor-status transition table.
// ASSIGNED -> ASSIGNED covers a vendor change before work starts.
var vendorTransitions = map[VendorStatus][]VendorStatus{
	VendorUnassigned: {VendorAssigned, VendorCancelled},
	VendorAssigned:   {VendorAssigned, VendorInProgress, VendorCancelled},
	VendorInProgress: {VendorCompleted, VendorCancelled},
	VendorCompleted:  {},
	VendorCancelled:  {},
}

// CanTransitionVendor reports whether from -> to is a legal vendor transition
func CanTransitionVendor(from, to VendorStatus) bool {
	for _, allowed := range vendorTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionVendor moves the booking's vendor status, or returns ErrConflict
// if the transition is illegal. Terminal states never transition again.
func (b *Booking) TransitionVendor(to VendorStatus) error {
	if !CanTransitionVendor(b.VendorStatus, to) {
		return ErrConflict
	}
	b.VendorStatus = to
	return nil
}

// PaymentStatusFor derives the payment status from cumulative paid amount.
// The partial threshold is a policy constant (percent of total) applied at
// checkout time, never hardcoded at call sites.
func PaymentStatusFor(totalAmount, amountPaid, partialPercent int64) PaymentStatus {
	if totalAmount <= 0 || amountPaid <= 0 {
		return PaymentPending
	}
	if amountPaid >= totalAmount {
		return PaymentFullyPaid
	}
	if amountPaid*100 >= totalAmount*partialPercent {
		return PaymentPartiallyPaid
	}
	return PaymentPending
}

// FailedPaymentStatus returns the status after a declined attempt. Only
// PENDING_PAYMENT and PARTIALLY_PAID degrade to FAILED_PAYMENT; a fully paid
// booking is unaffected by a stray failed attempt.
func FailedPaymentStatus(current PaymentStatus) PaymentStatus {
	switch current {
	case PaymentPending, PaymentPartiallyPaid, PaymentFailed:
		return PaymentFailed
	default:
		return current
	}
}
