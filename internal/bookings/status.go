package bookings

// PaymentStatus tracks how much of the booking total has been collected
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING_PAYMENT"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentFullyPaid     PaymentStatus = "FULLY_PAID"
	PaymentFailed        PaymentStatus = "FAILED_PAYMENT"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPartiallyPaid, PaymentFullyPaid, PaymentFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsPaidEnoughForAssignment reports whether a vendor may be bound to a
// booking in this payment state. Assignment never happens off an unpaid
// booking.
func (s PaymentStatus) IsPaidEnoughForAssignment() bool {
	return s == PaymentPartiallyPaid || s == PaymentFullyPaid
}

// CanAcceptPayment reports whether another payment attempt makes sense.
// FAILED_PAYMENT is retryable.
func (s PaymentStatus) CanAcceptPayment() bool {
	return s != PaymentFullyPaid
}

// VendorStatus tracks the service execution lifecycle
type VendorStatus string

const (
	VendorUnassigned VendorStatus = "UNASSIGNED"
	VendorAssigned   VendorStatus = "ASSIGNED"
	VendorInProgress VendorStatus = "IN_PROGRESS"
	VendorCompleted  VendorStatus = "COMPLETED"
	VendorCancelled  VendorStatus = "CANCELLED"
)

// IsValid checks if the vendor status is known
func (s VendorStatus) IsValid() bool {
	switch s {
	case VendorUnassigned, VendorAssigned, VendorInProgress, VendorCompleted, VendorCancelled:
		return true
	}
	return false
}

// String returns the string representation of VendorStatus
func (s VendorStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further vendor transition is accepted
func (s VendorStatus) IsTerminal() bool {
	return s == VendorCompleted || s == VendorCancelled
}

// RefundStatus tracks the refund lifecycle, orthogonal to the other two
type RefundStatus string

const (
	RefundNone      RefundStatus = "NONE"
	RefundPending   RefundStatus = "PENDING"
	RefundProcessed RefundStatus = "PROCESSED"
	RefundFailed    RefundStatus = "FAILED"
)

// IsValid checks if the refund status is known
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundNone, RefundPending, RefundProcessed, RefundFailed:
		return true
	}
	return false
}

// PaymentEntryStatus is the status of one ledger entry
type PaymentEntryStatus string

const (
	PaymentEntrySuccess  PaymentEntryStatus = "SUCCESS"
	PaymentEntryPending  PaymentEntryStatus = "PENDING"
	PaymentEntryFailed   PaymentEntryStatus = "FAILED"
	PaymentEntryRefunded PaymentEntryStatus = "REFUNDED"
)
