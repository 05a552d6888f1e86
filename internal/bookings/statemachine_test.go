package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionVendor(t *testing.T) {
	tests := []struct {
		name    string
		from    VendorStatus
		to      VendorStatus
		allowed bool
	}{
		{"unassigned to assigned", VendorUnassigned, VendorAssigned, true},
		{"unassigned to cancelled", VendorUnassigned, VendorCancelled, true},
		{"unassigned to in progress", VendorUnassigned, VendorInProgress, false},
		{"unassigned to completed", VendorUnassigned, VendorCompleted, false},
		{"assigned to assigned (reassignment)", VendorAssigned, VendorAssigned, true},
		{"assigned to in progress", VendorAssigned, VendorInProgress, true},
		{"assigned to cancelled", VendorAssigned, VendorCancelled, true},
		{"assigned to completed", VendorAssigned, VendorCompleted, false},
		{"in progress to completed", VendorInProgress, VendorCompleted, true},
		{"in progress to cancelled", VendorInProgress, VendorCancelled, true},
		{"in progress to assigned (no reassignment mid-service)", VendorInProgress, VendorAssigned, false},
		{"completed is terminal", VendorCompleted, VendorCancelled, false},
		{"completed cannot restart", VendorCompleted, VendorInProgress, false},
		{"cancelled is terminal", VendorCancelled, VendorAssigned, false},
		{"cancelled cannot complete", VendorCancelled, VendorCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionVendor(tt.from, tt.to))
		})
	}
}

func TestTransitionVendor_IllegalReturnsConflict(t *testing.T) {
	b := &Booking{VendorStatus: VendorCancelled}
	err := b.TransitionVendor(VendorAssigned)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, VendorCancelled, b.VendorStatus, "status must not change on rejected transition")
}

func TestTransitionVendor_LegalMutates(t *testing.T) {
	b := &Booking{VendorStatus: VendorAssigned}
	err := b.TransitionVendor(VendorInProgress)
	assert.NoError(t, err)
	assert.Equal(t, VendorInProgress, b.VendorStatus)
}

func TestPaymentStatusFor(t *testing.T) {
	const partialPercent = 20

	tests := []struct {
		name   string
		total  int64
		paid   int64
		expect PaymentStatus
	}{
		{"nothing paid", 10000, 0, PaymentPending},
		{"below threshold", 10000, 1999, PaymentPending},
		{"exactly at threshold", 10000, 2000, PaymentPartiallyPaid},
		{"above threshold", 10000, 5000, PaymentPartiallyPaid},
		{"one unit short of full", 10000, 9999, PaymentPartiallyPaid},
		{"exactly full", 10000, 10000, PaymentFullyPaid},
		{"small total rounds in customer favor", 99, 19, PaymentPending},
		{"small total at threshold", 100, 20, PaymentPartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, PaymentStatusFor(tt.total, tt.paid, partialPercent))
		})
	}
}

func TestFailedPaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentFailed, FailedPaymentStatus(PaymentPending))
	assert.Equal(t, PaymentFailed, FailedPaymentStatus(PaymentPartiallyPaid))
	assert.Equal(t, PaymentFailed, FailedPaymentStatus(PaymentFailed))
	assert.Equal(t, PaymentFullyPaid, FailedPaymentStatus(PaymentFullyPaid))
}

func TestVendorStatusIsTerminal(t *testing.T) {
	assert.True(t, VendorCompleted.IsTerminal())
	assert.True(t, VendorCancelled.IsTerminal())
	assert.False(t, VendorUnassigned.IsTerminal())
	assert.False(t, VendorAssigned.IsTerminal())
	assert.False(t, VendorInProgress.IsTerminal())
}

func TestPaymentStatusAssignmentGate(t *testing.T) {
	assert.False(t, PaymentPending.IsPaidEnoughForAssignment())
	assert.False(t, PaymentFailed.IsPaidEnoughForAssignment())
	assert.True(t, PaymentPartiallyPaid.IsPaidEnoughForAssignment())
	assert.True(t, PaymentFullyPaid.IsPaidEnoughForAssignment())
}
