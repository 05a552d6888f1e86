package bookings

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"beatbloom/internal/catalog"
	"beatbloom/internal/payments"
	"beatbloom/internal/shared/config"
	"beatbloom/internal/vendors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateBooking(ctx context.Context, booking *Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) UpdateBookingVersioned(ctx context.Context, booking *Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockRepository) ApplyPaymentVersioned(ctx context.Context, booking *Booking, payment *Payment) error {
	return m.Called(ctx, booking, payment).Error(0)
}

func (m *mockRepository) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]Payment), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetPackage(ctx context.Context, id uuid.UUID) (*catalog.PackageDefinition, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*catalog.PackageDefinition); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockVendorDirectory struct {
	mock.Mock
}

func (m *mockVendorDirectory) GetVendor(ctx context.Context, id uuid.UUID) (*vendors.Vendor, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*vendors.Vendor); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Charge(ctx context.Context, amount int64, method string) (payments.ChargeResult, error) {
	args := m.Called(ctx, amount, method)
	return args.Get(0).(payments.ChargeResult), args.Error(1)
}

func (m *mockGateway) Refund(ctx context.Context, transactionID string, amount int64) (payments.ChargeResult, error) {
	args := m.Called(ctx, transactionID, amount)
	return args.Get(0).(payments.ChargeResult), args.Error(1)
}

func (m *mockGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return m.Called(payload, signature).Bool(0)
}

type mockDeduper struct {
	mock.Mock
}

func (m *mockDeduper) Acquire(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockDeduper) Release(ctx context.Context, transactionID string) error {
	return m.Called(ctx, transactionID).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, channel, template, recipient string, payload map[string]interface{}) error {
	return m.Called(ctx, channel, template, recipient, payload).Error(0)
}

// --- helpers ---

type serviceMocks struct {
	repo     *mockRepository
	catalog  *mockCatalog
	vendors  *mockVendorDirectory
	gateway  *mockGateway
	deduper  *mockDeduper
	notifier *mockNotifier
}

func newTestService(t *testing.T) (Service, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		repo:     &mockRepository{},
		catalog:  &mockCatalog{},
		vendors:  &mockVendorDirectory{},
		gateway:  &mockGateway{},
		deduper:  &mockDeduper{},
		notifier: &mockNotifier{},
	}
	policy := config.PolicyConfig{
		PartialPaymentPercent: 20,
		OTPTTL:                10 * time.Minute,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(m.repo, m.catalog, m.vendors, m.gateway, m.deduper, m.notifier, policy, logger)
	return svc, m
}

func pendingBooking(total int64) *Booking {
	return &Booking{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		PackageID:     uuid.New(),
		BookingRef:    "BB-20260815-TESTAA",
		Guests:        50,
		TotalAmount:   total,
		AmountPaid:    0,
		PaymentStatus: PaymentPending,
		VendorStatus:  VendorUnassigned,
		RefundStatus:  RefundNone,
		Version:       1,
	}
}

func anyNotify(m *mockNotifier) {
	m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- vendor assignment guard ---

func TestAssignVendor_RejectsUnpaidBooking(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	vendorID := uuid.New()

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.AssignVendor(context.Background(), booking.ID, vendorID)

	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Equal(t, VendorUnassigned, booking.VendorStatus, "booking must never reach ASSIGNED without payment")
	m.repo.AssertNotCalled(t, "UpdateBookingVersioned", mock.Anything, mock.Anything)
	m.vendors.AssertNotCalled(t, "GetVendor", mock.Anything, mock.Anything)
}

func TestAssignVendor_RejectsBusyVendor(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 2000
	booking.PaymentStatus = PaymentPartiallyPaid
	vendor := &vendors.Vendor{ID: uuid.New(), Name: "Bloom Crew", Availability: vendors.Busy}

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.vendors.On("GetVendor", mock.Anything, vendor.ID).Return(vendor, nil)

	_, err := svc.AssignVendor(context.Background(), booking.ID, vendor.ID)

	assert.ErrorIs(t, err, ErrVendorUnavailable)
	assert.Equal(t, VendorUnassigned, booking.VendorStatus)
	m.repo.AssertNotCalled(t, "UpdateBookingVersioned", mock.Anything, mock.Anything)
}

func TestAssignVendor_RejectsCancelledBooking(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.PaymentStatus = PaymentFullyPaid
	booking.AmountPaid = 10000
	booking.VendorStatus = VendorCancelled

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.AssignVendor(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAssignVendor_Success(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 2000
	booking.PaymentStatus = PaymentPartiallyPaid
	vendor := &vendors.Vendor{ID: uuid.New(), Name: "Bloom Crew", Email: "crew@example.com", Availability: vendors.Available}

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.vendors.On("GetVendor", mock.Anything, vendor.ID).Return(vendor, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	got, err := svc.AssignVendor(context.Background(), booking.ID, vendor.ID)

	require.NoError(t, err)
	assert.Equal(t, VendorAssigned, got.VendorStatus)
	require.NotNil(t, got.AssignedVendorID)
	assert.Equal(t, vendor.ID, *got.AssignedVendorID)
}

func TestAssignVendor_Reassignment(t *testing.T) {
	svc, m := newTestService(t)
	previous := uuid.New()
	booking := pendingBooking(10000)
	booking.AmountPaid = 10000
	booking.PaymentStatus = PaymentFullyPaid
	booking.VendorStatus = VendorAssigned
	booking.AssignedVendorID = &previous
	replacement := &vendors.Vendor{ID: uuid.New(), Name: "Beat Squad", Availability: vendors.Available}

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.vendors.On("GetVendor", mock.Anything, replacement.ID).Return(replacement, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	got, err := svc.AssignVendor(context.Background(), booking.ID, replacement.ID)

	require.NoError(t, err)
	assert.Equal(t, replacement.ID, *got.AssignedVendorID)
	assert.Equal(t, VendorAssigned, got.VendorStatus)
}

func TestAssignVendor_SurfacesConcurrencyConflict(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 2000
	booking.PaymentStatus = PaymentPartiallyPaid
	vendor := &vendors.Vendor{ID: uuid.New(), Availability: vendors.Available}

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.vendors.On("GetVendor", mock.Anything, vendor.ID).Return(vendor, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(ErrConcurrency)

	_, err := svc.AssignVendor(context.Background(), booking.ID, vendor.ID)
	assert.ErrorIs(t, err, ErrConcurrency)
}

// --- payments ---

func TestRecordPayment_SuccessCrossesPartialThreshold(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.gateway.On("Charge", mock.Anything, int64(2000), "CARD").
		Return(payments.ChargeResult{Success: true, TransactionID: "TXN_1"}, nil)
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.MatchedBy(func(p *Payment) bool {
		return p.Status == PaymentEntrySuccess && p.Amount == 2000 && p.TransactionID == "TXN_1"
	})).Return(nil)
	anyNotify(m.notifier)

	got, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 2000, Method: "CARD"})

	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.AmountPaid)
	assert.Equal(t, PaymentPartiallyPaid, got.PaymentStatus)
	assert.True(t, got.OnlinePaymentDone)
}

func TestRecordPayment_DeclinedLandsOnLedger(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.gateway.On("Charge", mock.Anything, int64(2000), "CARD").
		Return(payments.ChargeResult{Success: false, FailureReason: "insufficient funds"}, nil)
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.MatchedBy(func(p *Payment) bool {
		return p.Status == PaymentEntryFailed && p.FailureReason == "insufficient funds" && p.TransactionID != ""
	})).Return(nil)
	anyNotify(m.notifier)

	_, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 2000, Method: "CARD"})

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, PaymentFailed, booking.PaymentStatus)
	assert.Equal(t, int64(0), booking.AmountPaid, "declined attempt must not credit the booking")
}

func TestRecordPayment_RejectsOverpayment(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 8000
	booking.PaymentStatus = PaymentPartiallyPaid

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 3000, Method: "CARD"})

	assert.ErrorIs(t, err, ErrOverpayment)
	m.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_RejectsFullyPaidBooking(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 10000
	booking.PaymentStatus = PaymentFullyPaid

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 1, Method: "CARD"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRecordPayment_FailedStatusIsRetryable(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.PaymentStatus = PaymentFailed

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.gateway.On("Charge", mock.Anything, int64(10000), "UPI").
		Return(payments.ChargeResult{Success: true, TransactionID: "TXN_2"}, nil)
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.Anything).Return(nil)
	anyNotify(m.notifier)

	got, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 10000, Method: "UPI"})

	require.NoError(t, err)
	assert.Equal(t, PaymentFullyPaid, got.PaymentStatus)
}

func TestRecordPayment_VersionConflictRetriesWriteNotCharge(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	fresh := &Booking{}
	*fresh = *booking
	fresh.Version = 2

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil).Once()
	m.gateway.On("Charge", mock.Anything, int64(2000), "CARD").
		Return(payments.ChargeResult{Success: true, TransactionID: "TXN_RACE"}, nil).Once()
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.Anything).Return(ErrConcurrency).Once()
	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(fresh, nil).Once()
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.MatchedBy(func(p *Payment) bool {
		return p.TransactionID == "TXN_RACE" && p.Amount == 2000 && p.Status == PaymentEntrySuccess
	})).Return(nil).Once()
	anyNotify(m.notifier)

	got, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 2000, Method: "CARD"})

	require.NoError(t, err)
	m.gateway.AssertNumberOfCalls(t, "Charge", 1)
	assert.Equal(t, int64(2000), got.AmountPaid, "retried write must credit the charge exactly once")
	assert.Equal(t, PaymentPartiallyPaid, got.PaymentStatus)
}

func TestRecordPayment_PersistentConflictSurfacesAfterBoundedRetries(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.gateway.On("Charge", mock.Anything, int64(2000), "CARD").
		Return(payments.ChargeResult{Success: true, TransactionID: "TXN_HOT"}, nil).Once()
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.Anything).Return(ErrConcurrency)

	_, err := svc.RecordPayment(context.Background(), booking.ID, RecordPaymentRequest{Amount: 2000, Method: "CARD"})

	assert.ErrorIs(t, err, ErrConcurrency)
	m.gateway.AssertNumberOfCalls(t, "Charge", 1)
	m.repo.AssertNumberOfCalls(t, "ApplyPaymentVersioned", 1+maxApplyRetries)
}

// --- webhook idempotency ---

func TestHandleGatewayWebhook_DuplicateDeliveryIsNoop(t *testing.T) {
	svc, m := newTestService(t)

	m.deduper.On("Acquire", mock.Anything, "TXN_DUP").Return(false, nil)

	err := svc.HandleGatewayWebhook(context.Background(), GatewayWebhookRequest{
		TransactionID: "TXN_DUP",
		BookingID:     uuid.New().String(),
		Amount:        2000,
		Method:        "CARD",
		Status:        "SUCCESS",
	})

	assert.NoError(t, err)
	m.repo.AssertNotCalled(t, "ApplyPaymentVersioned", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGatewayWebhook_LedgerDuplicateIsNoop(t *testing.T) {
	svc, m := newTestService(t)

	m.deduper.On("Acquire", mock.Anything, "TXN_SEEN").Return(true, nil)
	m.repo.On("TransactionIDExists", mock.Anything, "TXN_SEEN").Return(true, nil)

	err := svc.HandleGatewayWebhook(context.Background(), GatewayWebhookRequest{
		TransactionID: "TXN_SEEN",
		BookingID:     uuid.New().String(),
		Amount:        2000,
		Method:        "CARD",
		Status:        "SUCCESS",
	})

	assert.NoError(t, err)
	m.repo.AssertNotCalled(t, "ApplyPaymentVersioned", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGatewayWebhook_SuccessCreditsOnce(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.deduper.On("Acquire", mock.Anything, "TXN_NEW").Return(true, nil)
	m.repo.On("TransactionIDExists", mock.Anything, "TXN_NEW").Return(false, nil)
	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.MatchedBy(func(p *Payment) bool {
		return p.TransactionID == "TXN_NEW" && p.Status == PaymentEntrySuccess
	})).Return(nil)
	anyNotify(m.notifier)

	err := svc.HandleGatewayWebhook(context.Background(), GatewayWebhookRequest{
		TransactionID: "TXN_NEW",
		BookingID:     booking.ID.String(),
		Amount:        2000,
		Method:        "UPI",
		Status:        "SUCCESS",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2000), booking.AmountPaid)
	m.repo.AssertNumberOfCalls(t, "ApplyPaymentVersioned", 1)
}

func TestHandleGatewayWebhook_ProcessingErrorReleasesKey(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.deduper.On("Acquire", mock.Anything, "TXN_ERR").Return(true, nil)
	m.repo.On("TransactionIDExists", mock.Anything, "TXN_ERR").Return(false, nil)
	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.Anything).Return(ErrConcurrency)
	m.deduper.On("Release", mock.Anything, "TXN_ERR").Return(nil)

	err := svc.HandleGatewayWebhook(context.Background(), GatewayWebhookRequest{
		TransactionID: "TXN_ERR",
		BookingID:     booking.ID.String(),
		Amount:        2000,
		Method:        "UPI",
		Status:        "SUCCESS",
	})

	assert.ErrorIs(t, err, ErrConcurrency)
	m.deduper.AssertCalled(t, "Release", mock.Anything, "TXN_ERR")
}

func TestHandleGatewayWebhook_RejectsTerminalBooking(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.VendorStatus = VendorCancelled
	booking.RefundStatus = RefundProcessed
	booking.RefundAmount = 2000

	m.deduper.On("Acquire", mock.Anything, "TXN_LATE").Return(true, nil)
	m.repo.On("TransactionIDExists", mock.Anything, "TXN_LATE").Return(false, nil)
	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.deduper.On("Release", mock.Anything, "TXN_LATE").Return(nil)

	err := svc.HandleGatewayWebhook(context.Background(), GatewayWebhookRequest{
		TransactionID: "TXN_LATE",
		BookingID:     booking.ID.String(),
		Amount:        2000,
		Method:        "CARD",
		Status:        "SUCCESS",
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(0), booking.AmountPaid, "a cancelled booking must not be credited")
	m.repo.AssertNotCalled(t, "ApplyPaymentVersioned", mock.Anything, mock.Anything, mock.Anything)
	m.deduper.AssertCalled(t, "Release", mock.Anything, "TXN_LATE")
}

// --- completion ---

func inProgressBooking(total, paid int64, online bool) *Booking {
	b := pendingBooking(total)
	b.AmountPaid = paid
	b.PaymentStatus = PaymentStatusFor(total, paid, 20)
	b.OnlinePaymentDone = online
	vendorID := uuid.New()
	b.VendorStatus = VendorInProgress
	b.AssignedVendorID = &vendorID
	return b
}

func TestRequestCompletion_FullyPaidOnlineCompletesImmediately(t *testing.T) {
	svc, m := newTestService(t)
	booking := inProgressBooking(10000, 10000, true)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	result, err := svc.RequestCompletion(context.Background(), booking.ID)

	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.False(t, result.OTPIssued)
	assert.Equal(t, VendorCompleted, booking.VendorStatus)
	assert.Empty(t, booking.OTPHash)
}

func TestRequestCompletion_PartialPaymentIssuesOTP(t *testing.T) {
	svc, m := newTestService(t)
	booking := inProgressBooking(10000, 2000, true)

	var sentCode string
	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	m.notifier.On("Send", mock.Anything, mock.Anything, templateCompletionOTP, booking.UserID.String(), mock.MatchedBy(func(payload map[string]interface{}) bool {
		code, ok := payload["code"].(string)
		if ok {
			sentCode = code
		}
		return ok
	})).Return(nil)

	result, err := svc.RequestCompletion(context.Background(), booking.ID)

	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.True(t, result.OTPIssued)
	require.NotNil(t, result.OTPExpiresAt)
	assert.Equal(t, VendorInProgress, booking.VendorStatus, "booking stays in progress until the OTP is verified")
	require.NotEmpty(t, booking.OTPHash)
	require.Len(t, sentCode, 6)
	assert.True(t, VerifyOTPHash(booking.OTPHash, sentCode), "stored hash must match the code the customer received")
}

func TestRequestCompletion_CashPaidFullIssuesOTP(t *testing.T) {
	svc, m := newTestService(t)
	// Fully paid but part of it offline: the money trail alone is not enough.
	booking := inProgressBooking(10000, 10000, false)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	result, err := svc.RequestCompletion(context.Background(), booking.ID)

	require.NoError(t, err)
	assert.True(t, result.OTPIssued)
	assert.Equal(t, VendorInProgress, booking.VendorStatus)
}

func TestRequestCompletion_RequiresInProgress(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.VendorStatus = VendorAssigned

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.RequestCompletion(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVerifyCompletionOTP_Lifecycle(t *testing.T) {
	t.Run("not issued", func(t *testing.T) {
		svc, m := newTestService(t)
		booking := inProgressBooking(10000, 2000, true)
		m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err := svc.VerifyCompletionOTP(context.Background(), booking.ID, "123456")
		assert.ErrorIs(t, err, ErrOTPNotIssued)
	})

	t.Run("expired", func(t *testing.T) {
		svc, m := newTestService(t)
		booking := inProgressBooking(10000, 2000, true)
		hash, err := HashOTP("123456")
		require.NoError(t, err)
		expired := time.Now().UTC().Add(-time.Minute)
		booking.OTPHash = hash
		booking.OTPExpiresAt = &expired
		m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err = svc.VerifyCompletionOTP(context.Background(), booking.ID, "123456")
		assert.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("mismatch", func(t *testing.T) {
		svc, m := newTestService(t)
		booking := inProgressBooking(10000, 2000, true)
		hash, err := HashOTP("123456")
		require.NoError(t, err)
		valid := time.Now().UTC().Add(time.Minute)
		booking.OTPHash = hash
		booking.OTPExpiresAt = &valid
		m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err = svc.VerifyCompletionOTP(context.Background(), booking.ID, "654321")
		assert.ErrorIs(t, err, ErrOTPMismatch)
	})

	t.Run("success settles remainder as cash", func(t *testing.T) {
		svc, m := newTestService(t)
		booking := inProgressBooking(10000, 2000, true)
		hash, err := HashOTP("123456")
		require.NoError(t, err)
		valid := time.Now().UTC().Add(time.Minute)
		booking.OTPHash = hash
		booking.OTPExpiresAt = &valid

		m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
		m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.MatchedBy(func(p *Payment) bool {
			return p.Method == MethodCashOnService && p.Amount == 8000 && p.Status == PaymentEntrySuccess
		})).Return(nil)
		anyNotify(m.notifier)

		got, err := svc.VerifyCompletionOTP(context.Background(), booking.ID, "123456")

		require.NoError(t, err)
		assert.Equal(t, VendorCompleted, got.VendorStatus)
		assert.Equal(t, PaymentFullyPaid, got.PaymentStatus)
		assert.Equal(t, got.TotalAmount, got.AmountPaid)
		assert.True(t, got.OTPVerified)
	})
}

// --- cancellation and refunds ---

func TestCancelBooking_OwnerOnly(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.CancelBooking(context.Background(), booking.ID, uuid.New(), false, "changed plans")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelBooking_PaidBookingEntersRefundPending(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 2000
	booking.PaymentStatus = PaymentPartiallyPaid

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	got, err := svc.CancelBooking(context.Background(), booking.ID, booking.UserID, false, "changed plans")

	require.NoError(t, err)
	assert.Equal(t, VendorCancelled, got.VendorStatus)
	assert.Equal(t, RefundPending, got.RefundStatus)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, "changed plans", got.CancelReason)
}

func TestCancelBooking_UnpaidBookingStaysRefundNone(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	got, err := svc.CancelBooking(context.Background(), booking.ID, booking.UserID, false, "changed plans")

	require.NoError(t, err)
	assert.Equal(t, RefundNone, got.RefundStatus)
}

func TestCancelBooking_CompletedIsConflict(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.VendorStatus = VendorCompleted

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.CancelBooking(context.Background(), booking.ID, booking.UserID, false, "too late")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelBooking_AdminCanCancelAnyBooking(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)
	anyNotify(m.notifier)

	_, err := svc.CancelBooking(context.Background(), booking.ID, uuid.New(), true, "vendor no-show")
	assert.NoError(t, err)
}

func TestRecordRefundOutcome_Success(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 2000
	booking.PaymentStatus = PaymentPartiallyPaid
	booking.VendorStatus = VendorCancelled
	booking.RefundStatus = RefundPending

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("ApplyPaymentVersioned", mock.Anything, booking, mock.MatchedBy(func(p *Payment) bool {
		return p.Status == PaymentEntryRefunded && p.Amount == 2000
	})).Return(nil)

	got, err := svc.RecordRefundOutcome(context.Background(), booking.ID, 2000, "TXN_REF", true)

	require.NoError(t, err)
	assert.Equal(t, RefundProcessed, got.RefundStatus)
	assert.Equal(t, int64(2000), got.RefundAmount)
	assert.Equal(t, int64(0), got.AmountPaid)
}

func TestRecordRefundOutcome_FailureLeavesLedgerAlone(t *testing.T) {
	svc, m := newTestService(t)
	booking := pendingBooking(10000)
	booking.AmountPaid = 2000
	booking.RefundStatus = RefundPending

	m.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	m.repo.On("UpdateBookingVersioned", mock.Anything, booking).Return(nil)

	got, err := svc.RecordRefundOutcome(context.Background(), booking.ID, 2000, "", false)

	require.NoError(t, err)
	assert.Equal(t, RefundFailed, got.RefundStatus)
	assert.Equal(t, int64(2000), got.AmountPaid, "failed refund must not touch the paid amount")
	m.repo.AssertNotCalled(t, "ApplyPaymentVersioned", mock.Anything, mock.Anything, mock.Anything)
}

// --- checkout ---

func testPackage() *catalog.PackageDefinition {
	return &catalog.PackageDefinition{
		ID:            uuid.New(),
		Name:          "Garden Wedding",
		BasePrice:     5000,
		PerGuestPrice: 200,
		Active:        true,
	}
}

func TestCreateBooking_FreezesServerComputedTotal(t *testing.T) {
	svc, m := newTestService(t)
	pkg := testPackage()
	userID := uuid.New()

	m.catalog.On("GetPackage", mock.Anything, pkg.ID).Return(pkg, nil)
	m.repo.On("CreateBooking", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		// 5000 + 200*10 = 7000, tax 1260, total 8260
		return b.TotalAmount == 8260 && b.PaymentStatus == PaymentPending && b.VendorStatus == VendorUnassigned
	})).Return(nil)
	anyNotify(m.notifier)

	booking, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		PackageID: pkg.ID.String(),
		EventDate: time.Now().UTC().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		Location:  "Jubilee Hills, Hyderabad",
		Guests:    10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8260), booking.TotalAmount)
	assert.Equal(t, userID, booking.UserID)
	assert.Regexp(t, `^BB-\d{8}-[A-Z]{6}$`, booking.BookingRef)
}

func TestCreateBooking_RejectsPastEventDate(t *testing.T) {
	svc, m := newTestService(t)
	pkg := testPackage()

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		PackageID: pkg.ID.String(),
		EventDate: time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
		Location:  "Somewhere",
		Guests:    10,
	})
	assert.ErrorIs(t, err, ErrEventDateInPast)
	m.catalog.AssertNotCalled(t, "GetPackage", mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateBooking_RejectsInactivePackage(t *testing.T) {
	svc, m := newTestService(t)
	pkg := testPackage()
	pkg.Active = false

	m.catalog.On("GetPackage", mock.Anything, pkg.ID).Return(pkg, nil)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		PackageID: pkg.ID.String(),
		EventDate: time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		Location:  "Somewhere",
		Guests:    10,
	})
	assert.ErrorIs(t, err, ErrPackageInactive)
}
