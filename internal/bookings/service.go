package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"beatbloom/internal/catalog"
	"beatbloom/internal/payments"
	"beatbloom/internal/pricing"
	"beatbloom/internal/shared/config"
	"beatbloom/internal/vendors"

	"github.com/google/uuid"
)

// Notification templates published on booking lifecycle events
const (
	templateBookingCreated  = "booking_created"
	templatePaymentReceived = "payment_received"
	templatePaymentFailed   = "payment_failed"
	templateVendorAssigned  = "vendor_assigned"
	templateCompletionOTP   = "completion_otp"
	templateCompleted       = "booking_completed"
	templateCancelled       = "booking_cancelled"
)

// Online payment methods. Cash collected on site is the one offline method
// and it forces OTP confirmation at completion time.
const MethodCashOnService = "CASH_ON_SERVICE"

func isOnlineMethod(method string) bool {
	return method != MethodCashOnService
}

// CatalogReader is the slice of the catalog the booking engine needs
type CatalogReader interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*catalog.PackageDefinition, error)
}

// VendorDirectory is the slice of the vendor directory the booking engine needs
type VendorDirectory interface {
	GetVendor(ctx context.Context, id uuid.UUID) (*vendors.Vendor, error)
}

// WebhookDeduper short-circuits duplicate gateway webhook deliveries
type WebhookDeduper interface {
	Acquire(ctx context.Context, transactionID string) (bool, error)
	Release(ctx context.Context, transactionID string) error
}

// Notifier publishes outbound customer and vendor notifications
type Notifier interface {
	Send(ctx context.Context, channel, template, recipient string, payload map[string]interface{}) error
}

// Service is the booking lifecycle engine: checkout, payments, vendor
// assignment, completion and the write side of refunds. Every mutation goes
// through a versioned write; callers seeing ErrConcurrency re-read and retry.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	GetPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)

	RecordPayment(ctx context.Context, bookingID uuid.UUID, req RecordPaymentRequest) (*Booking, error)
	HandleGatewayWebhook(ctx context.Context, req GatewayWebhookRequest) error

	AssignVendor(ctx context.Context, bookingID, vendorID uuid.UUID) (*Booking, error)
	StartService(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	RequestCompletion(ctx context.Context, bookingID uuid.UUID) (*CompletionResponse, error)
	VerifyCompletionOTP(ctx context.Context, bookingID uuid.UUID, code string) (*Booking, error)

	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool, reason string) (*Booking, error)
	RecordRefundOutcome(ctx context.Context, bookingID uuid.UUID, amount int64, transactionID string, succeeded bool) (*Booking, error)
}

type service struct {
	repo     Repository
	catalog  CatalogReader
	vendors  VendorDirectory
	gateway  payments.Gateway
	deduper  WebhookDeduper
	notifier Notifier
	policy   config.PolicyConfig
	logger   *slog.Logger
}

// NewService creates the booking lifecycle service
func NewService(
	repo Repository,
	catalogReader CatalogReader,
	vendorDirectory VendorDirectory,
	gateway payments.Gateway,
	deduper WebhookDeduper,
	notifier Notifier,
	policy config.PolicyConfig,
	logger *slog.Logger,
) Service {
	return &service{
		repo:     repo,
		catalog:  catalogReader,
		vendors:  vendorDirectory,
		gateway:  gateway,
		deduper:  deduper,
		notifier: notifier,
		policy:   policy,
		logger:   logger,
	}
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", err)
	}

	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	selection, verrs := pricing.Validate(pkg, req.Customization)
	if len(verrs) > 0 {
		return nil, verrs
	}

	breakdown, err := pricing.Price(pkg, req.Guests, selection, req.TravelFee)
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		PackageID: packageID,
		Guests:    req.Guests,
		Breakdown: breakdown,
	}, nil
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*Booking, error) {
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", err)
	}

	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event date, expected RFC 3339: %w", err)
	}
	if !eventDate.After(time.Now().UTC()) {
		return nil, ErrEventDateInPast
	}

	pkg, err := s.catalog.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.Active {
		return nil, ErrPackageInactive
	}

	// The client's selection and price are never trusted. Revalidate against
	// the catalog and recompute; the frozen total is the server's number.
	selection, verrs := pricing.Validate(pkg, req.Customization)
	if len(verrs) > 0 {
		return nil, verrs
	}

	breakdown, err := pricing.Price(pkg, req.Guests, selection, req.TravelFee)
	if err != nil {
		return nil, err
	}

	ref, err := newBookingRef()
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		UserID:        userID,
		PackageID:     packageID,
		BookingRef:    ref,
		EventDate:     eventDate.UTC(),
		Location:      req.Location,
		Guests:        req.Guests,
		Customization: CustomizationColumn(selection),
		TotalAmount:   breakdown.Total,
		AmountPaid:    0,
		PaymentStatus: PaymentPending,
		VendorStatus:  VendorUnassigned,
		RefundStatus:  RefundNone,
		Version:       1,
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.notify(ctx, templateBookingCreated, booking.UserID, map[string]interface{}{
		"booking_ref":  booking.BookingRef,
		"total_amount": booking.TotalAmount,
		"event_date":   booking.EventDate,
	})

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetBookingByID(ctx, id)
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.GetUserBookings(ctx, userID, query)
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.GetAllBookings(ctx, query)
}

func (s *service) GetPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	if _, err := s.repo.GetBookingByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.repo.GetPayments(ctx, bookingID)
}

func (s *service) RecordPayment(ctx context.Context, bookingID uuid.UUID, req RecordPaymentRequest) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.VendorStatus.IsTerminal() {
		return nil, ErrConflict
	}
	if !booking.PaymentStatus.CanAcceptPayment() {
		return nil, ErrConflict
	}
	if req.Amount > booking.Outstanding() {
		return nil, ErrOverpayment
	}

	result, err := s.gateway.Charge(ctx, req.Amount, req.Method)
	if err != nil {
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}

	if !result.Success {
		// The declined attempt still lands on the ledger.
		entry := &Payment{
			BookingID:     booking.ID,
			Amount:        req.Amount,
			Status:        PaymentEntryFailed,
			Method:        req.Method,
			TransactionID: fallbackTransactionID(result.TransactionID),
			FailureReason: result.FailureReason,
		}
		booking.PaymentStatus = FailedPaymentStatus(booking.PaymentStatus)
		if err := s.repo.ApplyPaymentVersioned(ctx, booking, entry); err != nil {
			return nil, err
		}
		s.notify(ctx, templatePaymentFailed, booking.UserID, map[string]interface{}{
			"booking_ref": booking.BookingRef,
			"amount":      req.Amount,
			"reason":      result.FailureReason,
		})
		return nil, ErrPaymentDeclined
	}

	if err := s.applySuccessfulPayment(ctx, booking, req.Amount, req.Method, result.TransactionID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) HandleGatewayWebhook(ctx context.Context, req GatewayWebhookRequest) error {
	acquired, err := s.deduper.Acquire(ctx, req.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to check webhook idempotency: %w", err)
	}
	if !acquired {
		// Replay within the dedup window. Acknowledge without reprocessing.
		return nil
	}

	// The ledger's unique transaction id is the durable guarantee; the redis
	// key only narrows the race window.
	exists, err := s.repo.TransactionIDExists(ctx, req.TransactionID)
	if err != nil {
		s.releaseDedup(ctx, req.TransactionID)
		return err
	}
	if exists {
		return nil
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		s.releaseDedup(ctx, req.TransactionID)
		return fmt.Errorf("invalid booking id in webhook: %w", err)
	}

	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		s.releaseDedup(ctx, req.TransactionID)
		return err
	}

	// Late deliveries against a completed or cancelled booking must not move
	// money: a cancelled booking's refund may already be settled, and refunds
	// are one-shot. Same guard as the direct charge path.
	if booking.VendorStatus.IsTerminal() {
		s.releaseDedup(ctx, req.TransactionID)
		return ErrConflict
	}

	if req.Status != "SUCCESS" {
		entry := &Payment{
			BookingID:     booking.ID,
			Amount:        req.Amount,
			Status:        PaymentEntryFailed,
			Method:        req.Method,
			TransactionID: req.TransactionID,
			FailureReason: req.FailureReason,
		}
		booking.PaymentStatus = FailedPaymentStatus(booking.PaymentStatus)
		if err := s.repo.ApplyPaymentVersioned(ctx, booking, entry); err != nil {
			s.releaseDedup(ctx, req.TransactionID)
			return err
		}
		s.notify(ctx, templatePaymentFailed, booking.UserID, map[string]interface{}{
			"booking_ref": booking.BookingRef,
			"amount":      req.Amount,
			"reason":      req.FailureReason,
		})
		return nil
	}

	if req.Amount > booking.Outstanding() {
		s.releaseDedup(ctx, req.TransactionID)
		return ErrOverpayment
	}

	if err := s.applySuccessfulPayment(ctx, booking, req.Amount, req.Method, req.TransactionID); err != nil {
		s.releaseDedup(ctx, req.TransactionID)
		return err
	}
	return nil
}

// maxApplyRetries bounds the versioned-write retries after money has moved
const maxApplyRetries = 3

// applySuccessfulPayment appends a SUCCESS ledger entry and rolls the
// booking's derived payment fields forward atomically. By this point the
// gateway has already moved money, so a version conflict is retried against a
// fresh read instead of surfacing: bubbling ErrConcurrency here would invite
// the caller to retry the whole operation and charge the customer twice.
func (s *service) applySuccessfulPayment(ctx context.Context, booking *Booking, amount int64, method, transactionID string) error {
	entry := &Payment{
		BookingID:     booking.ID,
		Amount:        amount,
		Status:        PaymentEntrySuccess,
		Method:        method,
		TransactionID: fallbackTransactionID(transactionID),
	}

	for attempt := 0; ; attempt++ {
		firstSuccess := booking.AmountPaid == 0
		booking.AmountPaid += amount
		booking.PaymentStatus = PaymentStatusFor(booking.TotalAmount, booking.AmountPaid, s.policy.PartialPaymentPercent)
		if firstSuccess {
			booking.OnlinePaymentDone = isOnlineMethod(method)
		} else {
			booking.OnlinePaymentDone = booking.OnlinePaymentDone && isOnlineMethod(method)
		}

		err := s.repo.ApplyPaymentVersioned(ctx, booking, entry)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConcurrency) || attempt >= maxApplyRetries {
			return err
		}

		// Another writer moved the row. Re-read and recompute the derived
		// fields from the committed state; the ledger entry stays as-is.
		fresh, rerr := s.repo.GetBookingByID(ctx, booking.ID)
		if rerr != nil {
			return rerr
		}
		*booking = *fresh
	}

	s.notify(ctx, templatePaymentReceived, booking.UserID, map[string]interface{}{
		"booking_ref":    booking.BookingRef,
		"amount":         amount,
		"amount_paid":    booking.AmountPaid,
		"payment_status": booking.PaymentStatus,
	})
	return nil
}

// releaseDedup forgets a webhook transaction id after a processing failure so
// the gateway's retry is not swallowed by the dedup key. A failed release is
// only logged; the key expires on its own TTL.
func (s *service) releaseDedup(ctx context.Context, transactionID string) {
	if err := s.deduper.Release(ctx, transactionID); err != nil {
		s.logger.WarnContext(ctx, "failed to release webhook dedup key",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *service) AssignVendor(ctx context.Context, bookingID, vendorID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Guard order: state first, then money, then vendor availability.
	if !CanTransitionVendor(booking.VendorStatus, VendorAssigned) {
		return nil, ErrConflict
	}
	if !booking.PaymentStatus.IsPaidEnoughForAssignment() {
		return nil, ErrPaymentRequired
	}

	vendor, err := s.vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsAvailable() {
		return nil, ErrVendorUnavailable
	}

	if err := booking.TransitionVendor(VendorAssigned); err != nil {
		return nil, err
	}
	booking.AssignedVendorID = &vendor.ID

	if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, templateVendorAssigned, booking.UserID, map[string]interface{}{
		"booking_ref": booking.BookingRef,
		"vendor_name": vendor.Name,
	})
	s.notifyVendor(ctx, vendor, map[string]interface{}{
		"booking_ref": booking.BookingRef,
		"event_date":  booking.EventDate,
		"location":    booking.Location,
	})

	return booking, nil
}

func (s *service) StartService(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := booking.TransitionVendor(VendorInProgress); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) RequestCompletion(ctx context.Context, bookingID uuid.UUID) (*CompletionResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.VendorStatus != VendorInProgress {
		return nil, ErrConflict
	}

	// Fully paid online means the money trail already proves the customer
	// committed; the booking completes without ceremony. Anything else needs
	// the customer's on-site OTP.
	if booking.PaymentStatus == PaymentFullyPaid && booking.OnlinePaymentDone {
		if err := booking.TransitionVendor(VendorCompleted); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
			return nil, err
		}
		s.notify(ctx, templateCompleted, booking.UserID, map[string]interface{}{
			"booking_ref": booking.BookingRef,
		})
		return &CompletionResponse{Completed: true}, nil
	}

	code, err := GenerateOTP()
	if err != nil {
		return nil, err
	}
	hash, err := HashOTP(code)
	if err != nil {
		return nil, err
	}

	// Reissuing invalidates any previous code.
	expiresAt := time.Now().UTC().Add(s.policy.OTPTTL)
	booking.OTPHash = hash
	booking.OTPExpiresAt = &expiresAt
	booking.OTPVerified = false

	if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
		return nil, err
	}

	// The code goes to the customer, never to the vendor.
	s.notify(ctx, templateCompletionOTP, booking.UserID, map[string]interface{}{
		"booking_ref": booking.BookingRef,
		"code":        code,
		"expires_at":  expiresAt,
	})

	return &CompletionResponse{OTPIssued: true, OTPExpiresAt: &expiresAt}, nil
}

func (s *service) VerifyCompletionOTP(ctx context.Context, bookingID uuid.UUID, code string) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.VendorStatus != VendorInProgress {
		return nil, ErrConflict
	}
	if booking.OTPHash == "" || booking.OTPExpiresAt == nil {
		return nil, ErrOTPNotIssued
	}
	if time.Now().UTC().After(*booking.OTPExpiresAt) {
		return nil, ErrOTPExpired
	}
	if !VerifyOTPHash(booking.OTPHash, code) {
		return nil, ErrOTPMismatch
	}

	booking.OTPVerified = true
	if err := booking.TransitionVendor(VendorCompleted); err != nil {
		return nil, err
	}

	// A verified OTP settles the outstanding remainder as cash collected on
	// site, keeping amount_paid equal to the sum of the ledger.
	remainder := booking.Outstanding()
	if remainder > 0 {
		entry := &Payment{
			BookingID:     booking.ID,
			Amount:        remainder,
			Status:        PaymentEntrySuccess,
			Method:        MethodCashOnService,
			TransactionID: fallbackTransactionID(""),
		}
		booking.AmountPaid = booking.TotalAmount
		booking.PaymentStatus = PaymentFullyPaid
		booking.OnlinePaymentDone = false
		if err := s.repo.ApplyPaymentVersioned(ctx, booking, entry); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, templateCompleted, booking.UserID, map[string]interface{}{
		"booking_ref": booking.BookingRef,
	})

	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool, reason string) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := booking.Cancel(reason); err != nil {
		return nil, err
	}
	if booking.AmountPaid > 0 {
		booking.RefundStatus = RefundPending
	}

	if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, templateCancelled, booking.UserID, map[string]interface{}{
		"booking_ref":   booking.BookingRef,
		"refund_status": booking.RefundStatus,
	})

	return booking, nil
}

func (s *service) RecordRefundOutcome(ctx context.Context, bookingID uuid.UUID, amount int64, transactionID string, succeeded bool) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !succeeded {
		booking.RefundStatus = RefundFailed
		if err := s.repo.UpdateBookingVersioned(ctx, booking); err != nil {
			return nil, err
		}
		return booking, nil
	}

	entry := &Payment{
		BookingID:     booking.ID,
		Amount:        amount,
		Status:        PaymentEntryRefunded,
		Method:        "REFUND",
		TransactionID: fallbackTransactionID(transactionID),
	}
	booking.RefundStatus = RefundProcessed
	booking.RefundAmount += amount
	booking.AmountPaid -= amount

	if err := s.repo.ApplyPaymentVersioned(ctx, booking, entry); err != nil {
		return nil, err
	}
	return booking, nil
}

// notify publishes a customer notification. Delivery problems are logged and
// swallowed: the booking mutation already committed.
func (s *service) notify(ctx context.Context, template string, userID uuid.UUID, payload map[string]interface{}) {
	if err := s.notifier.Send(ctx, "EMAIL", template, userID.String(), payload); err != nil {
		s.logger.WarnContext(ctx, "failed to publish notification",
			slog.String("template", template),
			slog.String("error", err.Error()),
		)
	}
}

func (s *service) notifyVendor(ctx context.Context, vendor *vendors.Vendor, payload map[string]interface{}) {
	if err := s.notifier.Send(ctx, "EMAIL", templateVendorAssigned, vendor.Email, payload); err != nil {
		s.logger.WarnContext(ctx, "failed to publish vendor notification",
			slog.String("error", err.Error()),
		)
	}
}

// newBookingRef builds a human-quotable reference like BB-20260831-KQZPWT
func newBookingRef() (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking ref: %w", err)
	}
	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(letters[int(b)%len(letters)])
	}
	return fmt.Sprintf("BB-%s-%s", time.Now().UTC().Format("20060102"), sb.String()), nil
}

// fallbackTransactionID keeps the ledger's unique transaction id populated
// even when the gateway did not hand one back (declines, cash settlement).
func fallbackTransactionID(transactionID string) string {
	if transactionID != "" {
		return transactionID
	}
	return "INT_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
