package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// UpdateBookingVersioned performs a conditional write on the booking's
	// version counter and bumps it. ErrConcurrency when the row moved.
	UpdateBookingVersioned(ctx context.Context, booking *Booking) error

	// ApplyPaymentVersioned appends a ledger entry and writes the booking's
	// derived payment fields in one transaction, both or neither.
	ApplyPaymentVersioned(ctx context.Context, booking *Booking, payment *Payment) error

	TransactionIDExists(ctx context.Context, transactionID string) (bool, error)
	GetPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return r.listBookings(ctx, query, r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID))
}

func (r *repository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	if query.UserID != "" {
		baseQuery = baseQuery.Where("user_id = ?", query.UserID)
	}
	return r.listBookings(ctx, query, baseQuery)
}

func (r *repository) listBookings(ctx context.Context, query BookingListQuery, baseQuery *gorm.DB) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	if query.PaymentStatus != "" {
		baseQuery = baseQuery.Where("payment_status = ?", query.PaymentStatus)
	}
	if query.VendorStatus != "" {
		baseQuery = baseQuery.Where("vendor_status = ?", query.VendorStatus)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// versionedUpdate writes every mutable booking field conditionally on the
// version the caller read, incrementing it. Zero rows affected means another
// writer got there first.
func versionedUpdate(tx *gorm.DB, booking *Booking) error {
	readVersion := booking.Version
	result := tx.Model(&Booking{}).
		Where("id = ? AND version = ?", booking.ID, readVersion).
		Updates(map[string]interface{}{
			"amount_paid":         booking.AmountPaid,
			"payment_status":      booking.PaymentStatus,
			"online_payment_done": booking.OnlinePaymentDone,
			"vendor_status":       booking.VendorStatus,
			"assigned_vendor_id":  booking.AssignedVendorID,
			"otp_hash":            booking.OTPHash,
			"otp_expires_at":      booking.OTPExpiresAt,
			"otp_verified":        booking.OTPVerified,
			"refund_status":       booking.RefundStatus,
			"refund_amount":       booking.RefundAmount,
			"cancel_reason":       booking.CancelReason,
			"cancelled_at":        booking.CancelledAt,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrency
	}
	booking.Version = readVersion + 1
	return nil
}

func (r *repository) UpdateBookingVersioned(ctx context.Context, booking *Booking) error {
	return versionedUpdate(r.db.WithContext(ctx), booking)
}

func (r *repository) ApplyPaymentVersioned(ctx context.Context, booking *Booking, payment *Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return versionedUpdate(tx, booking)
	})
}

func (r *repository) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetPayments(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
