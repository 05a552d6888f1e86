package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"beatbloom/internal/pricing"

	"github.com/google/uuid"
)

// CustomizationColumn persists a validated CustomizationSelection as a JSON
// column. The payload is versioned (schema_version) and only ever written
// after server-side validation.
type CustomizationColumn pricing.CustomizationSelection

// Value implements driver.Valuer
func (c CustomizationColumn) Value() (driver.Value, error) {
	b, err := json.Marshal(pricing.CustomizationSelection(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *CustomizationColumn) Scan(value interface{}) error {
	if value == nil {
		*c = CustomizationColumn(pricing.NewCustomizationSelection())
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*pricing.CustomizationSelection)(c))
	case string:
		return json.Unmarshal([]byte(v), (*pricing.CustomizationSelection)(c))
	default:
		return fmt.Errorf("cannot scan %T into CustomizationColumn", value)
	}
}

// Booking is the central aggregate. It is created atomically at checkout with
// TotalAmount frozen from a server-side recomputation, mutated only through
// the service's guarded transitions, and never physically deleted.
// All money values are integer minor units (paise).
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	PackageID  uuid.UUID `gorm:"type:uuid;index;not null" json:"package_id"`
	BookingRef string    `gorm:"unique;not null" json:"booking_ref"`

	EventDate     time.Time           `gorm:"not null" json:"event_date"`
	Location      string              `gorm:"not null;size:500" json:"location"`
	Guests        int                 `gorm:"not null;check:guests >= 1 AND guests <= 1000" json:"guests"`
	Customization CustomizationColumn `gorm:"type:jsonb" json:"customization"`

	TotalAmount int64 `gorm:"not null" json:"total_amount"`
	AmountPaid  int64 `gorm:"default:0" json:"amount_paid"`

	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);default:'PENDING_PAYMENT'" json:"payment_status"`
	OnlinePaymentDone bool          `gorm:"default:false" json:"online_payment_done"`

	VendorStatus     VendorStatus `gorm:"type:varchar(20);default:'UNASSIGNED'" json:"vendor_status"`
	AssignedVendorID *uuid.UUID   `gorm:"type:uuid;index" json:"assigned_vendor_id,omitempty"`

	OTPHash      string     `gorm:"size:100" json:"-"`
	OTPExpiresAt *time.Time `json:"otp_expires_at,omitempty"`
	OTPVerified  bool       `gorm:"default:false" json:"otp_verified"`

	RefundStatus RefundStatus `gorm:"type:varchar(20);default:'NONE'" json:"refund_status"`
	RefundAmount int64        `gorm:"default:0" json:"refund_amount"`

	CancelReason string     `gorm:"size:500" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	// Version is the optimistic-concurrency counter. Every mutation is a
	// conditional write on it; a mismatch surfaces as ErrConcurrency.
	Version int64 `gorm:"default:1;not null" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// Payment is an append-only ledger entry. A booking's AmountPaid is always
// the sum of its SUCCESS amounts minus its REFUNDED amounts.
type Payment struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID          `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount        int64              `gorm:"not null" json:"amount"`
	Status        PaymentEntryStatus `gorm:"type:varchar(20);not null" json:"status"`
	Method        string             `gorm:"type:varchar(50)" json:"method"`
	TransactionID string             `gorm:"uniqueIndex;not null" json:"transaction_id"`
	FailureReason string             `json:"failure_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Selection returns the booking's customization as the pricing value object
func (b *Booking) Selection() pricing.CustomizationSelection {
	return pricing.CustomizationSelection(b.Customization)
}

// IsCancelled reports whether the booking reached the CANCELLED terminal state
func (b *Booking) IsCancelled() bool {
	return b.VendorStatus == VendorCancelled
}

// IsCompleted reports whether the booking reached the COMPLETED terminal state
func (b *Booking) IsCompleted() bool {
	return b.VendorStatus == VendorCompleted
}

// Outstanding returns the unpaid remainder of the booking total
func (b *Booking) Outstanding() int64 {
	return b.TotalAmount - b.AmountPaid
}

// Cancel moves the booking to CANCELLED and stamps the reason
func (b *Booking) Cancel(reason string) error {
	if err := b.TransitionVendor(VendorCancelled); err != nil {
		return err
	}
	now := time.Now().UTC()
	b.CancelledAt = &now
	b.CancelReason = reason
	return nil
}
