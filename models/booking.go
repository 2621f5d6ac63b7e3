package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking lifecycle statuses.
const (
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCheckedIn  = "checked-in"
	BookingStatusCheckedOut = "checked-out"
	BookingStatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusPending  = "pending"
	PaymentStatusRefunded = "refunded"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Public generator-assigned identifier, e.g. "BK-7F3K29QD".
	BookingID string `gorm:"column:booking_id;uniqueIndex;size:32" json:"bookingId"`

	UserName  string `gorm:"column:user_name;size:191" json:"userName"`
	UserEmail string `gorm:"column:user_email;size:191" json:"userEmail"`
	Guests    int    `gorm:"column:guests;default:1" json:"guests"`

	// Half-open stay range [CheckIn, CheckOut); CheckOut is strictly after
	// CheckIn. Stored date-normalized (midnight).
	CheckIn  time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out" json:"checkOut"`

	RoomType string `gorm:"column:room_type;size:32" json:"roomType"`
	// Nil until a room is assigned.
	RoomNumber *string `gorm:"column:room_number;size:50;index" json:"roomNumber,omitempty"`

	Status string `gorm:"column:status;size:32;index" json:"status"`

	TotalAmount   float64        `gorm:"column:total_amount" json:"totalAmount"`
	PaymentMethod string         `gorm:"column:payment_method;size:32" json:"paymentMethod,omitempty"`
	PaymentStatus string         `gorm:"column:payment_status;size:32;default:pending" json:"paymentStatus"`
	PaymentInfo   datatypes.JSON `gorm:"column:payment_info" json:"paymentInfo,omitempty"`

	CheckedInAt  *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`
}

// ActiveBookingStatuses are the statuses that occupy a room's date range
// exclusively; cancelled and checked-out bookings do not constrain
// availability.
var ActiveBookingStatuses = []string{BookingStatusConfirmed, BookingStatusCheckedIn}

// bookingTransitions is the enforced lifecycle table. Transitions are checked
// at the service layer for every status write, independent of which caller
// (or UI) asked for them.
var bookingTransitions = map[string][]string{
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCheckedOut, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// CanTransition reports whether a booking may move from one status to
// another. Checked-out and cancelled are terminal. The confirmed →
// checked-out edge exists only for the past-checkout sweep.
func CanTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking still constrains room availability.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCheckedIn
}
