package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice statuses. pending → paid → refunded.
const (
	InvoiceStatusPending  = "pending"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusRefunded = "refunded"
)

type Invoice struct {
	gorm.Model

	// Public identifier, e.g. "INV-9Q2M51XT".
	InvoiceNumber string `json:"invoiceNumber" gorm:"column:invoice_number;uniqueIndex;size:32"`

	GuestName  string `json:"guestName" gorm:"column:guest_name;size:191"`
	GuestEmail string `json:"guestEmail" gorm:"column:guest_email;size:191"`

	// Optional link back to the booking this invoice bills.
	BookingID *string `json:"bookingId,omitempty" gorm:"column:booking_id;size:32;index"`

	// Array of {description, quantity, unitPrice} objects.
	LineItems datatypes.JSON `json:"lineItems,omitempty" gorm:"column:line_items"`

	Amount float64 `json:"amount"`
	Status string  `json:"status" gorm:"size:32;default:pending;index"`

	IssueDate time.Time  `json:"issueDate" gorm:"column:issue_date"`
	DueDate   *time.Time `json:"dueDate,omitempty" gorm:"column:due_date"`
	PaidAt    *time.Time `json:"paidAt,omitempty" gorm:"column:paid_at"`
}
