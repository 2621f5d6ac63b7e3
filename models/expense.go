package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense statuses. Pending expenses may be approved or rejected; only
// approved expenses can be marked paid. Rejected and paid are terminal.
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
	ExpenseStatusPaid     = "paid"
)

type Expense struct {
	gorm.Model

	Description string    `json:"description" gorm:"size:255"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category" gorm:"size:64;index"`
	Vendor      string    `json:"vendor" gorm:"size:191"`
	ExpenseDate time.Time `json:"expenseDate" gorm:"column:expense_date"`

	Status string `json:"status" gorm:"size:32;default:pending;index"`
	// Required whenever Status is rejected.
	RejectReason string `json:"rejectReason,omitempty" gorm:"column:reject_reason;size:255"`

	ApprovedBy string     `json:"approvedBy,omitempty" gorm:"column:approved_by;size:191"`
	PaidAt     *time.Time `json:"paidAt,omitempty" gorm:"column:paid_at"`
}
