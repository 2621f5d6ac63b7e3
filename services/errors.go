package services

import "errors"

// Sentinel errors returned by the service layer. Controllers match these
// with errors.Is and map them to HTTP status codes.
var (
	ErrBookingNotFound = errors.New("booking_not_found")
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrExpenseNotFound = errors.New("expense_not_found")
	ErrInvoiceNotFound = errors.New("invoice_not_found")

	// The requested room fails the availability check for the requested
	// dates (date conflict, inactive, or not in available status).
	ErrRoomUnavailable = errors.New("room_unavailable")

	// The requested status change is not in the lifecycle table.
	ErrInvalidTransition = errors.New("invalid_transition")

	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrRoomRequired       = errors.New("room_required")
	ErrGuestIDNotVerified = errors.New("guest_id_not_verified")
	ErrRejectReasonEmpty  = errors.New("reject_reason_required")
	ErrValidation         = errors.New("validation_failed")
)
