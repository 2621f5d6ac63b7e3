package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"frontdesk-backend/models"
)

func newInvoiceService(t *testing.T, db *gorm.DB) *InvoiceService {
	t.Helper()
	svc := NewInvoiceService(db, zap.NewNop())
	svc.Now = func() time.Time { return date(t, "2024-10-06") }
	return svc
}

func TestInvoiceCreateValidatesBookingReference(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(t, db)

	if _, err := svc.Create(CreateInvoiceInput{
		GuestName: "Ada Guest",
		Amount:    240,
		BookingID: "BK-MISSING",
	}); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("dangling booking ref: got %v, want ErrBookingNotFound", err)
	}

	seedBooking(t, db, "BK1", "", models.BookingStatusConfirmed, "2024-10-06", "2024-10-08")
	inv, err := svc.Create(CreateInvoiceInput{
		GuestName: "Ada Guest",
		Amount:    240,
		BookingID: "BK1",
		LineItems: json.RawMessage(`[{"description":"2 nights standard","quantity":2,"unitPrice":120}]`),
		DueDate:   "2024-10-20",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Status != models.InvoiceStatusPending {
		t.Fatalf("status = %s, want pending", inv.Status)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") {
		t.Fatalf("invoice number = %q, want INV- prefix", inv.InvoiceNumber)
	}
	if inv.BookingID == nil || *inv.BookingID != "BK1" {
		t.Fatalf("booking ref = %v, want BK1", inv.BookingID)
	}
	if inv.DueDate == nil || !inv.DueDate.Equal(date(t, "2024-10-20")) {
		t.Fatalf("due date = %v, want 2024-10-20", inv.DueDate)
	}
}

func TestInvoiceCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(t, db)

	if _, err := svc.Create(CreateInvoiceInput{GuestName: " ", Amount: 10}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank guest: got %v, want ErrValidation", err)
	}
	if _, err := svc.Create(CreateInvoiceInput{GuestName: "Ada", Amount: 0}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero amount: got %v, want ErrValidation", err)
	}
	if _, err := svc.Create(CreateInvoiceInput{GuestName: "Ada", Amount: 10, DueDate: "next tuesday"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("bad due date: got %v, want ErrInvalidDateRange", err)
	}
}

func TestInvoicePayAndRefund(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(t, db)

	inv, err := svc.Create(CreateInvoiceInput{GuestName: "Ada Guest", Amount: 240})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Refund before payment is not a thing.
	if _, err := svc.Refund(inv.InvoiceNumber); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("refund of pending: got %v, want ErrInvalidTransition", err)
	}

	paid, err := svc.MarkPaid(inv.InvoiceNumber)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != models.InvoiceStatusPaid || paid.PaidAt == nil {
		t.Fatalf("unexpected paid state: %+v", paid)
	}
	if _, err := svc.MarkPaid(inv.InvoiceNumber); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double pay: got %v, want ErrInvalidTransition", err)
	}

	refunded, err := svc.Refund(inv.InvoiceNumber)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Status != models.InvoiceStatusRefunded {
		t.Fatalf("status = %s, want refunded", refunded.Status)
	}

	if _, err := svc.MarkPaid("INV-NOPE"); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("pay of unknown number: got %v, want ErrInvoiceNotFound", err)
	}
}

func TestInvoiceRenderPDF(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(t, db)

	inv, err := svc.Create(CreateInvoiceInput{
		GuestName: "Ada Guest",
		Amount:    240,
		LineItems: json.RawMessage(`[{"description":"2 nights standard","quantity":2,"unitPrice":120}]`),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pdf, filename, err := svc.RenderPDF(inv.InvoiceNumber)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF-") {
		t.Fatal("output is not a PDF document")
	}
	if !strings.Contains(filename, inv.InvoiceNumber) {
		t.Fatalf("filename %q must carry the invoice number", filename)
	}

	if _, _, err := svc.RenderPDF("INV-NOPE"); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("render of unknown number: got %v, want ErrInvoiceNotFound", err)
	}
}
