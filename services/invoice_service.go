package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"
)

// InvoiceService issues guest invoices and renders them as PDFs. The status
// machine is pending → paid → refunded.
type InvoiceService struct {
	DB  *gorm.DB
	Log *zap.Logger
	Now func() time.Time
}

func NewInvoiceService(db *gorm.DB, log *zap.Logger) *InvoiceService {
	return &InvoiceService{DB: db, Log: log, Now: time.Now}
}

// CreateInvoiceInput carries a new invoice. LineItems, when present, is an
// array of {description, quantity, unitPrice}.
type CreateInvoiceInput struct {
	GuestName  string          `json:"guestName"`
	GuestEmail string          `json:"guestEmail"`
	BookingID  string          `json:"bookingId"`
	LineItems  json.RawMessage `json:"lineItems"`
	Amount     float64         `json:"amount"`
	DueDate    string          `json:"dueDate"`
}

func (s *InvoiceService) Create(in CreateInvoiceInput) (models.Invoice, error) {
	var inv models.Invoice
	if strings.TrimSpace(in.GuestName) == "" {
		return inv, fmt.Errorf("%w: guestName required", ErrValidation)
	}
	if in.Amount <= 0 {
		return inv, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	inv = models.Invoice{
		GuestName:  strings.TrimSpace(in.GuestName),
		GuestEmail: strings.TrimSpace(in.GuestEmail),
		Amount:     in.Amount,
		Status:     models.InvoiceStatusPending,
		IssueDate:  dateOnly(s.Now()),
	}
	if bid := strings.TrimSpace(in.BookingID); bid != "" {
		// The reference is informational but must point at a real booking.
		var count int64
		if err := s.DB.Model(&models.Booking{}).Where("booking_id = ?", bid).Count(&count).Error; err != nil {
			return inv, err
		}
		if count == 0 {
			return inv, ErrBookingNotFound
		}
		inv.BookingID = &bid
	}
	if len(in.LineItems) > 0 {
		inv.LineItems = datatypes.JSON(in.LineItems)
	}
	if in.DueDate != "" {
		due, err := parseStayDate(in.DueDate)
		if err != nil {
			return inv, err
		}
		inv.DueDate = &due
	}

	const maxAttempts = 5
	var createErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		number, err := utils.GenerateInvoiceNumber()
		if err != nil {
			return inv, fmt.Errorf("failed to generate invoice number: %w", err)
		}
		inv.InvoiceNumber = number
		createErr = s.DB.Create(&inv).Error
		if createErr == nil {
			return inv, nil
		}
		if isDuplicateKey(createErr) {
			s.Log.Warn("invoice number collision, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		return inv, fmt.Errorf("failed to create invoice: %w", createErr)
	}
	return inv, fmt.Errorf("failed to create invoice after retries: %w", createErr)
}

// InvoiceFilter narrows List results.
type InvoiceFilter struct {
	Status    string
	BookingID string
}

func (s *InvoiceService) List(filter InvoiceFilter) ([]models.Invoice, error) {
	q := s.DB.Model(&models.Invoice{}).Order("issue_date DESC, id DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.BookingID != "" {
		q = q.Where("booking_id = ?", filter.BookingID)
	}
	var list []models.Invoice
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *InvoiceService) GetByNumber(number string) (models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Where("invoice_number = ?", number).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inv, ErrInvoiceNotFound
	}
	return inv, err
}

func (s *InvoiceService) MarkPaid(number string) (models.Invoice, error) {
	var inv models.Invoice
	now := s.Now().UTC()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("invoice_number = ?", number).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if inv.Status != models.InvoiceStatusPending {
			return ErrInvalidTransition
		}
		if err := tx.Model(&inv).Updates(map[string]interface{}{
			"status":  models.InvoiceStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
			return err
		}
		inv.Status = models.InvoiceStatusPaid
		inv.PaidAt = &now
		return nil
	})
	return inv, err
}

func (s *InvoiceService) Refund(number string) (models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("invoice_number = ?", number).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if inv.Status != models.InvoiceStatusPaid {
			return ErrInvalidTransition
		}
		if err := tx.Model(&inv).Update("status", models.InvoiceStatusRefunded).Error; err != nil {
			return err
		}
		inv.Status = models.InvoiceStatusRefunded
		return nil
	})
	return inv, err
}

// RenderPDF builds the printable PDF for one invoice using the hotel
// settings row as letterhead.
func (s *InvoiceService) RenderPDF(number string) ([]byte, string, error) {
	inv, err := s.GetByNumber(number)
	if err != nil {
		return nil, "", err
	}
	var hotel models.HotelSetting
	if err := s.DB.First(&hotel).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	return utils.BuildInvoicePDF(inv, hotel)
}
