package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"frontdesk-backend/models"
)

// ExpenseService tracks back-office expenses with an approve/reject/pay
// state machine. Pending → approved|rejected, approved → paid; rejected and
// paid are terminal and a rejection always carries a reason.
type ExpenseService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{DB: db, Now: time.Now}
}

func (s *ExpenseService) Create(exp models.Expense) (models.Expense, error) {
	if strings.TrimSpace(exp.Description) == "" {
		return exp, fmt.Errorf("%w: description required", ErrValidation)
	}
	if exp.Amount <= 0 {
		return exp, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	exp.Status = models.ExpenseStatusPending
	exp.RejectReason = ""
	exp.PaidAt = nil
	if exp.ExpenseDate.IsZero() {
		exp.ExpenseDate = dateOnly(s.Now())
	}
	if err := s.DB.Create(&exp).Error; err != nil {
		return exp, fmt.Errorf("failed to create expense: %w", err)
	}
	return exp, nil
}

// ExpenseFilter narrows List results.
type ExpenseFilter struct {
	Status   string
	Category string
}

func (s *ExpenseService) List(filter ExpenseFilter) ([]models.Expense, error) {
	q := s.DB.Model(&models.Expense{}).Order("expense_date DESC, id DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var list []models.Expense
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ExpenseService) get(tx *gorm.DB, id uint) (models.Expense, error) {
	var exp models.Expense
	err := lockForUpdate(tx).First(&exp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return exp, ErrExpenseNotFound
	}
	return exp, err
}

func (s *ExpenseService) Approve(id uint, approver string) (models.Expense, error) {
	var exp models.Expense
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		exp, err = s.get(tx, id)
		if err != nil {
			return err
		}
		if exp.Status != models.ExpenseStatusPending {
			return ErrInvalidTransition
		}
		updates := map[string]interface{}{
			"status":      models.ExpenseStatusApproved,
			"approved_by": strings.TrimSpace(approver),
		}
		if err := tx.Model(&exp).Updates(updates).Error; err != nil {
			return err
		}
		exp.Status = models.ExpenseStatusApproved
		exp.ApprovedBy = strings.TrimSpace(approver)
		return nil
	})
	return exp, err
}

func (s *ExpenseService) Reject(id uint, reason string) (models.Expense, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Expense{}, ErrRejectReasonEmpty
	}
	var exp models.Expense
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		exp, err = s.get(tx, id)
		if err != nil {
			return err
		}
		if exp.Status != models.ExpenseStatusPending {
			return ErrInvalidTransition
		}
		if err := tx.Model(&exp).Updates(map[string]interface{}{
			"status":        models.ExpenseStatusRejected,
			"reject_reason": reason,
		}).Error; err != nil {
			return err
		}
		exp.Status = models.ExpenseStatusRejected
		exp.RejectReason = reason
		return nil
	})
	return exp, err
}

func (s *ExpenseService) MarkPaid(id uint) (models.Expense, error) {
	var exp models.Expense
	now := s.Now().UTC()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		exp, err = s.get(tx, id)
		if err != nil {
			return err
		}
		if exp.Status != models.ExpenseStatusApproved {
			return ErrInvalidTransition
		}
		if err := tx.Model(&exp).Updates(map[string]interface{}{
			"status":  models.ExpenseStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
			return err
		}
		exp.Status = models.ExpenseStatusPaid
		exp.PaidAt = &now
		return nil
	})
	return exp, err
}
