package services

import (
	"errors"
	"testing"
	"time"

	"frontdesk-backend/models"
)

func seedExpense(t *testing.T, svc *ExpenseService, description string) models.Expense {
	t.Helper()
	exp, err := svc.Create(models.Expense{
		Description: description,
		Category:    "maintenance",
		Amount:      120.50,
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return exp
}

func TestExpenseCreateForcesPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpenseService(db)
	svc.Now = func() time.Time { return date(t, "2024-10-06") }

	exp, err := svc.Create(models.Expense{
		Description:  "boiler repair",
		Category:     "maintenance",
		Amount:       340,
		Status:       models.ExpenseStatusPaid, // callers cannot smuggle in a status
		RejectReason: "stale",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if exp.Status != models.ExpenseStatusPending {
		t.Fatalf("status = %s, want pending", exp.Status)
	}
	if exp.RejectReason != "" || exp.PaidAt != nil {
		t.Fatalf("lifecycle fields must start clean: %+v", exp)
	}
	if !exp.ExpenseDate.Equal(date(t, "2024-10-06")) {
		t.Fatalf("expense date defaults to today, got %v", exp.ExpenseDate)
	}
}

func TestExpenseCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpenseService(db)

	if _, err := svc.Create(models.Expense{Description: "  ", Amount: 10}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank description: got %v, want ErrValidation", err)
	}
	if _, err := svc.Create(models.Expense{Description: "towels", Amount: 0}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero amount: got %v, want ErrValidation", err)
	}
}

func TestExpenseApprovePayPath(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpenseService(db)
	exp := seedExpense(t, svc, "linen order")

	approved, err := svc.Approve(exp.ID, "m.ivanova")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.ExpenseStatusApproved || approved.ApprovedBy != "m.ivanova" {
		t.Fatalf("unexpected approval state: %+v", approved)
	}

	paid, err := svc.MarkPaid(exp.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != models.ExpenseStatusPaid || paid.PaidAt == nil {
		t.Fatalf("unexpected paid state: %+v", paid)
	}

	// Paid is terminal.
	if _, err := svc.Approve(exp.ID, "m.ivanova"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve of paid: got %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Reject(exp.ID, "late"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject of paid: got %v, want ErrInvalidTransition", err)
	}
}

func TestExpenseRejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpenseService(db)
	exp := seedExpense(t, svc, "minibar restock")

	if _, err := svc.Reject(exp.ID, "   "); !errors.Is(err, ErrRejectReasonEmpty) {
		t.Fatalf("blank reason: got %v, want ErrRejectReasonEmpty", err)
	}

	rejected, err := svc.Reject(exp.ID, "duplicate of EXP-114")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.ExpenseStatusRejected || rejected.RejectReason != "duplicate of EXP-114" {
		t.Fatalf("unexpected rejection state: %+v", rejected)
	}

	// Rejected is terminal: no pay, no second decision.
	if _, err := svc.MarkPaid(exp.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pay of rejected: got %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Approve(exp.ID, "m.ivanova"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve of rejected: got %v, want ErrInvalidTransition", err)
	}
}

func TestExpensePayRequiresApproval(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpenseService(db)
	exp := seedExpense(t, svc, "lobby flowers")

	if _, err := svc.MarkPaid(exp.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pay of pending: got %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.MarkPaid(9999); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("pay of unknown id: got %v, want ErrExpenseNotFound", err)
	}
}

func TestExpenseListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewExpenseService(db)
	a := seedExpense(t, svc, "linen order")
	seedExpense(t, svc, "boiler repair")
	if _, err := svc.Approve(a.ID, "m.ivanova"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := svc.List(ExpenseFilter{Status: models.ExpenseStatusPending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].Description != "boiler repair" {
		t.Fatalf("unexpected pending list: %+v", pending)
	}
}
