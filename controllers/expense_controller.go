package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

type ExpenseController struct {
	ExpenseSvc *services.ExpenseService
}

func NewExpenseController(svc *services.ExpenseService) *ExpenseController {
	return &ExpenseController{ExpenseSvc: svc}
}

func expenseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid expense id")
		return 0, false
	}
	return uint(id), true
}

// GET /api/expenses?status=&category=
func (ctrl *ExpenseController) GetExpenses(c *gin.Context) {
	list, err := ctrl.ExpenseSvc.List(services.ExpenseFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// POST /api/expenses
func (ctrl *ExpenseController) CreateExpense(c *gin.Context) {
	var exp models.Expense
	if err := c.ShouldBindJSON(&exp); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	created, err := ctrl.ExpenseSvc.Create(exp)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// POST /api/expenses/:id/approve
func (ctrl *ExpenseController) ApproveExpense(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		return
	}
	exp, err := ctrl.ExpenseSvc.Approve(id, c.GetString("adminUsername"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, exp)
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

// POST /api/expenses/:id/reject
func (ctrl *ExpenseController) RejectExpense(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		return
	}
	var payload rejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONFieldError(c, http.StatusBadRequest, "reason", "a rejection reason is required")
		return
	}
	exp, err := ctrl.ExpenseSvc.Reject(id, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, exp)
}

// POST /api/expenses/:id/pay
func (ctrl *ExpenseController) PayExpense(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		return
	}
	exp, err := ctrl.ExpenseSvc.MarkPaid(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, exp)
}
