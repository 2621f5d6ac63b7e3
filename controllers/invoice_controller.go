package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

type InvoiceController struct {
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: svc}
}

// GET /api/invoices?status=&booking=
func (ctrl *InvoiceController) GetInvoices(c *gin.Context) {
	list, err := ctrl.InvoiceSvc.List(services.InvoiceFilter{
		Status:    c.Query("status"),
		BookingID: c.Query("booking"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/invoices/:number
func (ctrl *InvoiceController) GetInvoice(c *gin.Context) {
	inv, err := ctrl.InvoiceSvc.GetByNumber(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

// POST /api/invoices
func (ctrl *InvoiceController) CreateInvoice(c *gin.Context) {
	var in services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	inv, err := ctrl.InvoiceSvc.Create(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, inv)
}

// POST /api/invoices/:number/pay
func (ctrl *InvoiceController) PayInvoice(c *gin.Context) {
	inv, err := ctrl.InvoiceSvc.MarkPaid(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

// POST /api/invoices/:number/refund
func (ctrl *InvoiceController) RefundInvoice(c *gin.Context) {
	inv, err := ctrl.InvoiceSvc.Refund(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

// GET /api/invoices/:number/pdf
func (ctrl *InvoiceController) InvoicePDF(c *gin.Context) {
	data, filename, err := ctrl.InvoiceSvc.RenderPDF(c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
