package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"frontdesk-backend/models"
)

type invoiceLineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// BuildInvoicePDF renders a single invoice as an A4 PDF and returns the
// bytes plus a suggested filename.
func BuildInvoicePDF(inv models.Invoice, hotel models.HotelSetting) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, false)
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Helvetica", "B", 16)
	name := hotel.Name
	if strings.TrimSpace(name) == "" {
		name = "Hotel"
	}
	pdf.Cell(0, 9, name)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{hotel.Address, hotel.Phone, hotel.Email} {
		if strings.TrimSpace(line) != "" {
			pdf.Cell(0, 5, line)
			pdf.Ln(5)
		}
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : "+inv.InvoiceNumber)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+inv.IssueDate.Format("2006-01-02"))
	pdf.Ln(7)
	if inv.DueDate != nil {
		pdf.Cell(0, 7, "Due        : "+inv.DueDate.Format("2006-01-02"))
		pdf.Ln(7)
	}
	if inv.BookingID != nil && *inv.BookingID != "" {
		pdf.Cell(0, 7, "Booking    : "+*inv.BookingID)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, inv.GuestName)
	pdf.Ln(7)
	if strings.TrimSpace(inv.GuestEmail) != "" {
		pdf.Cell(0, 7, inv.GuestEmail)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	// Line items (best-effort: a malformed JSON column still yields a
	// renderable invoice with just the total)
	var items []invoiceLineItem
	if len(inv.LineItems) > 0 {
		_ = json.Unmarshal(inv.LineItems, &items)
	}
	if len(items) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(100, 7, "Description", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "Unit", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "Total", "1", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, it := range items {
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			pdf.CellFormat(100, 7, it.Description, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 7, fmt.Sprintf("%d", qty), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", it.UnitPrice), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", float64(qty)*it.UnitPrice), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Amount due: %.2f", inv.Amount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	status := strings.ToUpper(inv.Status)
	pdf.Cell(0, 6, "Status: "+status)
	if inv.PaidAt != nil {
		pdf.Cell(0, 6, "  (paid "+inv.PaidAt.Format(time.RFC3339)+")")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s.pdf", inv.InvoiceNumber)
	return buf.Bytes(), filename, nil
}
