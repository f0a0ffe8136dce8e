package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"jacaranda-schools/app/models"
)

// GetInvoiceBreakdown returns the per-line statement of an invoice: original
// amount, paid to date and remaining balance for every line item. Receipts
// and statements are rendered from this without re-deriving ledger rules.
func GetInvoiceBreakdown(db *sql.DB, invoiceID string) ([]*models.InvoiceItemBreakdown, error) {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, invoiceID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up invoice: %w", err)
	}
	if !exists {
		return nil, &NotFoundError{Entity: "invoice", ID: invoiceID}
	}

	query := `SELECT ii.id, ii.fee_structure_id, ii.description, ii.amount,
			  COALESCE(SUM(pi.amount), 0) AS paid_to_date
			  FROM invoice_items ii
			  LEFT JOIN payment_items pi ON pi.invoice_item_id = ii.id
			  WHERE ii.invoice_id = $1
			  GROUP BY ii.id, ii.fee_structure_id, ii.description, ii.amount
			  ORDER BY ii.created_at ASC`

	rows, err := db.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []*models.InvoiceItemBreakdown
	for rows.Next() {
		line := &models.InvoiceItemBreakdown{}
		err := rows.Scan(&line.InvoiceItemID, &line.FeeStructureID, &line.Description, &line.Amount, &line.PaidToDate)
		if err != nil {
			continue
		}
		line.Remaining = line.Amount.Sub(line.PaidToDate)
		breakdown = append(breakdown, line)
	}

	return breakdown, nil
}

// PaymentReceipt is everything needed to render one printable receipt.
type PaymentReceipt struct {
	Payment   *models.PaymentSummary         `json:"payment"`
	Invoice   *models.InvoiceSummary         `json:"invoice"`
	Breakdown []*models.InvoiceItemBreakdown `json:"breakdown"`
}

// GetPaymentReceipt assembles the payment, its invoice and the line-level
// breakdown for receipt rendering.
func GetPaymentReceipt(db *sql.DB, paymentID string) (*PaymentReceipt, error) {
	payment, err := GetPaymentByID(db, paymentID)
	if err != nil {
		return nil, err
	}

	invoice, err := GetInvoiceByID(db, payment.InvoiceID)
	if err != nil {
		return nil, err
	}

	breakdown, err := GetInvoiceBreakdown(db, payment.InvoiceID)
	if err != nil {
		return nil, err
	}

	return &PaymentReceipt{Payment: payment, Invoice: invoice, Breakdown: breakdown}, nil
}

// ClassBalance aggregates outstanding fees per class for reports.
type ClassBalance struct {
	Class       string          `json:"class"`
	Invoices    int             `json:"invoices"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// GetOutstandingBalancesByClass reports invoiced/collected/outstanding totals
// grouped by class, for one academic year.
func GetOutstandingBalancesByClass(db *sql.DB, academicYear string) ([]*ClassBalance, error) {
	query := `SELECT s.class, COUNT(i.id),
			  COALESCE(SUM(i.total_amount), 0),
			  COALESCE(SUM(i.paid_amount), 0),
			  COALESCE(SUM(i.balance), 0)
			  FROM invoices i
			  JOIN students s ON i.student_id = s.id
			  WHERE i.academic_year = $1
			  GROUP BY s.class
			  ORDER BY s.class`

	rows, err := db.Query(query, academicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch class balances: %w", err)
	}
	defer rows.Close()

	var balances []*ClassBalance
	for rows.Next() {
		b := &ClassBalance{}
		if err := rows.Scan(&b.Class, &b.Invoices, &b.Invoiced, &b.Collected, &b.Outstanding); err != nil {
			continue
		}
		balances = append(balances, b)
	}

	return balances, nil
}

// StudentStatement is a student's full invoice history with per-invoice
// breakdowns, for the printable fee statement page.
type StudentStatement struct {
	Student  *models.Student          `json:"student"`
	Invoices []*models.InvoiceSummary `json:"invoices"`
}

// GetStudentStatement returns the student's invoices newest first.
func GetStudentStatement(db *sql.DB, studentID string) (*StudentStatement, error) {
	student, err := GetStudentByID(db, studentID)
	if err != nil {
		return nil, err
	}

	invoices, err := GetAllInvoices(db, InvoiceFilter{StudentID: studentID}, 100, 0)
	if err != nil {
		return nil, err
	}

	return &StudentStatement{Student: student, Invoices: invoices}, nil
}
