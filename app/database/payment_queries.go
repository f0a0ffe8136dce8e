package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"jacaranda-schools/app/models"
)

// AllocationInput applies part of a payment to one invoice line item.
// Zero-amount allocations are accepted and skipped; the UI submits one row
// per invoice line whether or not anything is being paid on it.
type AllocationInput struct {
	InvoiceItemID string          `json:"invoice_item_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
}

// RecordPaymentRequest carries one payment and its per-line allocations.
type RecordPaymentRequest struct {
	InvoiceID       string             `json:"invoice_id" validate:"required,uuid"`
	PaymentMode     models.PaymentMode `json:"payment_mode" validate:"required"`
	ReferenceNumber string             `json:"reference_number"`
	Remarks         string             `json:"remarks"`
	ReceivedBy      string             `json:"-"`
	Allocations     []AllocationInput  `json:"allocations"`
}

// positiveAllocations filters out zero rows and totals the rest.
func positiveAllocations(allocations []AllocationInput) ([]AllocationInput, decimal.Decimal) {
	var kept []AllocationInput
	total := decimal.Zero
	for _, alloc := range allocations {
		if alloc.Amount.IsPositive() {
			kept = append(kept, alloc)
			total = total.Add(alloc.Amount)
		}
	}
	return kept, total
}

func validateRecordPayment(req *RecordPaymentRequest) ([]AllocationInput, decimal.Decimal, error) {
	if req.InvoiceID == "" {
		return nil, decimal.Zero, validationErrorf("invoice is required")
	}
	if !req.PaymentMode.Valid() {
		return nil, decimal.Zero, validationErrorf("invalid payment mode %q", req.PaymentMode)
	}
	if req.PaymentMode.RequiresReference() && req.ReferenceNumber == "" {
		return nil, decimal.Zero, validationErrorf("%s payments require a reference number", req.PaymentMode)
	}
	for _, alloc := range req.Allocations {
		if alloc.InvoiceItemID == "" {
			return nil, decimal.Zero, validationErrorf("allocation is missing its invoice item")
		}
		if alloc.Amount.IsNegative() {
			return nil, decimal.Zero, validationErrorf("allocation amounts cannot be negative")
		}
	}
	kept, total := positiveAllocations(req.Allocations)
	if len(kept) == 0 {
		return nil, decimal.Zero, validationErrorf("no amount to pay")
	}
	return kept, total, nil
}

// allocationFits rejects an allocation that would push a line item's
// cumulative payments past its billed amount.
func allocationFits(itemAmount, paidToDate, alloc decimal.Decimal) error {
	if paidToDate.Add(alloc).GreaterThan(itemAmount) {
		return consistencyErrorf("allocation of %s exceeds the %s outstanding on the line item",
			alloc.StringFixed(2), itemAmount.Sub(paidToDate).StringFixed(2))
	}
	return nil
}

// RecordPayment records a payment against one invoice: the payment row, its
// line allocations and the invoice aggregate update commit as one unit. The
// invoice row is locked for the whole read-modify-write, so concurrent
// payments against the same invoice serialize. An allocation that would push
// a line item beyond its original amount is rejected.
func RecordPayment(db *sql.DB, req *RecordPaymentRequest) (string, error) {
	allocations, total, err := validateRecordPayment(req)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < numberRetries; attempt++ {
		paymentID, err := recordPaymentOnce(db, req, allocations, total)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return "", err
		}
		return paymentID, nil
	}

	return "", &ConflictError{Message: "could not allocate a unique payment number, please retry"}
}

func recordPaymentOnce(db *sql.DB, req *RecordPaymentRequest, allocations []AllocationInput, total decimal.Decimal) (string, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := lockInvoice(tx, req.InvoiceID)
	if err != nil {
		return "", err
	}

	number, err := nextDocumentNumber(tx, "payments", "payment_number", ReceiptPrefix, time.Now().Year())
	if err != nil {
		return "", err
	}

	var reference, remarks, receivedBy interface{}
	if req.ReferenceNumber != "" {
		reference = req.ReferenceNumber
	}
	if req.Remarks != "" {
		remarks = req.Remarks
	}
	if req.ReceivedBy != "" {
		receivedBy = req.ReceivedBy
	}

	var paymentID string
	queryPayment := `INSERT INTO payments (invoice_id, payment_number, amount, payment_mode, reference_number, remarks, received_by)
					 VALUES ($1, $2, $3, $4, $5, $6, $7)
					 RETURNING id`
	err = tx.QueryRow(queryPayment,
		inv.ID, number, total, string(req.PaymentMode), reference, remarks, receivedBy,
	).Scan(&paymentID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", err
		}
		return "", fmt.Errorf("failed to insert payment: %w", err)
	}

	queryItemState := `SELECT ii.amount, COALESCE(SUM(pi.amount), 0)
					   FROM invoice_items ii
					   LEFT JOIN payment_items pi ON pi.invoice_item_id = ii.id
					   WHERE ii.id = $1 AND ii.invoice_id = $2
					   GROUP BY ii.id, ii.amount`
	queryAlloc := `INSERT INTO payment_items (payment_id, invoice_item_id, amount) VALUES ($1, $2, $3)`

	for _, alloc := range allocations {
		var itemAmount, paidToDate decimal.Decimal
		err := tx.QueryRow(queryItemState, alloc.InvoiceItemID, inv.ID).Scan(&itemAmount, &paidToDate)
		if err == sql.ErrNoRows {
			return "", &NotFoundError{Entity: "invoice item", ID: alloc.InvoiceItemID}
		}
		if err != nil {
			return "", fmt.Errorf("failed to read invoice item state: %w", err)
		}

		if err := allocationFits(itemAmount, paidToDate, alloc.Amount); err != nil {
			return "", err
		}

		if _, err := tx.Exec(queryAlloc, paymentID, alloc.InvoiceItemID, alloc.Amount); err != nil {
			return "", fmt.Errorf("failed to insert payment item: %w", err)
		}
	}

	inv.ApplyPayment(total)
	if err := updateInvoiceAggregates(tx, inv); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit payment: %w", err)
	}
	return paymentID, nil
}

// DeletePayment reverses a payment: its allocations and the payment row are
// removed and the invoice aggregates recomputed, all atomically. Status is
// rederived by the same rule as on the forward path.
func DeletePayment(db *sql.DB, paymentID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var invoiceID string
	var amount decimal.Decimal
	err = tx.QueryRow(`SELECT invoice_id, amount FROM payments WHERE id = $1`, paymentID).Scan(&invoiceID, &amount)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "payment", ID: paymentID}
	}
	if err != nil {
		return fmt.Errorf("failed to look up payment: %w", err)
	}

	inv, err := lockInvoice(tx, invoiceID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM payment_items WHERE payment_id = $1`, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment items: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	// The payment row was read before the invoice lock was taken. A
	// concurrent reversal may have removed it while this transaction
	// waited on the lock; reversing the amount again would corrupt the
	// aggregates.
	if deleted == 0 {
		return &NotFoundError{Entity: "payment", ID: paymentID}
	}

	inv.ReversePayment(amount)
	if err := updateInvoiceAggregates(tx, inv); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPaymentByID returns one payment with its invoice and student details.
func GetPaymentByID(db *sql.DB, paymentID string) (*models.PaymentSummary, error) {
	query := `SELECT p.id, p.invoice_id, p.payment_number, p.amount, p.payment_mode,
			  p.reference_number, p.remarks, p.received_by, p.created_at,
			  i.invoice_number, s.first_name || ' ' || s.last_name, s.admission_number
			  FROM payments p
			  JOIN invoices i ON p.invoice_id = i.id
			  JOIN students s ON i.student_id = s.id
			  WHERE p.id = $1`

	payment := &models.PaymentSummary{}
	var mode string
	err := db.QueryRow(query, paymentID).Scan(
		&payment.ID, &payment.InvoiceID, &payment.PaymentNumber, &payment.Amount, &mode,
		&payment.ReferenceNumber, &payment.Remarks, &payment.ReceivedBy, &payment.CreatedAt,
		&payment.InvoiceNumber, &payment.StudentName, &payment.AdmissionNumber,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "payment", ID: paymentID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	payment.PaymentMode = models.PaymentMode(mode)
	return payment, nil
}

// GetPaymentsByInvoice lists all payments recorded against one invoice,
// oldest first.
func GetPaymentsByInvoice(db *sql.DB, invoiceID string) ([]*models.Payment, error) {
	query := `SELECT id, invoice_id, payment_number, amount, payment_mode, reference_number, remarks, received_by, created_at
			  FROM payments
			  WHERE invoice_id = $1
			  ORDER BY created_at ASC`

	rows, err := db.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var mode string
		err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.PaymentNumber, &p.Amount, &mode,
			&p.ReferenceNumber, &p.Remarks, &p.ReceivedBy, &p.CreatedAt,
		)
		if err != nil {
			continue
		}
		p.PaymentMode = models.PaymentMode(mode)
		payments = append(payments, p)
	}

	return payments, nil
}

// GetAllPayments lists payments newest first with invoice/student context.
func GetAllPayments(db *sql.DB, limit, offset int) ([]*models.PaymentSummary, error) {
	query := `SELECT p.id, p.invoice_id, p.payment_number, p.amount, p.payment_mode,
			  p.reference_number, p.remarks, p.received_by, p.created_at,
			  i.invoice_number, s.first_name || ' ' || s.last_name, s.admission_number
			  FROM payments p
			  JOIN invoices i ON p.invoice_id = i.id
			  JOIN students s ON i.student_id = s.id
			  ORDER BY p.created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.PaymentSummary
	for rows.Next() {
		p := &models.PaymentSummary{}
		var mode string
		err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.PaymentNumber, &p.Amount, &mode,
			&p.ReferenceNumber, &p.Remarks, &p.ReceivedBy, &p.CreatedAt,
			&p.InvoiceNumber, &p.StudentName, &p.AdmissionNumber,
		)
		if err != nil {
			continue
		}
		p.PaymentMode = models.PaymentMode(mode)
		payments = append(payments, p)
	}

	return payments, nil
}
