package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"jacaranda-schools/app/models"
)

// InvoiceItemInput selects one fee structure charge for a new invoice.
type InvoiceItemInput struct {
	FeeStructureID string          `json:"fee_structure_id" validate:"required,uuid"`
	Amount         decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest carries everything needed to build an invoice.
type CreateInvoiceRequest struct {
	StudentID    string             `json:"student_id" validate:"required,uuid"`
	Term         int                `json:"term" validate:"required,min=1,max=3"`
	AcademicYear string             `json:"academic_year" validate:"required"`
	DueDate      time.Time          `json:"-"`
	Items        []InvoiceItemInput `json:"items"`
}

func validateInvoiceItems(items []InvoiceItemInput) error {
	if len(items) == 0 {
		return validationErrorf("no fee items selected")
	}
	for _, item := range items {
		if item.FeeStructureID == "" {
			return validationErrorf("fee item reference is required")
		}
		if !item.Amount.IsPositive() {
			return validationErrorf("fee item amounts must be greater than zero")
		}
	}
	return nil
}

func validateCreateInvoice(req *CreateInvoiceRequest) error {
	if req.StudentID == "" {
		return validationErrorf("student is required")
	}
	if req.Term <= 0 {
		return validationErrorf("term is required")
	}
	if req.AcademicYear == "" {
		return validationErrorf("academic year is required")
	}
	if req.DueDate.IsZero() {
		return validationErrorf("due date is required")
	}
	return validateInvoiceItems(req.Items)
}

func sumItemAmounts(items []InvoiceItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// earlierTerm reports whether (year, term) falls strictly before
// (beforeYear, beforeTerm). Academic years compare lexically, which holds
// for the four-digit years the system uses.
func earlierTerm(year string, term int, beforeYear string, beforeTerm int) bool {
	if year != beforeYear {
		return year < beforeYear
	}
	return term < beforeTerm
}

// carryForwardBalance sums the open balances of the student's invoices with a
// (year, term) strictly earlier than the given one.
func carryForwardBalance(tx *sql.Tx, studentID, academicYear string, term int) (decimal.Decimal, error) {
	query := `SELECT academic_year, term, balance FROM invoices
			  WHERE student_id = $1 AND balance > 0`

	rows, err := tx.Query(query, studentID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute carry-forward balance: %w", err)
	}
	defer rows.Close()

	carry := decimal.Zero
	for rows.Next() {
		var year string
		var invTerm int
		var balance decimal.Decimal
		if err := rows.Scan(&year, &invTerm, &balance); err != nil {
			return decimal.Zero, fmt.Errorf("failed to compute carry-forward balance: %w", err)
		}
		if earlierTerm(year, invTerm, academicYear, term) {
			carry = carry.Add(balance)
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute carry-forward balance: %w", err)
	}
	return carry, nil
}

// CreateInvoice builds an invoice for a student from selected fee structure
// items, folding any unpaid prior-term balance in as one extra line item. The
// invoice, its items and its number are committed as one unit; a number
// collision under concurrent creation restarts the whole transaction.
func CreateInvoice(db *sql.DB, req *CreateInvoiceRequest) (string, error) {
	if err := validateCreateInvoice(req); err != nil {
		return "", err
	}

	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, req.StudentID).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("failed to look up student: %w", err)
	}
	if !exists {
		return "", &NotFoundError{Entity: "student", ID: req.StudentID}
	}

	for attempt := 0; attempt < numberRetries; attempt++ {
		invoiceID, err := createInvoiceOnce(db, req)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return "", err
		}
		return invoiceID, nil
	}

	return "", &ConflictError{Message: "could not allocate a unique invoice number, please retry"}
}

func createInvoiceOnce(db *sql.DB, req *CreateInvoiceRequest) (string, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	carry, err := carryForwardBalance(tx, req.StudentID, req.AcademicYear, req.Term)
	if err != nil {
		return "", err
	}

	total := sumItemAmounts(req.Items).Add(carry)

	number, err := nextDocumentNumber(tx, "invoices", "invoice_number", InvoicePrefix, time.Now().Year())
	if err != nil {
		return "", err
	}

	var invoiceID string
	queryInvoice := `INSERT INTO invoices (student_id, invoice_number, total_amount, paid_amount, balance, status, term, academic_year, due_date)
					 VALUES ($1, $2, $3, 0, $3, $4, $5, $6, $7)
					 RETURNING id`
	err = tx.QueryRow(queryInvoice,
		req.StudentID,
		number,
		total,
		string(models.InvoiceDue),
		req.Term,
		req.AcademicYear,
		req.DueDate,
	).Scan(&invoiceID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", err
		}
		return "", fmt.Errorf("failed to insert invoice: %w", err)
	}

	queryItem := `INSERT INTO invoice_items (invoice_id, fee_structure_id, description, amount)
				  SELECT $1, id, fee_item, $2 FROM fee_structure WHERE id = $3`
	for _, item := range req.Items {
		result, err := tx.Exec(queryItem, invoiceID, item.Amount, item.FeeStructureID)
		if err != nil {
			return "", fmt.Errorf("failed to insert invoice item: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil || rowsAffected == 0 {
			return "", &NotFoundError{Entity: "fee structure item", ID: item.FeeStructureID}
		}
	}

	if carry.IsPositive() {
		queryCarry := `INSERT INTO invoice_items (invoice_id, fee_structure_id, description, amount)
					   VALUES ($1, NULL, $2, $3)`
		if _, err := tx.Exec(queryCarry, invoiceID, models.CarryForwardDescription, carry); err != nil {
			return "", fmt.Errorf("failed to insert carry-forward item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit invoice: %w", err)
	}
	return invoiceID, nil
}

// EditInvoice replaces all line items of an invoice and recomputes its total,
// preserving the paid amount from payment history. The edit is rejected when
// the new total is below what has already been paid, since that would drive
// the balance negative.
func EditInvoice(db *sql.DB, invoiceID string, items []InvoiceItemInput) error {
	if err := validateInvoiceItems(items); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := lockInvoice(tx, invoiceID)
	if err != nil {
		return err
	}

	// Carry-forward items on the existing invoice survive the edit; only fee
	// structure lines are replaced.
	var carry decimal.Decimal
	queryCarry := `SELECT COALESCE(SUM(amount), 0) FROM invoice_items
				   WHERE invoice_id = $1 AND fee_structure_id IS NULL`
	if err := tx.QueryRow(queryCarry, invoiceID).Scan(&carry); err != nil {
		return fmt.Errorf("failed to read carry-forward items: %w", err)
	}

	// Payments allocated to the fee lines being replaced would be orphaned
	// by the replacement, leaving payment headers that no longer match their
	// item breakdown. Such payments have to be reversed first.
	var allocated bool
	queryAllocated := `SELECT EXISTS (
						   SELECT 1 FROM payment_items pi
						   JOIN invoice_items ii ON pi.invoice_item_id = ii.id
						   WHERE ii.invoice_id = $1 AND ii.fee_structure_id IS NOT NULL)`
	if err := tx.QueryRow(queryAllocated, invoiceID).Scan(&allocated); err != nil {
		return fmt.Errorf("failed to check line item allocations: %w", err)
	}
	if allocated {
		return consistencyErrorf("invoice %s has payments allocated to its line items, reverse them before editing",
			inv.InvoiceNumber)
	}

	inv.Retotal(sumItemAmounts(items).Add(carry))
	if inv.Balance.IsNegative() {
		return consistencyErrorf("invoice %s already has %s paid, new total %s would drive the balance negative",
			inv.InvoiceNumber, inv.PaidAmount.StringFixed(2), inv.TotalAmount.StringFixed(2))
	}

	if _, err := tx.Exec(`DELETE FROM invoice_items WHERE invoice_id = $1 AND fee_structure_id IS NOT NULL`, invoiceID); err != nil {
		return fmt.Errorf("failed to clear invoice items: %w", err)
	}

	queryItem := `INSERT INTO invoice_items (invoice_id, fee_structure_id, description, amount)
				  SELECT $1, id, fee_item, $2 FROM fee_structure WHERE id = $3`
	for _, item := range items {
		result, err := tx.Exec(queryItem, invoiceID, item.Amount, item.FeeStructureID)
		if err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil || rowsAffected == 0 {
			return &NotFoundError{Entity: "fee structure item", ID: item.FeeStructureID}
		}
	}

	if err := updateInvoiceAggregates(tx, inv); err != nil {
		return err
	}

	return tx.Commit()
}

// lockInvoice reads an invoice row FOR UPDATE so aggregate recomputation is
// serialized per invoice across concurrent requests.
func lockInvoice(tx *sql.Tx, invoiceID string) (*models.Invoice, error) {
	query := `SELECT id, student_id, invoice_number, total_amount, paid_amount, balance, status, term, academic_year, due_date
			  FROM invoices WHERE id = $1 FOR UPDATE`

	inv := &models.Invoice{}
	var status string
	err := tx.QueryRow(query, invoiceID).Scan(
		&inv.ID, &inv.StudentID, &inv.InvoiceNumber,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Balance, &status,
		&inv.Term, &inv.AcademicYear, &inv.DueDate,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "invoice", ID: invoiceID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock invoice: %w", err)
	}
	inv.Status = models.InvoiceStatus(status)
	return inv, nil
}

// updateInvoiceAggregates writes back the derived fields of a locked invoice.
func updateInvoiceAggregates(tx *sql.Tx, inv *models.Invoice) error {
	query := `UPDATE invoices SET total_amount = $1, paid_amount = $2, balance = $3, status = $4, updated_at = NOW()
			  WHERE id = $5`
	if _, err := tx.Exec(query, inv.TotalAmount, inv.PaidAmount, inv.Balance, string(inv.Status), inv.ID); err != nil {
		return fmt.Errorf("failed to update invoice aggregates: %w", err)
	}
	return nil
}

// GetInvoiceByID returns one invoice with student details.
func GetInvoiceByID(db *sql.DB, invoiceID string) (*models.InvoiceSummary, error) {
	query := `SELECT i.id, i.student_id, i.invoice_number, i.total_amount, i.paid_amount, i.balance, i.status,
			  i.term, i.academic_year, i.due_date, i.created_at,
			  s.first_name || ' ' || s.last_name, s.admission_number, s.class
			  FROM invoices i
			  JOIN students s ON i.student_id = s.id
			  WHERE i.id = $1`

	inv := &models.InvoiceSummary{}
	var status string
	err := db.QueryRow(query, invoiceID).Scan(
		&inv.ID, &inv.StudentID, &inv.InvoiceNumber,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Balance, &status,
		&inv.Term, &inv.AcademicYear, &inv.DueDate, &inv.CreatedAt,
		&inv.StudentName, &inv.AdmissionNumber, &inv.StudentClass,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "invoice", ID: invoiceID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	inv.Status = models.InvoiceStatus(status)
	return inv, nil
}

// InvoiceFilter narrows down invoice listings.
type InvoiceFilter struct {
	StudentID    string
	AcademicYear string
	Term         int
	Status       string
}

// GetAllInvoices lists invoices newest first, optionally filtered.
func GetAllInvoices(db *sql.DB, filter InvoiceFilter, limit, offset int) ([]*models.InvoiceSummary, error) {
	query := `SELECT i.id, i.student_id, i.invoice_number, i.total_amount, i.paid_amount, i.balance, i.status,
			  i.term, i.academic_year, i.due_date, i.created_at,
			  s.first_name || ' ' || s.last_name, s.admission_number, s.class
			  FROM invoices i
			  JOIN students s ON i.student_id = s.id
			  WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND i.student_id = $%d", argIndex)
		args = append(args, filter.StudentID)
		argIndex++
	}
	if filter.AcademicYear != "" {
		query += fmt.Sprintf(" AND i.academic_year = $%d", argIndex)
		args = append(args, filter.AcademicYear)
		argIndex++
	}
	if filter.Term > 0 {
		query += fmt.Sprintf(" AND i.term = $%d", argIndex)
		args = append(args, filter.Term)
		argIndex++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND i.status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.InvoiceSummary
	for rows.Next() {
		inv := &models.InvoiceSummary{}
		var status string
		err := rows.Scan(
			&inv.ID, &inv.StudentID, &inv.InvoiceNumber,
			&inv.TotalAmount, &inv.PaidAmount, &inv.Balance, &status,
			&inv.Term, &inv.AcademicYear, &inv.DueDate, &inv.CreatedAt,
			&inv.StudentName, &inv.AdmissionNumber, &inv.StudentClass,
		)
		if err != nil {
			continue
		}
		inv.Status = models.InvoiceStatus(status)
		invoices = append(invoices, inv)
	}

	return invoices, nil
}
