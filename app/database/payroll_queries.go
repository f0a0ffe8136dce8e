package database

import (
	"database/sql"
	"fmt"
	"time"

	"jacaranda-schools/app/models"
)

// SetStaffSalary records a new salary configuration for a staff member,
// retiring any previous one.
func SetStaffSalary(db *sql.DB, salary *models.StaffSalary) error {
	if !salary.Amount.IsPositive() {
		return validationErrorf("salary amount must be greater than zero")
	}
	if salary.Period == "" {
		salary.Period = models.SalaryMonth
	}
	if salary.EffectiveDate.IsZero() {
		salary.EffectiveDate = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE staff_salaries SET deleted_at = NOW() WHERE user_id = $1 AND deleted_at IS NULL`, salary.UserID); err != nil {
		return fmt.Errorf("failed to retire previous salary: %w", err)
	}

	query := `INSERT INTO staff_salaries (user_id, amount, period, effective_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, salary.UserID, salary.Amount, string(salary.Period), salary.EffectiveDate).Scan(
		&salary.ID, &salary.CreatedAt, &salary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert salary: %w", err)
	}

	return tx.Commit()
}

// GetStaffSalary returns the current salary configuration for a user.
func GetStaffSalary(db *sql.DB, userID string) (*models.StaffSalary, error) {
	query := `SELECT id, user_id, amount, period, effective_date, created_at, updated_at
			  FROM staff_salaries
			  WHERE user_id = $1 AND deleted_at IS NULL
			  ORDER BY effective_date DESC
			  LIMIT 1`

	salary := &models.StaffSalary{}
	var period string
	err := db.QueryRow(query, userID).Scan(
		&salary.ID, &salary.UserID, &salary.Amount, &period,
		&salary.EffectiveDate, &salary.CreatedAt, &salary.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "salary configuration", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch salary: %w", err)
	}
	salary.Period = models.SalaryPeriod(period)
	return salary, nil
}

// CreateStaffPayment records a salary disbursement and creates a matching
// expense entry in one transaction, so payroll shows up in expense reports.
func CreateStaffPayment(db *sql.DB, payment *models.StaffPayment, staffName string) error {
	if !payment.Amount.IsPositive() {
		return validationErrorf("payment amount must be greater than zero")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPayment := `INSERT INTO staff_payments (user_id, amount, period_start, period_end, reference, notes, paid_at)
					 VALUES ($1, $2, $3, $4, $5, $6, NOW())
					 RETURNING id, paid_at`
	err = tx.QueryRow(queryPayment,
		payment.UserID, payment.Amount, payment.PeriodStart, payment.PeriodEnd,
		payment.Reference, payment.Notes,
	).Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to insert staff payment: %w", err)
	}

	var categoryID string
	err = tx.QueryRow(`SELECT id FROM categories WHERE name = 'Salaries' AND deleted_at IS NULL`).Scan(&categoryID)
	if err == sql.ErrNoRows {
		err = tx.QueryRow(`INSERT INTO categories (name, is_active) VALUES ('Salaries', true) RETURNING id`).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}

	title := fmt.Sprintf("Salary Payout: %s", staffName)
	notes := fmt.Sprintf("System generated expense for payroll disbursement. Period: %s to %s",
		payment.PeriodStart.Format("2006-01-02"), payment.PeriodEnd.Format("2006-01-02"))

	queryExpense := `INSERT INTO expenses (category_id, title, amount, currency, date, period_start, period_end, notes)
					 VALUES ($1, $2, $3, 'KES', NOW(), $4, $5, $6)`
	_, err = tx.Exec(queryExpense, categoryID, title, payment.Amount, payment.PeriodStart, payment.PeriodEnd, notes)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return tx.Commit()
}

// GetStaffPayments retrieves all salary payments for one staff member.
func GetStaffPayments(db *sql.DB, userID string) ([]*models.StaffPayment, error) {
	query := `SELECT id, user_id, amount, period_start, period_end, paid_at, reference, notes
			  FROM staff_payments
			  WHERE user_id = $1
			  ORDER BY paid_at DESC`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.StaffPayment
	for rows.Next() {
		p := &models.StaffPayment{}
		var reference, notes sql.NullString
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Amount, &p.PeriodStart, &p.PeriodEnd,
			&p.PaidAt, &reference, &notes,
		)
		if err != nil {
			continue
		}
		p.Reference = reference.String
		p.Notes = notes.String
		payments = append(payments, p)
	}

	return payments, nil
}

// StaffPaymentExists reports whether a disbursement already covers the period.
func StaffPaymentExists(db *sql.DB, userID string, periodStart, periodEnd interface{}) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
			  SELECT 1 FROM staff_payments
			  WHERE user_id = $1 AND period_start = $2 AND period_end = $3)`
	err := db.QueryRow(query, userID, periodStart, periodEnd).Scan(&exists)
	return exists, err
}
