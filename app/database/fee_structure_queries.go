package database

import (
	"database/sql"
	"fmt"

	"jacaranda-schools/app/models"
)

// CreateFeeStructureItem adds one fee template row.
func CreateFeeStructureItem(db *sql.DB, item *models.FeeStructureItem) error {
	if item.Class == "" || item.EducationLevel == "" || item.AcademicYear == "" || item.FeeItem == "" {
		return validationErrorf("class, education level, academic year and fee item are required")
	}
	if item.Term <= 0 {
		return validationErrorf("term is required")
	}
	if !item.Amount.IsPositive() {
		return validationErrorf("amount must be greater than zero")
	}

	query := `INSERT INTO fee_structure (class, education_level, term, academic_year, fee_item, amount)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	err := db.QueryRow(query,
		item.Class, item.EducationLevel, item.Term, item.AcademicYear, item.FeeItem, item.Amount,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fee structure item: %w", err)
	}
	return nil
}

// FeeStructureFilter narrows down fee structure listings.
type FeeStructureFilter struct {
	Class          string
	EducationLevel string
	Term           int
	AcademicYear   string
}

// GetFeeStructure lists fee template rows, optionally filtered by the tuple
// that an invoice is built from.
func GetFeeStructure(db *sql.DB, filter FeeStructureFilter) ([]*models.FeeStructureItem, error) {
	query := `SELECT id, class, education_level, term, academic_year, fee_item, amount, created_at, updated_at
			  FROM fee_structure WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if filter.Class != "" {
		query += fmt.Sprintf(" AND class = $%d", argIndex)
		args = append(args, filter.Class)
		argIndex++
	}
	if filter.EducationLevel != "" {
		query += fmt.Sprintf(" AND education_level = $%d", argIndex)
		args = append(args, filter.EducationLevel)
		argIndex++
	}
	if filter.Term > 0 {
		query += fmt.Sprintf(" AND term = $%d", argIndex)
		args = append(args, filter.Term)
		argIndex++
	}
	if filter.AcademicYear != "" {
		query += fmt.Sprintf(" AND academic_year = $%d", argIndex)
		args = append(args, filter.AcademicYear)
		argIndex++
	}

	query += " ORDER BY academic_year DESC, term, class, fee_item"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee structure: %w", err)
	}
	defer rows.Close()

	var items []*models.FeeStructureItem
	for rows.Next() {
		item := &models.FeeStructureItem{}
		err := rows.Scan(
			&item.ID, &item.Class, &item.EducationLevel, &item.Term,
			&item.AcademicYear, &item.FeeItem, &item.Amount,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// GetFeeStructureItemByID returns one fee template row.
func GetFeeStructureItemByID(db *sql.DB, itemID string) (*models.FeeStructureItem, error) {
	query := `SELECT id, class, education_level, term, academic_year, fee_item, amount, created_at, updated_at
			  FROM fee_structure WHERE id = $1`

	item := &models.FeeStructureItem{}
	err := db.QueryRow(query, itemID).Scan(
		&item.ID, &item.Class, &item.EducationLevel, &item.Term,
		&item.AcademicYear, &item.FeeItem, &item.Amount,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "fee structure item", ID: itemID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee structure item: %w", err)
	}
	return item, nil
}

// UpdateFeeStructureItem edits a fee template row. Already-built invoices
// keep their copied amounts.
func UpdateFeeStructureItem(db *sql.DB, item *models.FeeStructureItem) error {
	if !item.Amount.IsPositive() {
		return validationErrorf("amount must be greater than zero")
	}

	query := `UPDATE fee_structure SET class = $1, education_level = $2, term = $3, academic_year = $4,
			  fee_item = $5, amount = $6, updated_at = NOW()
			  WHERE id = $7`
	result, err := db.Exec(query,
		item.Class, item.EducationLevel, item.Term, item.AcademicYear, item.FeeItem, item.Amount, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee structure item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return &NotFoundError{Entity: "fee structure item", ID: item.ID}
	}
	return nil
}

// DeleteFeeStructureItem removes a fee template row. Rows referenced by
// invoice items are kept to preserve invoice history.
func DeleteFeeStructureItem(db *sql.DB, itemID string) error {
	var referenced bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM invoice_items WHERE fee_structure_id = $1)`, itemID).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("failed to check fee structure references: %w", err)
	}
	if referenced {
		return consistencyErrorf("fee structure item is referenced by existing invoices")
	}

	result, err := db.Exec(`DELETE FROM fee_structure WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete fee structure item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return &NotFoundError{Entity: "fee structure item", ID: itemID}
	}
	return nil
}
