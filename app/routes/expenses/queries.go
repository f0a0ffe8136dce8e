package expenses

import (
	"database/sql"
	"fmt"

	"jacaranda-schools/app/models"
)

// Expense Queries
func GetAllExpenses(db *sql.DB) ([]*models.Expense, error) {
	query := `SELECT e.id, e.category_id, e.title, e.amount, e.currency, e.date,
			  e.period_start, e.period_end, COALESCE(e.notes, ''),
			  e.created_at, e.updated_at, c.id, c.name
			  FROM expenses e
			  LEFT JOIN categories c ON e.category_id = c.id
			  WHERE e.deleted_at IS NULL
			  ORDER BY e.date DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []*models.Expense{} // Initialize to empty slice for non-null JSON
	for rows.Next() {
		e := &models.Expense{}
		var catID, catName sql.NullString
		err := rows.Scan(
			&e.ID, &e.CategoryID, &e.Title, &e.Amount, &e.Currency, &e.Date,
			&e.PeriodStart, &e.PeriodEnd, &e.Notes,
			&e.CreatedAt, &e.UpdatedAt, &catID, &catName,
		)
		if err != nil {
			return nil, err
		}

		if catID.Valid {
			e.Category = &models.Category{
				ID:   catID.String,
				Name: catName.String,
			}
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func GetExpenseByID(db *sql.DB, id string) (*models.Expense, error) {
	query := `SELECT e.id, e.category_id, e.title, e.amount, e.currency, e.date,
			  e.period_start, e.period_end, COALESCE(e.notes, ''),
			  e.created_at, e.updated_at, c.id, c.name
			  FROM expenses e
			  LEFT JOIN categories c ON e.category_id = c.id
			  WHERE e.id = $1 AND e.deleted_at IS NULL`

	e := &models.Expense{}
	var catID, catName sql.NullString
	err := db.QueryRow(query, id).Scan(
		&e.ID, &e.CategoryID, &e.Title, &e.Amount, &e.Currency, &e.Date,
		&e.PeriodStart, &e.PeriodEnd, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt, &catID, &catName,
	)
	if err != nil {
		return nil, err
	}

	if catID.Valid {
		e.Category = &models.Category{
			ID:   catID.String,
			Name: catName.String,
		}
	}
	return e, nil
}

func CreateExpense(db *sql.DB, e *models.Expense) error {
	if e.Currency == "" {
		e.Currency = "KES"
	}
	query := `INSERT INTO expenses (category_id, title, amount, currency, date, period_start, period_end, notes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	return db.QueryRow(query, e.CategoryID, e.Title, e.Amount, e.Currency, e.Date, e.PeriodStart, e.PeriodEnd, e.Notes).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func UpdateExpense(db *sql.DB, e *models.Expense) error {
	query := `UPDATE expenses
			  SET category_id = $1, title = $2, amount = $3, currency = $4, date = $5,
			      period_start = $6, period_end = $7, notes = NULLIF($8, ''), updated_at = NOW()
			  WHERE id = $9 AND deleted_at IS NULL`

	result, err := db.Exec(query, e.CategoryID, e.Title, e.Amount, e.Currency, e.Date, e.PeriodStart, e.PeriodEnd, e.Notes, e.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("expense not found")
	}
	return nil
}

func DeleteExpense(db *sql.DB, id string) error {
	query := `UPDATE expenses SET deleted_at = NOW() WHERE id = $1`
	_, err := db.Exec(query, id)
	return err
}

// Category Queries
func GetAllCategories(db *sql.DB) ([]*models.Category, error) {
	query := `SELECT id, name, is_active, created_at, updated_at
			  FROM categories
			  WHERE deleted_at IS NULL
			  ORDER BY name ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.Category{} // Initialize to empty slice for non-null JSON
	for rows.Next() {
		c := &models.Category{}
		err := rows.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func CreateCategory(db *sql.DB, c *models.Category) error {
	query := `INSERT INTO categories (name, is_active, created_at, updated_at)
			  VALUES ($1, $2, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	return db.QueryRow(query, c.Name, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func UpdateCategory(db *sql.DB, c *models.Category) error {
	query := `UPDATE categories
			  SET name = $1, is_active = $2, updated_at = NOW()
			  WHERE id = $3 AND deleted_at IS NULL`

	result, err := db.Exec(query, c.Name, c.IsActive, c.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}

func DeleteCategory(db *sql.DB, id string) error {
	query := `UPDATE categories SET deleted_at = NOW() WHERE id = $1`
	_, err := db.Exec(query, id)
	return err
}
