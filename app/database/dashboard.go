package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"jacaranda-schools/app/models"
)

// GetDashboardStats aggregates the headline numbers for the dashboard page.
func GetDashboardStats(db *sql.DB) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := db.QueryRow(`SELECT COUNT(*) FROM students WHERE status = 'active'`).Scan(&stats.TotalStudents)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	query := `SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(paid_amount), 0), COALESCE(SUM(balance), 0)
			  FROM invoices`
	err = db.QueryRow(query).Scan(&stats.TotalInvoiced, &stats.TotalCollected, &stats.TotalOutstanding)
	if err != nil {
		return nil, fmt.Errorf("failed to total invoices: %w", err)
	}

	err = db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE deleted_at IS NULL`).Scan(&stats.TotalExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}

	if stats.TotalInvoiced.IsPositive() {
		rate, _ := stats.TotalCollected.Div(stats.TotalInvoiced).Mul(decimal.NewFromInt(100)).Float64()
		stats.CollectionRate = rate
	}

	stats.RecentPayments = recentPaymentActivity(db)
	return stats, nil
}

func recentPaymentActivity(db *sql.DB) []models.Activity {
	query := `SELECT p.payment_number, p.amount, s.first_name || ' ' || s.last_name, p.created_at
			  FROM payments p
			  JOIN invoices i ON p.invoice_id = i.id
			  JOIN students s ON i.student_id = s.id
			  ORDER BY p.created_at DESC
			  LIMIT 10`

	rows, err := db.Query(query)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var number, studentName string
		var amount string
		var createdAt time.Time
		if err := rows.Scan(&number, &amount, &studentName, &createdAt); err != nil {
			continue
		}
		activities = append(activities, models.Activity{
			Type:        "payment",
			Title:       number,
			Description: fmt.Sprintf("KES %s from %s", amount, studentName),
			RawTime:     createdAt,
			TimeAgo:     timeAgo(createdAt),
		})
	}
	return activities
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
