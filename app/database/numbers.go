package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Document number prefixes. Numbers look like INV/2026/0001 and are unique
// per table; serials restart at 1 every calendar year.
const (
	InvoicePrefix = "INV"
	ReceiptPrefix = "RCP"
)

// numberRetries bounds how often an insert is retried after a serial
// collision before the operation surfaces a ConflictError.
const numberRetries = 5

type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// FormatDocumentNumber renders a document number from its parts.
func FormatDocumentNumber(prefix string, year, serial int) string {
	return fmt.Sprintf("%s/%d/%04d", prefix, year, serial)
}

// parseDocumentSerial extracts the serial from a number like INV/2026/0012.
// Returns false for numbers of another prefix/year or malformed input.
func parseDocumentSerial(number, prefix string, year int) (int, bool) {
	want := fmt.Sprintf("%s/%d/", prefix, year)
	if !strings.HasPrefix(number, want) {
		return 0, false
	}
	serial, err := strconv.Atoi(number[len(want):])
	if err != nil || serial <= 0 {
		return 0, false
	}
	return serial, true
}

// smallestUnusedSerial scans linearly from 1 for the first free serial.
func smallestUnusedSerial(used map[int]bool) int {
	for serial := 1; ; serial++ {
		if !used[serial] {
			return serial
		}
	}
}

// nextDocumentNumber computes the smallest unused number for the year. The
// read is not atomic with the subsequent insert; callers rely on the unique
// constraint on the number column and retry on collision.
func nextDocumentNumber(q querier, table, column, prefix string, year int) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIKE $1`, column, table, column)
	rows, err := q.Query(query, fmt.Sprintf("%s/%d/%%", prefix, year))
	if err != nil {
		return "", fmt.Errorf("failed to scan existing %s numbers: %w", prefix, err)
	}
	defer rows.Close()

	used := make(map[int]bool)
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			continue
		}
		if serial, ok := parseDocumentSerial(number, prefix, year); ok {
			used[serial] = true
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to scan existing %s numbers: %w", prefix, err)
	}

	return FormatDocumentNumber(prefix, year, smallestUnusedSerial(used)), nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
