package database

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *CreateInvoiceRequest {
	return &CreateInvoiceRequest{
		StudentID:    "stu-1",
		Term:         2,
		AcademicYear: "2026",
		DueDate:      time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC),
		Items: []InvoiceItemInput{
			{FeeStructureID: "fee-1", Amount: dec("3000.00")},
			{FeeStructureID: "fee-2", Amount: dec("2000.00")},
		},
	}
}

func TestValidateCreateInvoice_OK(t *testing.T) {
	assert.NoError(t, validateCreateInvoice(validCreateRequest()))
}

func TestValidateCreateInvoice_EmptyItems(t *testing.T) {
	req := validCreateRequest()
	req.Items = nil

	err := validateCreateInvoice(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateCreateInvoice_NonPositiveAmount(t *testing.T) {
	req := validCreateRequest()
	req.Items[1].Amount = decimal.Zero
	err := validateCreateInvoice(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	req = validCreateRequest()
	req.Items[0].Amount = dec("-100.00")
	err = validateCreateInvoice(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateCreateInvoice_MissingScalars(t *testing.T) {
	req := validCreateRequest()
	req.Term = 0
	assert.True(t, IsValidation(validateCreateInvoice(req)))

	req = validCreateRequest()
	req.AcademicYear = ""
	assert.True(t, IsValidation(validateCreateInvoice(req)))

	req = validCreateRequest()
	req.DueDate = time.Time{}
	assert.True(t, IsValidation(validateCreateInvoice(req)))

	req = validCreateRequest()
	req.StudentID = ""
	assert.True(t, IsValidation(validateCreateInvoice(req)))
}

func TestSumItemAmounts(t *testing.T) {
	req := validCreateRequest()
	assert.True(t, sumItemAmounts(req.Items).Equal(dec("5000.00")))
	assert.True(t, sumItemAmounts(nil).IsZero())
}

func TestInvoiceTotalIncludesCarryForward(t *testing.T) {
	// A student with an unpaid balance of 1200.00 from term 1 gets it folded
	// into the next invoice's total on top of the selected fees.
	req := validCreateRequest()
	carry := dec("1200.00")

	total := sumItemAmounts(req.Items).Add(carry)
	assert.True(t, total.Equal(dec("6200.00")))
}

func TestEarlierTerm(t *testing.T) {
	cases := []struct {
		name       string
		year       string
		term       int
		beforeYear string
		beforeTerm int
		earlier    bool
	}{
		{"earlier year, any term", "2025", 3, "2026", 1, true},
		{"same year, earlier term", "2026", 1, "2026", 2, true},
		{"same year and term", "2026", 2, "2026", 2, false},
		{"same year, later term", "2026", 3, "2026", 2, false},
		{"later year, earlier term", "2027", 1, "2026", 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.earlier, earlierTerm(tc.year, tc.term, tc.beforeYear, tc.beforeTerm))
		})
	}
}

func TestEditInvoiceRejectsAllocatedLineItems(t *testing.T) {
	// Replacing fee lines that payments were allocated against would leave
	// payment headers out of step with their item breakdown.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("inv-1").
		WillReturnRows(lockedInvoiceRows("inv-1", "5000.00", "2000.00", "3000.00", "partially_paid"))
	mock.ExpectQuery(`fee_structure_id IS NULL`).
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))
	mock.ExpectQuery(`payment_items`).
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = EditInvoice(db, "inv-1", []InvoiceItemInput{
		{FeeStructureID: "fee-1", Amount: dec("4000.00")},
	})
	require.Error(t, err)
	assert.True(t, IsConsistency(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
