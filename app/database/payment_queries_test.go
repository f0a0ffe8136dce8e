package database

import (
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jacaranda-schools/app/models"
)

// decimalArg matches a numeric statement argument by value, so tests do not
// depend on how trailing zeros are rendered.
type decimalArg string

func (d decimalArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	got, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return got.Equal(dec(string(d)))
}

func lockedInvoiceRows(id, total, paid, balance, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "invoice_number", "total_amount", "paid_amount", "balance",
		"status", "term", "academic_year", "due_date",
	}).AddRow(id, "stu-1", "INV/2026/0001", total, paid, balance, status, 1, "2026", time.Now())
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func paymentRequest(mode models.PaymentMode, reference string, allocations ...AllocationInput) *RecordPaymentRequest {
	return &RecordPaymentRequest{
		InvoiceID:       "inv-1",
		PaymentMode:     mode,
		ReferenceNumber: reference,
		Allocations:     allocations,
	}
}

func TestValidateRecordPayment_TotalsPositiveAllocations(t *testing.T) {
	req := paymentRequest(models.PaymentCash, "",
		AllocationInput{InvoiceItemID: "item-1", Amount: dec("2000.00")},
		AllocationInput{InvoiceItemID: "item-2", Amount: decimal.Zero},
		AllocationInput{InvoiceItemID: "item-3", Amount: dec("500.50")},
	)

	kept, total, err := validateRecordPayment(req)
	require.NoError(t, err)
	assert.Len(t, kept, 2)
	assert.True(t, total.Equal(dec("2500.50")))
}

func TestValidateRecordPayment_AllZeroRejected(t *testing.T) {
	req := paymentRequest(models.PaymentCash, "",
		AllocationInput{InvoiceItemID: "item-1", Amount: decimal.Zero},
		AllocationInput{InvoiceItemID: "item-2", Amount: decimal.Zero},
	)

	_, _, err := validateRecordPayment(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "no amount to pay")
}

func TestValidateRecordPayment_EmptyAllocationsRejected(t *testing.T) {
	_, _, err := validateRecordPayment(paymentRequest(models.PaymentCash, ""))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateRecordPayment_NegativeAmountRejected(t *testing.T) {
	req := paymentRequest(models.PaymentCash, "",
		AllocationInput{InvoiceItemID: "item-1", Amount: dec("-10.00")},
	)

	_, _, err := validateRecordPayment(req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestValidateRecordPayment_ReferenceRules(t *testing.T) {
	alloc := AllocationInput{InvoiceItemID: "item-1", Amount: dec("100.00")}

	// mpesa and bank need a reference
	_, _, err := validateRecordPayment(paymentRequest(models.PaymentMpesa, "", alloc))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, _, err = validateRecordPayment(paymentRequest(models.PaymentBank, "", alloc))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, _, err = validateRecordPayment(paymentRequest(models.PaymentMpesa, "SAF12345", alloc))
	assert.NoError(t, err)

	// cash and waiver do not
	_, _, err = validateRecordPayment(paymentRequest(models.PaymentCash, "", alloc))
	assert.NoError(t, err)

	_, _, err = validateRecordPayment(paymentRequest(models.PaymentWaiver, "", alloc))
	assert.NoError(t, err)
}

func TestValidateRecordPayment_UnknownModeRejected(t *testing.T) {
	alloc := AllocationInput{InvoiceItemID: "item-1", Amount: dec("100.00")}
	_, _, err := validateRecordPayment(paymentRequest(models.PaymentMode("cheque"), "", alloc))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPositiveAllocations_KeepsOrder(t *testing.T) {
	kept, total := positiveAllocations([]AllocationInput{
		{InvoiceItemID: "a", Amount: dec("1.00")},
		{InvoiceItemID: "b", Amount: decimal.Zero},
		{InvoiceItemID: "c", Amount: dec("2.00")},
	})

	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].InvoiceItemID)
	assert.Equal(t, "c", kept[1].InvoiceItemID)
	assert.True(t, total.Equal(dec("3.00")))
}

func TestAllocationFits(t *testing.T) {
	cases := []struct {
		name       string
		itemAmount string
		paidToDate string
		alloc      string
		ok         bool
	}{
		{"exact fit on untouched item", "3000.00", "0", "3000.00", true},
		{"partial under the cap", "3000.00", "0", "1000.00", true},
		{"exact fit of the remainder", "3000.00", "1000.00", "2000.00", true},
		{"one cent over", "3000.00", "0", "3000.01", false},
		{"one cent over the remainder", "3000.00", "1000.00", "2000.01", false},
		{"anything on a settled item", "3000.00", "3000.00", "0.01", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := allocationFits(dec(tc.itemAmount), dec(tc.paidToDate), dec(tc.alloc))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, IsConsistency(err))
			}
		})
	}
}

func TestDeletePaymentRestoresAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT invoice_id, amount FROM payments`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id", "amount"}).AddRow("inv-1", "2000.00"))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("inv-1").
		WillReturnRows(lockedInvoiceRows("inv-1", "5000.00", "2000.00", "3000.00", "partially_paid"))
	mock.ExpectExec(`DELETE FROM payment_items`).
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM payments`).
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE invoices SET`).
		WithArgs(decimalArg("5000.00"), decimalArg("0"), decimalArg("5000.00"), "due", "inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, DeletePayment(db, "pay-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePaymentGoneUnderLock(t *testing.T) {
	// The payment row is read before the invoice lock is acquired. If a
	// concurrent reversal removed it in between, the delete hits zero rows
	// and the invoice aggregates must stay untouched.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT invoice_id, amount FROM payments`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id", "amount"}).AddRow("inv-1", "2000.00"))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("inv-1").
		WillReturnRows(lockedInvoiceRows("inv-1", "5000.00", "0", "5000.00", "due"))
	mock.ExpectExec(`DELETE FROM payment_items`).
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM payments`).
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = DeletePayment(db, "pay-1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	// No UPDATE was expected; a reversal applied here would have failed the
	// ordered expectations.
	assert.NoError(t, mock.ExpectationsWereMet())
}
