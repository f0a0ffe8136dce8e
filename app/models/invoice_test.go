package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jacaranda-schools/app/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newDueInvoice(total string) *models.Invoice {
	return &models.Invoice{
		ID:            "inv-1",
		StudentID:     "stu-1",
		InvoiceNumber: "INV/2026/0001",
		TotalAmount:   dec(total),
		PaidAmount:    decimal.Zero,
		Balance:       dec(total),
		Status:        models.InvoiceDue,
		Term:          1,
		AcademicYear:  "2026",
	}
}

func TestStatusForAmounts(t *testing.T) {
	cases := []struct {
		name  string
		total string
		paid  string
		want  models.InvoiceStatus
	}{
		{"nothing paid", "5000.00", "0", models.InvoiceDue},
		{"partially paid", "5000.00", "2000.00", models.InvoicePartiallyPaid},
		{"exactly paid", "5000.00", "5000.00", models.InvoiceFullyPaid},
		{"overpaid", "5000.00", "6000.00", models.InvoiceFullyPaid},
		{"one cent paid", "5000.00", "0.01", models.InvoicePartiallyPaid},
		{"one cent short", "5000.00", "4999.99", models.InvoicePartiallyPaid},
		{"zero total zero paid", "0", "0", models.InvoiceDue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.StatusForAmounts(dec(tc.total), dec(tc.paid))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	// Invoice of 5000.00: pay 2000.00, then 3000.00.
	inv := newDueInvoice("5000.00")

	inv.ApplyPayment(dec("2000.00"))
	assert.True(t, inv.PaidAmount.Equal(dec("2000.00")))
	assert.True(t, inv.Balance.Equal(dec("3000.00")))
	assert.Equal(t, models.InvoicePartiallyPaid, inv.Status)
	assert.True(t, inv.Consistent())

	inv.ApplyPayment(dec("3000.00"))
	assert.True(t, inv.PaidAmount.Equal(dec("5000.00")))
	assert.True(t, inv.Balance.IsZero())
	assert.Equal(t, models.InvoiceFullyPaid, inv.Status)
	assert.True(t, inv.Consistent())
}

func TestReversePayment_RestoresExactState(t *testing.T) {
	inv := newDueInvoice("5000.00")
	inv.ApplyPayment(dec("2000.00"))

	before := *inv

	inv.ApplyPayment(dec("3000.00"))
	require.Equal(t, models.InvoiceFullyPaid, inv.Status)

	inv.ReversePayment(dec("3000.00"))
	assert.True(t, inv.PaidAmount.Equal(before.PaidAmount))
	assert.True(t, inv.Balance.Equal(before.Balance))
	assert.Equal(t, before.Status, inv.Status)
	assert.True(t, inv.Consistent())
}

func TestReversePayment_ToZeroIsDue(t *testing.T) {
	inv := newDueInvoice("1500.00")
	inv.ApplyPayment(dec("1500.00"))
	inv.ReversePayment(dec("1500.00"))

	assert.True(t, inv.PaidAmount.IsZero())
	assert.True(t, inv.Balance.Equal(dec("1500.00")))
	assert.Equal(t, models.InvoiceDue, inv.Status)
}

func TestReversePayment_UsesUniformStatusRule(t *testing.T) {
	// Two payments overshooting the total, then the smaller one reversed:
	// the remaining paid amount still covers the total, so the status must
	// come back as fully paid rather than being left alone.
	inv := newDueInvoice("1000.00")
	inv.ApplyPayment(dec("1000.00"))
	inv.ApplyPayment(dec("200.00"))

	inv.ReversePayment(dec("200.00"))
	assert.Equal(t, models.InvoiceFullyPaid, inv.Status)
	assert.True(t, inv.Balance.IsZero())
}

func TestRetotal_PreservesPaidAmount(t *testing.T) {
	inv := newDueInvoice("5000.00")
	inv.ApplyPayment(dec("2000.00"))

	inv.Retotal(dec("4500.00"))
	assert.True(t, inv.PaidAmount.Equal(dec("2000.00")))
	assert.True(t, inv.Balance.Equal(dec("2500.00")))
	assert.Equal(t, models.InvoicePartiallyPaid, inv.Status)
}

func TestRetotal_BelowPaidGoesNegative(t *testing.T) {
	// Callers must detect and reject this before persisting.
	inv := newDueInvoice("5000.00")
	inv.ApplyPayment(dec("4000.00"))

	inv.Retotal(dec("3000.00"))
	assert.True(t, inv.Balance.IsNegative())
	assert.False(t, inv.Consistent())
}

func TestConsistent_DetectsDrift(t *testing.T) {
	inv := newDueInvoice("5000.00")
	require.True(t, inv.Consistent())

	inv.Balance = dec("4999.00")
	assert.False(t, inv.Consistent())

	inv = newDueInvoice("5000.00")
	inv.Status = models.InvoiceFullyPaid
	assert.False(t, inv.Consistent())
}

func TestInvoiceItem_IsCarryForward(t *testing.T) {
	feeID := "fee-1"
	assert.False(t, (&models.InvoiceItem{FeeStructureID: &feeID}).IsCarryForward())
	assert.True(t, (&models.InvoiceItem{Description: models.CarryForwardDescription}).IsCarryForward())
}

func TestPaymentMode(t *testing.T) {
	assert.True(t, models.PaymentMpesa.RequiresReference())
	assert.True(t, models.PaymentBank.RequiresReference())
	assert.False(t, models.PaymentCash.RequiresReference())
	assert.False(t, models.PaymentWaiver.RequiresReference())

	assert.True(t, models.PaymentCash.Valid())
	assert.False(t, models.PaymentMode("cheque").Valid())
}
