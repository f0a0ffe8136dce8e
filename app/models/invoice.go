package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing record for one student for one term/year. TotalAmount
// is fixed at build time; PaidAmount, Balance and Status are derived state and
// must only be changed through the payment recording/reversal and invoice edit
// paths, which all go through the methods below.
type Invoice struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID     string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	InvoiceNumber string          `json:"invoice_number" gorm:"uniqueIndex;not null" validate:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"not null;type:numeric(12,2)"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"not null;type:numeric(12,2)"`
	Balance       decimal.Decimal `json:"balance" gorm:"not null;type:numeric(12,2)"`
	Status        InvoiceStatus   `json:"status" gorm:"not null;default:'due';index" validate:"required"`
	Term          int             `json:"term" gorm:"not null" validate:"required,min=1,max=3"`
	AcademicYear  string          `json:"academic_year" gorm:"not null;index" validate:"required"`
	DueDate       time.Time       `json:"due_date" gorm:"not null;type:date" validate:"required"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	Student  *Student       `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Items    []*InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	Payments []*Payment     `json:"payments,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
}

// InvoiceItem is one charge line of an invoice: either a copy of a fee
// structure amount, or a carried-forward prior-term balance when
// FeeStructureID is nil.
type InvoiceItem struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceID      string          `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeStructureID *string         `json:"fee_structure_id,omitempty" gorm:"index;type:uuid"`
	Description    string          `json:"description" gorm:"not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Invoice      *Invoice          `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	FeeStructure *FeeStructureItem `json:"fee_structure,omitempty" gorm:"foreignKey:FeeStructureID;references:ID"`
}

// CarryForwardDescription labels the pseudo line item holding a prior-term
// unpaid balance on a newly built invoice.
const CarryForwardDescription = "Balance carried forward"

// IsCarryForward reports whether the line is a carried-forward balance rather
// than a fee structure charge.
func (it *InvoiceItem) IsCarryForward() bool {
	return it.FeeStructureID == nil
}

// StatusForAmounts returns the invoice status implied by the paid amount
// against the total. This is the single status rule; both the payment
// recording and the payment reversal paths derive status through it.
func StatusForAmounts(total, paid decimal.Decimal) InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total) && paid.IsPositive():
		return InvoiceFullyPaid
	case paid.IsPositive():
		return InvoicePartiallyPaid
	default:
		return InvoiceDue
	}
}

// ApplyPayment increases the paid amount by amount and rederives balance and
// status. It does not check allocation limits; that is the caller's job.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) {
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.Balance = inv.TotalAmount.Sub(inv.PaidAmount)
	inv.Status = StatusForAmounts(inv.TotalAmount, inv.PaidAmount)
}

// ReversePayment decreases the paid amount by amount and rederives balance
// and status with the same rule as ApplyPayment.
func (inv *Invoice) ReversePayment(amount decimal.Decimal) {
	inv.PaidAmount = inv.PaidAmount.Sub(amount)
	inv.Balance = inv.TotalAmount.Sub(inv.PaidAmount)
	inv.Status = StatusForAmounts(inv.TotalAmount, inv.PaidAmount)
}

// Retotal replaces the invoice total after an item edit, preserving payment
// history. The returned balance can be negative when the invoice was already
// paid beyond the new total; callers must reject that case before persisting.
func (inv *Invoice) Retotal(total decimal.Decimal) {
	inv.TotalAmount = total
	inv.Balance = inv.TotalAmount.Sub(inv.PaidAmount)
	inv.Status = StatusForAmounts(inv.TotalAmount, inv.PaidAmount)
}

// Consistent reports whether the at-rest invariant holds: total = paid +
// balance, balance not negative, and status matching the amounts.
func (inv *Invoice) Consistent() bool {
	if !inv.TotalAmount.Equal(inv.PaidAmount.Add(inv.Balance)) {
		return false
	}
	if inv.Balance.IsNegative() {
		return false
	}
	return inv.Status == StatusForAmounts(inv.TotalAmount, inv.PaidAmount)
}
