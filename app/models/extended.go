package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSummary extends the base Invoice with student details for listing
// and printable statements.
type InvoiceSummary struct {
	Invoice
	StudentName     string `json:"student_name"`
	AdmissionNumber string `json:"admission_number"`
	StudentClass    string `json:"student_class"`
}

// InvoiceItemBreakdown is one line of an invoice statement: the original
// charge, how much has been paid against it to date, and what remains.
type InvoiceItemBreakdown struct {
	InvoiceItemID  string          `json:"invoice_item_id"`
	FeeStructureID *string         `json:"fee_structure_id,omitempty"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	PaidToDate     decimal.Decimal `json:"paid_to_date"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// PaymentSummary extends the base Payment with invoice and student details
// for listing and receipts.
type PaymentSummary struct {
	Payment
	InvoiceNumber   string `json:"invoice_number"`
	StudentName     string `json:"student_name"`
	AdmissionNumber string `json:"admission_number"`
}

type DashboardStats struct {
	TotalStudents    int             `json:"total_students"`
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	CollectionRate   float64         `json:"collection_rate"`
	RecentPayments   []Activity      `json:"recent_payments"`
}

type Activity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RawTime     time.Time `json:"-"`
	TimeAgo     string    `json:"time_ago"`
}
