package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents one payment transaction against a single invoice. The
// amount always equals the sum of its item allocations.
type Payment struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceID       string          `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PaymentNumber   string          `json:"payment_number" gorm:"uniqueIndex;not null" validate:"required"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	PaymentMode     PaymentMode     `json:"payment_mode" gorm:"not null;type:varchar(20)" validate:"required"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Remarks         *string         `json:"remarks,omitempty" gorm:"type:text"`
	ReceivedBy      *string         `json:"received_by,omitempty" gorm:"index;type:uuid"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Invoice *Invoice       `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	Items   []*PaymentItem `json:"items,omitempty" gorm:"foreignKey:PaymentID;references:ID"`
}

// PaymentItem allocates a portion of a payment to one invoice line item. An
// invoice item may receive allocations from many payments over time.
type PaymentItem struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	PaymentID     string          `json:"payment_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	InvoiceItemID string          `json:"invoice_item_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`

	Payment     *Payment     `json:"payment,omitempty" gorm:"foreignKey:PaymentID;references:ID"`
	InvoiceItem *InvoiceItem `json:"invoice_item,omitempty" gorm:"foreignKey:InvoiceItemID;references:ID"`
}
