package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StaffSalary represents the compensation configuration for a staff member.
type StaffSalary struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID        string          `json:"user_id" gorm:"not null;type:uuid;index" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	Period        SalaryPeriod    `json:"period" gorm:"not null;type:varchar(20)" validate:"required"`
	EffectiveDate time.Time       `json:"effective_date" gorm:"not null;type:date;default:CURRENT_DATE"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// StaffPayment represents a salary disbursement to a staff member. Creating
// one also creates a matching expense row so payroll shows up in expense
// reports.
type StaffPayment struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID      string          `json:"user_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	PeriodStart time.Time       `json:"period_start" gorm:"not null;type:date" validate:"required"`
	PeriodEnd   time.Time       `json:"period_end" gorm:"not null;type:date" validate:"required"`
	PaidAt      time.Time       `json:"paid_at" gorm:"autoCreateTime"`
	Reference   string          `json:"reference" gorm:"type:varchar(100)"` // Cheque number, transaction ID, etc.
	Notes       string          `json:"notes" gorm:"type:text"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
