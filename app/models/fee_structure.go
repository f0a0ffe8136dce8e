package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStructureItem is a named fee amount for a (class, education level, term,
// academic year) tuple. Template data only; invoices copy the amount at build
// time and never write back.
type FeeStructureItem struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Class          string          `json:"class" gorm:"not null;index" validate:"required"`
	EducationLevel string          `json:"education_level" gorm:"not null;index" validate:"required"`
	Term           int             `json:"term" gorm:"not null" validate:"required,min=1,max=3"`
	AcademicYear   string          `json:"academic_year" gorm:"not null;index" validate:"required"`
	FeeItem        string          `json:"fee_item" gorm:"not null" validate:"required"`
	Amount         decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}
