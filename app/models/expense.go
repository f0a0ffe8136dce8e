package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups expenses for reporting.
type Category struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name      string     `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// Expense represents a school expense
type Expense struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	CategoryID  string          `json:"category_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Title       string          `json:"title" gorm:"not null" validate:"required"`
	Amount      decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	Currency    string          `json:"currency" gorm:"not null;default:'KES';type:varchar(3)" validate:"required,len=3"`
	Date        time.Time       `json:"date" gorm:"not null;index;type:date" validate:"required"`
	PeriodStart *time.Time      `json:"period_start,omitempty" gorm:"type:date"`
	PeriodEnd   *time.Time      `json:"period_end,omitempty" gorm:"type:date"`
	Notes       string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"` // optional for JSON responses
}
