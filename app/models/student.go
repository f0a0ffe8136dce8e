package models

import "time"

// Student represents a learner enrolled at the school.
type Student struct {
	ID              string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AdmissionNumber string        `json:"admission_number" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName       string        `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string        `json:"last_name" gorm:"not null" validate:"required"`
	Gender          Gender        `json:"gender,omitempty" gorm:"type:varchar(10)"`
	Class           string        `json:"class" gorm:"not null;index" validate:"required"`
	EducationLevel  string        `json:"education_level" gorm:"not null;index" validate:"required"`
	Status          StudentStatus `json:"status" gorm:"not null;default:'active';index" validate:"required"`
	GuardianName    string        `json:"guardian_name,omitempty"`
	GuardianPhone   string        `json:"guardian_phone,omitempty" gorm:"type:varchar(20)"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Invoices []*Invoice `json:"invoices,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
