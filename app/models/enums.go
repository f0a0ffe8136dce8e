package models

// StudentStatus defines the lifecycle status of a student record.
type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
)

// Valid reports whether the status is one of the accepted values.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated, StudentTransferred:
		return true
	}
	return false
}

// InvoiceStatus defines the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceDue           InvoiceStatus = "due"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceFullyPaid     InvoiceStatus = "fully_paid"
)

// PaymentMode defines how a payment was made.
type PaymentMode string

const (
	PaymentCash   PaymentMode = "cash"
	PaymentMpesa  PaymentMode = "mpesa"
	PaymentBank   PaymentMode = "bank"
	PaymentWaiver PaymentMode = "waiver"
)

// RequiresReference reports whether the mode needs a transaction reference.
func (m PaymentMode) RequiresReference() bool {
	return m == PaymentMpesa || m == PaymentBank
}

// Valid reports whether the mode is one of the accepted values.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentBank, PaymentWaiver:
		return true
	}
	return false
}

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// SalaryPeriod defines the period for a staff member's salary.
type SalaryPeriod string

const (
	SalaryDay   SalaryPeriod = "day"
	SalaryWeek  SalaryPeriod = "week"
	SalaryMonth SalaryPeriod = "month"
)
