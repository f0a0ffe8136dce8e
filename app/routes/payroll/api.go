package payroll

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
)

var validate = validator.New()

type salaryRequest struct {
	Amount        float64           `json:"amount" validate:"gt=0"`
	Period        string            `json:"period" validate:"omitempty,oneof=day week month"`
	EffectiveDate models.CustomDate `json:"effective_date"`
}

type disbursementRequest struct {
	Amount      float64           `json:"amount" validate:"gt=0"`
	PeriodStart models.CustomDate `json:"period_start" validate:"required"`
	PeriodEnd   models.CustomDate `json:"period_end" validate:"required"`
	Reference   string            `json:"reference"`
	Notes       string            `json:"notes"`
}

// GetStaffSalaryAPI returns the current salary configuration for a staff member.
func GetStaffSalaryAPI(c *fiber.Ctx) error {
	staffID := c.Params("id")

	salary, err := database.GetStaffSalary(config.GetDB(), staffID)
	if err != nil {
		if database.IsNotFound(err) {
			// No salary configured yet is not an error for the UI
			return c.JSON(fiber.Map{
				"success": true,
				"data":    nil,
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch salary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    salary,
	})
}

// SetStaffSalaryAPI records a new salary configuration, retiring the previous one.
func SetStaffSalaryAPI(c *fiber.Ctx) error {
	staffID := c.Params("id")

	var req salaryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if _, err := database.GetUserByID(config.GetDB(), staffID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Staff member not found")
	}

	salary := &models.StaffSalary{
		UserID:        staffID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Period:        models.SalaryPeriod(req.Period),
		EffectiveDate: req.EffectiveDate.Time,
	}

	if err := database.SetStaffSalary(config.GetDB(), salary); err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to set salary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    salary,
		"message": "Salary set successfully",
	})
}

// CreateStaffPaymentAPI disburses a salary payment and books the matching expense.
func CreateStaffPaymentAPI(c *fiber.Ctx) error {
	staffID := c.Params("id")

	var req disbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.PeriodEnd.Before(req.PeriodStart.Time) {
		return fiber.NewError(fiber.StatusBadRequest, "Period end must not be before period start")
	}

	db := config.GetDB()

	staff, err := database.GetUserByID(db, staffID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Staff member not found")
	}

	exists, err := database.StaffPaymentExists(db, staffID, req.PeriodStart.Time, req.PeriodEnd.Time)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing payments")
	}
	if exists {
		return fiber.NewError(fiber.StatusConflict, "A payment for this period already exists")
	}

	payment := &models.StaffPayment{
		UserID:      staffID,
		Amount:      decimal.NewFromFloat(req.Amount),
		PeriodStart: req.PeriodStart.Time,
		PeriodEnd:   req.PeriodEnd.Time,
		Reference:   req.Reference,
		Notes:       req.Notes,
	}

	staffName := staff.FirstName + " " + staff.LastName
	if err := database.CreateStaffPayment(db, payment, staffName); err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record salary payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    payment,
		"message": "Salary payment recorded successfully",
	})
}

// GetStaffPaymentsAPI lists all disbursements for one staff member.
func GetStaffPaymentsAPI(c *fiber.Ctx) error {
	payments, err := database.GetStaffPayments(config.GetDB(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch salary payments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}

// currentMonthRange is used by the payroll page to show the period being paid.
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
