package invoices

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
)

var validate = validator.New()

type invoiceItemRequest struct {
	FeeStructureID string  `json:"fee_structure_id" validate:"required,uuid"`
	Amount         float64 `json:"amount" validate:"gt=0"`
}

type createInvoiceRequest struct {
	StudentID    string               `json:"student_id" validate:"required,uuid"`
	Term         int                  `json:"term" validate:"required,min=1,max=3"`
	AcademicYear string               `json:"academic_year" validate:"required"`
	DueDate      models.CustomDate    `json:"due_date"`
	Items        []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

func toItemInputs(items []invoiceItemRequest) []database.InvoiceItemInput {
	inputs := make([]database.InvoiceItemInput, len(items))
	for i, item := range items {
		inputs[i] = database.InvoiceItemInput{
			FeeStructureID: item.FeeStructureID,
			Amount:         decimal.NewFromFloat(item.Amount),
		}
	}
	return inputs
}

// CreateInvoiceAPI builds a new invoice from selected fee structure items.
func CreateInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	var req createInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	invoiceID, err := database.CreateInvoice(db, &database.CreateInvoiceRequest{
		StudentID:    req.StudentID,
		Term:         req.Term,
		AcademicYear: req.AcademicYear,
		DueDate:      req.DueDate.Time,
		Items:        toItemInputs(req.Items),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": invoiceID},
		"message": "Invoice created successfully",
	})
}

// EditInvoiceAPI replaces the line items of an invoice and recomputes its
// total; payment history is preserved.
func EditInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	invoiceID := c.Params("id")

	type editInvoiceRequest struct {
		Items []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	}
	var req editInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := database.EditInvoice(db, invoiceID, toItemInputs(req.Items)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice updated successfully",
	})
}

// GetInvoicesAPI lists invoices with optional filters.
func GetInvoicesAPI(c *fiber.Ctx, db *sql.DB) error {
	filter := database.InvoiceFilter{
		StudentID:    c.Query("student_id"),
		AcademicYear: c.Query("academic_year"),
		Term:         c.QueryInt("term", 0),
		Status:       c.Query("status"),
	}
	limit := c.QueryInt("limit", 25)
	offset := c.QueryInt("offset", 0)

	invoices, err := database.GetAllInvoices(db, filter, limit, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch invoices")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    invoices,
	})
}

// GetInvoiceByIDAPI returns one invoice with its line-item breakdown.
func GetInvoiceByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	invoiceID := c.Params("id")

	invoice, err := database.GetInvoiceByID(db, invoiceID)
	if err != nil {
		return respondError(c, err)
	}

	breakdown, err := database.GetInvoiceBreakdown(db, invoiceID)
	if err != nil {
		return respondError(c, err)
	}

	payments, err := database.GetPaymentsByInvoice(db, invoiceID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"invoice":   invoice,
			"breakdown": breakdown,
			"payments":  payments,
		},
	})
}
