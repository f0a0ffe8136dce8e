package payments

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
)

var validate = validator.New()

type allocationRequest struct {
	InvoiceItemID string  `json:"invoice_item_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"gte=0"`
}

type recordPaymentRequest struct {
	InvoiceID       string              `json:"invoice_id" validate:"required,uuid"`
	PaymentMode     string              `json:"payment_mode" validate:"required,oneof=cash mpesa bank waiver"`
	ReferenceNumber string              `json:"reference_number"`
	Remarks         string              `json:"remarks"`
	Allocations     []allocationRequest `json:"allocations" validate:"required,min=1,dive"`
}

// RecordPaymentAPI records a payment against an invoice, allocated across its
// line items. The logged-in user is captured as the receiver for audit.
func RecordPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req recordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	allocations := make([]database.AllocationInput, len(req.Allocations))
	for i, alloc := range req.Allocations {
		allocations[i] = database.AllocationInput{
			InvoiceItemID: alloc.InvoiceItemID,
			Amount:        decimal.NewFromFloat(alloc.Amount),
		}
	}

	receivedBy := ""
	if userID, ok := c.Locals("user_id").(string); ok {
		receivedBy = userID
	}

	paymentID, err := database.RecordPayment(db, &database.RecordPaymentRequest{
		InvoiceID:       req.InvoiceID,
		PaymentMode:     models.PaymentMode(req.PaymentMode),
		ReferenceNumber: req.ReferenceNumber,
		Remarks:         req.Remarks,
		ReceivedBy:      receivedBy,
		Allocations:     allocations,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": paymentID},
		"message": "Payment recorded successfully",
	})
}

// DeletePaymentAPI reverses a payment and restores the invoice aggregates.
func DeletePaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeletePayment(db, c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment deleted successfully",
	})
}

// GetPaymentsAPI lists payments newest first.
func GetPaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	limit := c.QueryInt("limit", 25)
	offset := c.QueryInt("offset", 0)

	payments, err := database.GetAllPayments(db, limit, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}

// GetPaymentByIDAPI returns one payment with receipt details.
func GetPaymentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	receipt, err := database.GetPaymentReceipt(db, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    receipt,
	})
}
