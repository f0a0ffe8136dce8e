package fees

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
)

var validate = validator.New()

type feeStructureRequest struct {
	Class          string  `json:"class" validate:"required"`
	EducationLevel string  `json:"education_level" validate:"required"`
	Term           int     `json:"term" validate:"required,min=1,max=3"`
	AcademicYear   string  `json:"academic_year" validate:"required"`
	FeeItem        string  `json:"fee_item" validate:"required"`
	Amount         float64 `json:"amount" validate:"gt=0"`
}

// GetFeeStructureAPI lists fee structure items with optional filtering
func GetFeeStructureAPI(c *fiber.Ctx, db *sql.DB) error {
	filter := database.FeeStructureFilter{
		Class:          c.Query("class"),
		EducationLevel: c.Query("education_level"),
		Term:           c.QueryInt("term", 0),
		AcademicYear:   c.Query("academic_year"),
	}

	items, err := database.GetFeeStructure(db, filter)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee structure")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// GetFeeStructureItemAPI returns a specific fee structure item by ID
func GetFeeStructureItemAPI(c *fiber.Ctx, db *sql.DB) error {
	item, err := database.GetFeeStructureItemByID(db, c.Params("id"))
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "Fee structure item not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee structure item")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    item,
	})
}

// CreateFeeStructureItemAPI adds one fee template row
func CreateFeeStructureItemAPI(c *fiber.Ctx, db *sql.DB) error {
	var req feeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	item := &models.FeeStructureItem{
		Class:          req.Class,
		EducationLevel: req.EducationLevel,
		Term:           req.Term,
		AcademicYear:   req.AcademicYear,
		FeeItem:        req.FeeItem,
		Amount:         decimal.NewFromFloat(req.Amount),
	}

	if err := database.CreateFeeStructureItem(db, item); err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create fee structure item")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    item,
		"message": "Fee structure item created successfully",
	})
}

// UpdateFeeStructureItemAPI edits a fee template row
func UpdateFeeStructureItemAPI(c *fiber.Ctx, db *sql.DB) error {
	var req feeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	item := &models.FeeStructureItem{
		ID:             c.Params("id"),
		Class:          req.Class,
		EducationLevel: req.EducationLevel,
		Term:           req.Term,
		AcademicYear:   req.AcademicYear,
		FeeItem:        req.FeeItem,
		Amount:         decimal.NewFromFloat(req.Amount),
	}

	if err := database.UpdateFeeStructureItem(db, item); err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "Fee structure item not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update fee structure item")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Fee structure item updated successfully",
	})
}

// DeleteFeeStructureItemAPI removes a fee template row
func DeleteFeeStructureItemAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeleteFeeStructureItem(db, c.Params("id")); err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "Fee structure item not found")
		}
		if database.IsConsistency(err) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete fee structure item")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Fee structure item deleted successfully",
	})
}
