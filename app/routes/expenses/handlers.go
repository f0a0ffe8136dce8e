package expenses

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/models"
)

var validate = validator.New()

type expenseRequest struct {
	CategoryID  string             `json:"category_id" validate:"required,uuid"`
	Title       string             `json:"title" validate:"required"`
	Amount      float64            `json:"amount" validate:"gt=0"`
	Currency    string             `json:"currency" validate:"omitempty,len=3"`
	Date        models.CustomDate  `json:"date" validate:"required"`
	PeriodStart *models.CustomDate `json:"period_start"`
	PeriodEnd   *models.CustomDate `json:"period_end"`
	Notes       string             `json:"notes"`
}

func (r *expenseRequest) toModel() *models.Expense {
	e := &models.Expense{
		CategoryID: r.CategoryID,
		Title:      r.Title,
		Amount:     decimal.NewFromFloat(r.Amount),
		Currency:   r.Currency,
		Date:       r.Date.Time,
		Notes:      r.Notes,
	}
	if r.PeriodStart != nil {
		t := r.PeriodStart.Time
		e.PeriodStart = &t
	}
	if r.PeriodEnd != nil {
		t := r.PeriodEnd.Time
		e.PeriodEnd = &t
	}
	return e
}

func ExpensesPageHandler(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.Render("expenses/index", fiber.Map{
		"Title":       "Expenses Management",
		"CurrentPage": "expenses",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"user":        user,
	})
}

func GetExpensesAPI(c *fiber.Ctx) error {
	expenses, err := GetAllExpenses(config.GetDB())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load expenses")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    expenses,
	})
}

func GetCategoriesAPI(c *fiber.Ctx) error {
	categories, err := GetAllCategories(config.GetDB())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load categories")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

func CreateExpenseAPI(c *fiber.Ctx) error {
	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	e := req.toModel()
	if err := CreateExpense(config.GetDB(), e); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create expense")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    e,
	})
}

func UpdateExpenseAPI(c *fiber.Ctx) error {
	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	e := req.toModel()
	e.ID = c.Params("id")
	if err := UpdateExpense(config.GetDB(), e); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update expense")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    e,
	})
}

func DeleteExpenseAPI(c *fiber.Ctx) error {
	if err := DeleteExpense(config.GetDB(), c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete expense")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func CreateCategoryAPI(c *fiber.Ctx) error {
	var cat models.Category
	if err := c.BodyParser(&cat); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if cat.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Category name is required")
	}

	if err := CreateCategory(config.GetDB(), &cat); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    cat,
	})
}

func UpdateCategoryAPI(c *fiber.Ctx) error {
	var cat models.Category
	if err := c.BodyParser(&cat); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	cat.ID = c.Params("id")
	if err := UpdateCategory(config.GetDB(), &cat); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update category")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cat,
	})
}

func DeleteCategoryAPI(c *fiber.Ctx) error {
	if err := DeleteCategory(config.GetDB(), c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete category")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
