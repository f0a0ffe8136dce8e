package expenses

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/routes/auth"
)

func SetupExpensesRoutes(app *fiber.App) {
	// Web Routes
	web := app.Group("/expenses")
	web.Use(auth.AuthMiddleware)
	web.Get("/", ExpensesPageHandler)

	// API Routes
	api := app.Group("/api/expenses")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetExpensesAPI)
	api.Post("/", CreateExpenseAPI)
	api.Put("/:id", UpdateExpenseAPI)
	api.Delete("/:id", DeleteExpenseAPI)

	// Category API
	catAPI := app.Group("/api/expense-categories")
	catAPI.Use(auth.AuthMiddleware)
	catAPI.Get("/", GetCategoriesAPI)
	catAPI.Post("/", CreateCategoryAPI)
	catAPI.Put("/:id", UpdateCategoryAPI)
	catAPI.Delete("/:id", DeleteCategoryAPI)
}
