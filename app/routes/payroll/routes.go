package payroll

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
	"jacaranda-schools/app/routes/auth"
)

func SetupPayrollRoutes(app *fiber.App) {
	// Web Routes
	web := app.Group("/payroll")
	web.Use(auth.AuthMiddleware)
	web.Get("/", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		staff, err := database.GetAllUsers(config.GetDB())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load staff")
		}
		periodStart, periodEnd := currentMonthRange(time.Now())
		return c.Render("payroll/index", fiber.Map{
			"Title":       "Payroll",
			"CurrentPage": "payroll",
			"user":        user,
			"Staff":       staff,
			"PeriodStart": periodStart.Format("2006-01-02"),
			"PeriodEnd":   periodEnd.Format("2006-01-02"),
		})
	})

	// API Routes
	api := app.Group("/api/payroll")
	api.Use(auth.AuthMiddleware)
	api.Get("/staff/:id/salary", GetStaffSalaryAPI)
	api.Put("/staff/:id/salary", SetStaffSalaryAPI)
	api.Get("/staff/:id/payments", GetStaffPaymentsAPI)
	api.Post("/staff/:id/payments", CreateStaffPaymentAPI)
}
