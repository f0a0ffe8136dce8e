package reports

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
	"jacaranda-schools/app/routes/auth"
)

func SetupReportsRoutes(app *fiber.App) {
	// Web Routes
	web := app.Group("/reports")
	web.Use(auth.AuthMiddleware)
	web.Get("/balances", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		year := c.Query("academic_year")
		if year == "" {
			year = strconv.Itoa(time.Now().Year())
		}
		balances, err := database.GetOutstandingBalancesByClass(config.GetDB(), year)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load class balances")
		}
		return c.Render("reports/balances", fiber.Map{
			"Title":        "Outstanding Balances",
			"CurrentPage":  "reports",
			"user":         user,
			"AcademicYear": year,
			"Balances":     balances,
		})
	})

	// API Routes
	api := app.Group("/api/reports")
	api.Use(auth.AuthMiddleware)
	api.Get("/class-balances", GetClassBalancesAPI)
}
