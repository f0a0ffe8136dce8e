package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/routes/auth"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/dashboard", auth.AuthMiddleware, GetDashboard)

	api := app.Group("/api/dashboard", auth.AuthMiddleware)
	api.Get("/stats", GetDashboardStatsAPI)
}
