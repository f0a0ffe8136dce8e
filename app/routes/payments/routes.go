package payments

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
	"jacaranda-schools/app/routes/auth"
)

// SetupPaymentsRoutes sets up the payments routes
func SetupPaymentsRoutes(app *fiber.App) {
	payments := app.Group("/payments")
	payments.Use(auth.AuthMiddleware)

	paymentsAPI := app.Group("/api/payments")
	paymentsAPI.Use(auth.AuthMiddleware)

	// Web routes
	payments.Get("/", func(c *fiber.Ctx) error {
		return c.Render("payments/index", fiber.Map{
			"Title":       "Payments - Jacaranda Schools",
			"CurrentPage": "payments",
		})
	})

	payments.Get("/:id/receipt", func(c *fiber.Ctx) error {
		receipt, err := database.GetPaymentReceipt(config.GetDB(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return c.Render("payments/receipt", fiber.Map{
			"Title":   "Receipt " + receipt.Payment.PaymentNumber,
			"Receipt": receipt,
		}, "")
	})

	// API routes
	paymentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetPaymentsAPI(c, config.GetDB())
	})

	paymentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetPaymentByIDAPI(c, config.GetDB())
	})

	paymentsAPI.Post("/", func(c *fiber.Ctx) error {
		return RecordPaymentAPI(c, config.GetDB())
	})

	paymentsAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeletePaymentAPI(c, config.GetDB())
	})
}
