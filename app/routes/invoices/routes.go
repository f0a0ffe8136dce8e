package invoices

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
	"jacaranda-schools/app/routes/auth"
)

// SetupInvoicesRoutes sets up the invoices routes
func SetupInvoicesRoutes(app *fiber.App) {
	invoices := app.Group("/invoices")
	invoices.Use(auth.AuthMiddleware)

	invoicesAPI := app.Group("/api/invoices")
	invoicesAPI.Use(auth.AuthMiddleware)

	// Web routes
	invoices.Get("/", func(c *fiber.Ctx) error {
		return c.Render("invoices/index", fiber.Map{
			"Title":       "Invoices - Jacaranda Schools",
			"CurrentPage": "invoices",
		})
	})

	invoices.Get("/new", func(c *fiber.Ctx) error {
		return c.Render("invoices/new", fiber.Map{
			"Title":       "New Invoice - Jacaranda Schools",
			"CurrentPage": "invoices",
		})
	})

	invoices.Get("/:id/print", func(c *fiber.Ctx) error {
		invoice, err := database.GetInvoiceByID(config.GetDB(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		breakdown, err := database.GetInvoiceBreakdown(config.GetDB(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoice")
		}
		return c.Render("invoices/print", fiber.Map{
			"Title":     "Invoice " + invoice.InvoiceNumber,
			"Invoice":   invoice,
			"Breakdown": breakdown,
		}, "")
	})

	// API routes
	invoicesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetInvoicesAPI(c, config.GetDB())
	})

	invoicesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetInvoiceByIDAPI(c, config.GetDB())
	})

	invoicesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateInvoiceAPI(c, config.GetDB())
	})

	invoicesAPI.Put("/:id", func(c *fiber.Ctx) error {
		return EditInvoiceAPI(c, config.GetDB())
	})
}
