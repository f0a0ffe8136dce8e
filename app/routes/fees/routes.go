package fees

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
	"jacaranda-schools/app/routes/auth"
)

func SetupFeesRoutes(app *fiber.App) {
	web := app.Group("/fees", auth.AuthMiddleware)

	web.Get("/", func(c *fiber.Ctx) error {
		items, err := database.GetFeeStructure(config.GetDB(), database.FeeStructureFilter{
			Class:          c.Query("class"),
			EducationLevel: c.Query("education_level"),
			Term:           c.QueryInt("term", 0),
			AcademicYear:   c.Query("academic_year"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load fee structure")
		}
		return c.Render("fees/index", fiber.Map{
			"Title": "Fee Structure",
			"Items": items,
		})
	})

	api := app.Group("/api/fees", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return GetFeeStructureAPI(c, config.GetDB())
	})
	api.Get("/:id", func(c *fiber.Ctx) error {
		return GetFeeStructureItemAPI(c, config.GetDB())
	})
	api.Post("/", func(c *fiber.Ctx) error {
		return CreateFeeStructureItemAPI(c, config.GetDB())
	})
	api.Put("/:id", func(c *fiber.Ctx) error {
		return UpdateFeeStructureItemAPI(c, config.GetDB())
	})
	api.Delete("/:id", func(c *fiber.Ctx) error {
		return DeleteFeeStructureItemAPI(c, config.GetDB())
	})
}
