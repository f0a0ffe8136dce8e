package students

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/routes/auth"
)

// SetupStudentsRoutes sets up the students routes
func SetupStudentsRoutes(app *fiber.App) {
	students := app.Group("/students")
	students.Use(auth.AuthMiddleware)

	studentsAPI := app.Group("/api/students")
	studentsAPI.Use(auth.AuthMiddleware)

	// Web routes
	students.Get("/", func(c *fiber.Ctx) error {
		return c.Render("students/index", fiber.Map{
			"Title":       "Students - Jacaranda Schools",
			"CurrentPage": "students",
		})
	})

	students.Get("/:id/statement", func(c *fiber.Ctx) error {
		return c.Render("students/statement", fiber.Map{
			"Title":       "Fee Statement - Jacaranda Schools",
			"CurrentPage": "students",
			"StudentID":   c.Params("id"),
		})
	})

	// API routes
	studentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetStudentsAPI(c, config.GetDB())
	})

	studentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetStudentByIDAPI(c, config.GetDB())
	})

	studentsAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateStudentAPI(c, config.GetDB())
	})

	studentsAPI.Put("/:id", func(c *fiber.Ctx) error {
		return UpdateStudentAPI(c, config.GetDB())
	})

	studentsAPI.Post("/promote", func(c *fiber.Ctx) error {
		return PromoteStudentsAPI(c, config.GetDB())
	})

	studentsAPI.Get("/:id/statement", func(c *fiber.Ctx) error {
		return GetStudentStatementAPI(c, config.GetDB())
	})
}
