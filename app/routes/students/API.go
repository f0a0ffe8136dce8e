package students

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/database"
	"jacaranda-schools/app/models"
)

// GetStudentsAPI returns students with search and pagination
func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	search := c.Query("search")
	limit := c.QueryInt("limit", 25)
	offset := c.QueryInt("offset", 0)

	students, total, err := database.SearchStudentsWithPagination(db, search, limit, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"data":        students,
		"total_count": total,
		"has_more":    offset+len(students) < total,
		"next_offset": offset + len(students),
	})
}

// GetStudentByIDAPI returns a specific student by ID
func GetStudentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// CreateStudentAPI registers a new student
func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := database.CreateStudent(db, &student); err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
		"message": "Student registered successfully",
	})
}

// UpdateStudentAPI updates an existing student
func UpdateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	student.ID = c.Params("id")

	if err := database.UpdateStudent(db, &student); err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student updated successfully",
	})
}

// PromoteStudentsAPI moves all active students from one class to another
func PromoteStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	type promoteRequest struct {
		FromClass string `json:"from_class"`
		ToClass   string `json:"to_class"`
	}

	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	promoted, err := database.PromoteStudents(db, req.FromClass, req.ToClass)
	if err != nil {
		if database.IsValidation(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to promote students")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"promoted": promoted,
		"message":  "Students promoted successfully",
	})
}

// GetStudentStatementAPI returns a student's invoice history
func GetStudentStatementAPI(c *fiber.Ctx, db *sql.DB) error {
	statement, err := database.GetStudentStatement(db, c.Params("id"))
	if err != nil {
		if database.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch statement")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    statement,
	})
}
