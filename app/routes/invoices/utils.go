package invoices

import (
	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/database"
)

// respondError maps domain errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case database.IsValidation(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case database.IsNotFound(err):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case database.IsConsistency(err):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case database.IsConflict(err):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Something went wrong, please try again")
	}
}
