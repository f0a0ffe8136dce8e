package reports

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"jacaranda-schools/app/config"
	"jacaranda-schools/app/database"
)

// GetClassBalancesAPI returns outstanding fee balances grouped by class.
func GetClassBalancesAPI(c *fiber.Ctx) error {
	year := c.Query("academic_year")
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}

	balances, err := database.GetOutstandingBalancesByClass(config.GetDB(), year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class balances")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"academic_year": year,
		"data":          balances,
	})
}
