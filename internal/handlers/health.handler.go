package handlers

import (
	"maidhub/config"
	"maidhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports the build and, when a scheduler is given, whether it
// is running and how each scheduled job last ended.
func HealthHandler(router fiber.Router, config config.Config, scheduler *services.SchedulerService) {
	router.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"version": config.GeneralVersion,
			"service": "maidhub_api",
		}

		if scheduler != nil {
			body["scheduler"] = fiber.Map{
				"running": scheduler.IsRunning(),
				"jobs":    scheduler.GetJobCount(),
				"runs":    scheduler.LastRuns(),
			}
		}

		return c.JSON(body)
	})
}
