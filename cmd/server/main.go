package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/paisawise/transaction-intelligence/internal/api"
	"github.com/paisawise/transaction-intelligence/internal/config"
	"github.com/paisawise/transaction-intelligence/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.LogLevel)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadSizeBytes),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	h := api.NewHandler(cfg, log)
	h.RegisterRoutes(app)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
