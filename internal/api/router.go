// Package api is the HTTP delivery layer for the dialogue pipeline.
package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(app *fiber.App, handler *ChatHandler) {
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/healthz", handler.HandleHealth)

	v1 := app.Group("/api")
	v1.Post("/chat", handler.HandleChat)
	v1.Get("/users/:id/summary", handler.HandleSummary)
	v1.Get("/products", handler.HandleProducts)
	v1.Get("/rates", handler.HandleRates)
}
