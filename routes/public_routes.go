package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/classes", handlers.ListClasses)
	api.Get("/classes/:classId/calendar", handlers.GetClassCalendar)
	api.Get("/products", handlers.ListProducts)
	api.Post("/discounts/validate", handlers.ValidateDiscountCode)
}
