package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func DiscountRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	discounts := api.Group("/discounts", middleware.Protected(), middleware.SchoolRequired())
	discounts.Get("", handlers.ListDiscountCodes)
	discounts.Post("", handlers.CreateDiscountCode)
	discounts.Put("/:codeId", handlers.UpdateDiscountCode)
}
