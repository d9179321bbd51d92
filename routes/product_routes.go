package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func ProductRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	products := api.Group("/school/products", middleware.Protected(), middleware.SchoolRequired())
	products.Post("", handlers.CreateProduct)
	products.Put("/:productId", handlers.UpdateProduct)
	products.Delete("/:productId", handlers.DeleteProduct)
}
