package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func BeachRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/beaches", handlers.ListBeaches)

	beaches := api.Group("/school/beaches", middleware.Protected(), middleware.SchoolRequired())
	beaches.Post("", handlers.CreateBeach)
	beaches.Put("/:beachId", handlers.UpdateBeach)
	beaches.Delete("/:beachId", handlers.DeleteBeach)
}
