package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func ClassRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	classes := api.Group("/school/classes", middleware.Protected(), middleware.SchoolRequired())
	classes.Post("", handlers.CreateClass)
	classes.Put("/:classId", handlers.UpdateClass)
	classes.Delete("/:classId", handlers.DeleteClass)

	classes.Post("/:classId/schedules", handlers.CreateSchedule)
	classes.Put("/:classId/schedules/:scheduleId", handlers.UpdateSchedule)
	classes.Delete("/:classId/schedules/:scheduleId", handlers.DeleteSchedule)

	classes.Post("/:classId/sessions", handlers.UpsertSession)
	classes.Delete("/:classId/sessions/:sessionId", handlers.DeleteSession)
}
