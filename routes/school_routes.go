package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func SchoolRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	school := api.Group("/school", middleware.Protected())
	school.Post("", handlers.CreateSchool)
	school.Get("/me", handlers.GetMySchool)
	school.Put("/me", handlers.UpdateMySchool)

	school.Get("/instructors", handlers.ListInstructors)
	school.Post("/instructors", middleware.SchoolRequired(), handlers.CreateInstructor)
	school.Get("/students", handlers.ListStudents)

	instructor := api.Group("/instructor", middleware.Protected(), middleware.InstructorRequired())
	instructor.Get("/me", handlers.GetMyInstructorProfile)
}
