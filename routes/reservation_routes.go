package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func ReservationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// guest checkout works without a token, so this one is OptionalAuth
	api.Post("/reservations", middleware.OptionalAuth(), handlers.CreateReservation)

	reservations := api.Group("/reservations", middleware.Protected())
	reservations.Get("/me", handlers.GetMyReservations)
	reservations.Put("/:reservationId", handlers.UpdateReservation)
	reservations.Delete("/:reservationId", middleware.AdminRequired(), handlers.DeleteReservation)

	school := api.Group("/school/reservations", middleware.Protected())
	school.Get("", handlers.ListReservations)
}
