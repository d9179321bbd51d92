package routes

import (
	"github.com/gofiber/fiber/v2"
	"surfschool_backend/handlers"
	"surfschool_backend/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Get("", handlers.ListPayments)
	payments.Put("/:paymentId", handlers.UpdatePayment)
}
