package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"surfschool_backend/database"
	"surfschool_backend/handlers"
	"surfschool_backend/jobs"
	"surfschool_backend/notifications"
	"surfschool_backend/routes"
	"surfschool_backend/services"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()

	notifier := notifications.NewSenderFromEnv()
	reservationSvc := services.NewReservationService(database.DB, notifier)
	handlers.ReservationSvc = reservationSvc
	handlers.Notifier = notifier

	scheduler := cron.New()
	scheduler.AddFunc("0 9 * * *", func() { jobs.SendReservationReminders(notifier) })
	scheduler.AddFunc("*/15 * * * *", func() { jobs.CancelStalePendingReservations(reservationSvc) })
	scheduler.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Surf School Bookings",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the Surf School Bookings API",
		})
	})

	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.SchoolRoutes(app)
	routes.BeachRoutes(app)
	routes.ClassRoutes(app)
	routes.ReservationRoutes(app)
	routes.PaymentRoutes(app)
	routes.DiscountRoutes(app)
	routes.ProductRoutes(app)
	routes.UploadRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
