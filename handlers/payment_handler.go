package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

// ListPayments is the scoped payment list for dashboards.
func ListPayments(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	filter, err := services.BuildFilter(scope, services.EntityPayment)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var payments []models.Payment
	query := filter.Apply(database.DB.Model(&models.Payment{})).
		Preload("DiscountCode").
		Order("payments.created_at desc")
	if err := query.Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load payments"})
	}
	return c.JSON(payments)
}

type UpdatePaymentRequest struct {
	Status        string  `json:"status" validate:"required,oneof=UNPAID PENDING PAID REFUNDED"`
	Method        *string `json:"method,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// UpdatePayment drives the payment state machine. Plain users never reach
// this endpoint; they only touch payments through reservation creation.
func UpdatePayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}

	var req UpdatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	if scope.Role != models.RoleAdmin && scope.Role != models.RoleSchool {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this resource"})
	}
	filter, err := services.BuildFilter(scope, services.EntityPayment)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var payment models.Payment
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := filter.Apply(tx.Model(&models.Payment{})).
			First(&payment, "payments.id = ?", paymentID).Error; err != nil {
			return err
		}

		if req.Method != nil {
			payment.Method = req.Method
		}
		if req.TransactionID != nil {
			payment.TransactionID = req.TransactionID
		}

		return services.ApplyPaymentTransition(tx, &payment, req.Status)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment"})
	}

	return c.JSON(payment)
}
