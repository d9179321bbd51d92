package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

type DiscountCodeRequest struct {
	Code       string  `json:"code" validate:"required,min=3,max=50"`
	Percentage float64 `json:"percentage" validate:"required"`
	ValidFrom  string  `json:"valid_from" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ValidTo    string  `json:"valid_to" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	MaxUses    *int    `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func CreateDiscountCode(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req DiscountCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.CheckDiscountCap(scope.Role, req.Percentage); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validFrom, _ := time.Parse(time.RFC3339, req.ValidFrom)
	validTo, _ := time.Parse(time.RFC3339, req.ValidTo)

	code := models.DiscountCode{
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		Percentage: req.Percentage,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		MaxUses:    req.MaxUses,
		IsActive:   true,
	}
	if req.IsActive != nil {
		code.IsActive = *req.IsActive
	}
	// school-created codes are always bound to the creator's school
	if scope.Role == models.RoleSchool {
		if scope.SchoolID == nil {
			return scopeErrorResponse(c, services.ErrScopeMissing)
		}
		code.SchoolID = scope.SchoolID
	}

	if err := database.DB.Create(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A discount code with this code already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create discount code"})
	}
	return c.Status(fiber.StatusCreated).JSON(code)
}

type ValidateDiscountRequest struct {
	Code    string  `json:"code" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,min=0"`
	ClassID *string `json:"class_id,omitempty" validate:"omitempty,uuid"`
}

// ValidateDiscountCode prices a code against an amount. Validation never
// consumes a use; only reservation creation does.
func ValidateDiscountCode(c *fiber.Ctx) error {
	var req ValidateDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var classID *uuid.UUID
	if req.ClassID != nil {
		parsed, err := uuid.Parse(*req.ClassID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
		}
		classID = &parsed
	}

	quote, err := services.ValidateDiscount(database.DB, req.Code, req.Amount, classID)
	if err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate discount code"})
	}
	return c.JSON(quote)
}

func ListDiscountCodes(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	query := database.DB.Model(&models.DiscountCode{})
	if scope.Role == models.RoleSchool {
		if scope.SchoolID == nil {
			return scopeErrorResponse(c, services.ErrScopeMissing)
		}
		query = query.Where("school_id = ?", *scope.SchoolID)
	}

	var codes []models.DiscountCode
	if err := query.Order("created_at desc").Find(&codes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load discount codes"})
	}
	return c.JSON(codes)
}

type UpdateDiscountCodeRequest struct {
	Percentage *float64 `json:"percentage,omitempty"`
	ValidFrom  *string  `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ValidTo    *string  `json:"valid_to,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	MaxUses    *int     `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	IsActive   *bool    `json:"is_active,omitempty"`
	SchoolID   *string  `json:"school_id,omitempty" validate:"omitempty,uuid"`
}

func UpdateDiscountCode(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var code models.DiscountCode
	query := database.DB
	if scope.Role == models.RoleSchool {
		if scope.SchoolID == nil {
			return scopeErrorResponse(c, services.ErrScopeMissing)
		}
		query = query.Where("school_id = ?", *scope.SchoolID)
	}
	if err := query.First(&code, "id = ?", c.Params("codeId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Discount code not found"})
	}

	var req UpdateDiscountCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Percentage != nil {
		code.Percentage = *req.Percentage
	}
	if req.SchoolID != nil {
		if scope.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only platform admins can rescope a discount code"})
		}
		schoolID, err := uuid.Parse(*req.SchoolID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid school id"})
		}
		code.SchoolID = &schoolID
	}
	// the cap is re-validated on every write that can change the code's
	// effective scope, not only when the percentage itself is patched
	if req.Percentage != nil || req.SchoolID != nil {
		if err := services.CheckDiscountCap(scope.Role, code.Percentage); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if req.ValidFrom != nil {
		validFrom, _ := time.Parse(time.RFC3339, *req.ValidFrom)
		code.ValidFrom = validFrom
	}
	if req.ValidTo != nil {
		validTo, _ := time.Parse(time.RFC3339, *req.ValidTo)
		code.ValidTo = validTo
	}
	if req.MaxUses != nil {
		code.MaxUses = req.MaxUses
	}
	if req.IsActive != nil {
		code.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&code).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update discount code"})
	}
	return c.JSON(code)
}
