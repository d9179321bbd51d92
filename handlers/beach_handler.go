package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

type BeachRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Locality *string `json:"locality,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// ListBeaches is public so the booking flow can show where a class meets.
func ListBeaches(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Beach{})
	if school := c.Query("school_id"); school != "" {
		query = query.Where("school_id = ?", school)
	}

	var beaches []models.Beach
	if err := query.Order("name asc").Find(&beaches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load beaches"})
	}
	return c.JSON(beaches)
}

func CreateBeach(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	schoolID, err := resolveProductSchool(c, scope)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req BeachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	beach := models.Beach{
		SchoolID: schoolID,
		Name:     req.Name,
		Locality: req.Locality,
		ImageURL: req.ImageURL,
	}
	if err := database.DB.Create(&beach).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create beach"})
	}
	return c.Status(fiber.StatusCreated).JSON(beach)
}

func UpdateBeach(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	query := database.DB
	if scope.Role == models.RoleSchool {
		if scope.SchoolID == nil {
			return scopeErrorResponse(c, services.ErrScopeMissing)
		}
		query = query.Where("school_id = ?", *scope.SchoolID)
	}

	var beach models.Beach
	if err := query.First(&beach, "id = ?", c.Params("beachId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Beach not found"})
	}

	var req BeachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	beach.Name = req.Name
	beach.Locality = req.Locality
	beach.ImageURL = req.ImageURL
	if err := database.DB.Save(&beach).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update beach"})
	}
	return c.JSON(beach)
}

func DeleteBeach(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	query := database.DB
	if scope.Role == models.RoleSchool {
		if scope.SchoolID == nil {
			return scopeErrorResponse(c, services.ErrScopeMissing)
		}
		query = query.Where("school_id = ?", *scope.SchoolID)
	}

	beachID, err := uuid.Parse(c.Params("beachId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid beach id"})
	}

	// classes keep their beach reference meaningful
	var inUse int64
	database.DB.Model(&models.Class{}).Where("beach_id = ?", beachID).Count(&inUse)
	if inUse > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Beach is still assigned to classes"})
	}

	result := query.Where("id = ?", beachID).Delete(&models.Beach{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete beach"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Beach not found"})
	}
	return c.JSON(fiber.Map{"message": "Beach deleted"})
}
