package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"required,min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ListProducts is public for a given school so the booking flow can offer
// rentals and extras alongside a class.
func ListProducts(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if school := c.Query("school_id"); school != "" {
		query = query.Where("school_id = ?", school)
	}

	var products []models.Product
	if err := query.Order("name asc").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load products"})
	}
	return c.JSON(products)
}

func resolveProductSchool(c *fiber.Ctx, scope services.ScopeContext) (uuid.UUID, error) {
	if scope.Role == models.RoleSchool {
		if scope.SchoolID == nil {
			return uuid.Nil, services.ErrScopeMissing
		}
		return *scope.SchoolID, nil
	}
	// platform admins name the school explicitly
	schoolID, err := uuid.Parse(c.Query("school_id"))
	if err != nil {
		return uuid.Nil, services.ErrScopeMissing
	}
	return schoolID, nil
}

func CreateProduct(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	schoolID, err := resolveProductSchool(c, scope)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product := models.Product{
		SchoolID:    schoolID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func UpdateProduct(c *fiber.Ctx) error {
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

	var product models.Product
	if err := query.First(&product, "id = ?", c.Params("productId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(product)
}

func DeleteProduct(c *fiber.Ctx) error {
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

	result := query.Where("id = ?", c.Params("productId")).Delete(&models.Product{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
