package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
	"surfschool_backend/utils"
)

type SchoolRequest struct {
	Name    string  `json:"name" validate:"required,min=2"`
	City    *string `json:"city,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// CreateSchool lets a school-role user without a school register one.
func CreateSchool(c *fiber.Ctx) error {
	userID, role, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if role != models.RoleSchool && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only school accounts can register a school"})
	}

	var req SchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	school := models.School{
		OwnerID: userID,
		Name:    req.Name,
		City:    req.City,
		Phone:   req.Phone,
		LogoURL: req.LogoURL,
	}
	if err := database.DB.Create(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This account already owns a school"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create school"})
	}
	return c.Status(fiber.StatusCreated).JSON(school)
}

func GetMySchool(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	if scope.SchoolID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No school is associated with this account"})
	}

	var school models.School
	if err := database.DB.Preload("Owner").First(&school, "id = ?", *scope.SchoolID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "School not found"})
	}
	return c.JSON(school)
}

func UpdateMySchool(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	if scope.SchoolID == nil {
		return scopeErrorResponse(c, services.ErrScopeMissing)
	}

	var req SchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var school models.School
	if err := database.DB.First(&school, "id = ?", *scope.SchoolID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "School not found"})
	}

	school.Name = req.Name
	school.City = req.City
	school.Phone = req.Phone
	school.LogoURL = req.LogoURL
	if err := database.DB.Save(&school).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update school"})
	}
	return c.JSON(school)
}

// ListInstructors returns instructors inside the caller's scope: all of
// them for a platform admin, the school's own for a school admin, and
// exactly themselves for an instructor.
func ListInstructors(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	filter, err := services.BuildFilter(scope, services.EntityInstructor)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var instructors []models.Instructor
	query := filter.Apply(database.DB.Model(&models.Instructor{})).
		Preload("User").
		Preload("School")
	if err := query.Find(&instructors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load instructors"})
	}
	return c.JSON(instructors)
}

type InstructorRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Bio      *string `json:"bio,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// CreateInstructor provisions an instructor account under the caller's
// school. The temporary password goes out by email only.
func CreateInstructor(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	if scope.SchoolID == nil {
		return scopeErrorResponse(c, services.ErrScopeMissing)
	}

	var req InstructorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tempPassword := utils.GenerateRandomPassword(12)
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var instructor models.Instructor
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			FullName: req.FullName,
			Email:    normalizeEmail(req.Email),
			Password: string(hashed),
			Role:     models.RoleInstructor,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		instructor = models.Instructor{
			UserID:   user.ID,
			SchoolID: *scope.SchoolID,
			Bio:      req.Bio,
			PhotoURL: req.PhotoURL,
			IsActive: true,
		}
		return tx.Create(&instructor).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create instructor"})
	}

	go Notifier.SendWelcomeEmail(req.FullName, req.Email, tempPassword)

	database.DB.Preload("User").First(&instructor, "user_id = ?", instructor.UserID)
	return c.Status(fiber.StatusCreated).JSON(instructor)
}

// GetMyInstructorProfile returns the caller's own instructor profile.
func GetMyInstructorProfile(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	if scope.InstructorID == nil {
		return scopeErrorResponse(c, services.ErrInstructorNotFound)
	}

	var instructor models.Instructor
	if err := database.DB.Preload("User").Preload("School").
		First(&instructor, "user_id = ?", *scope.InstructorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instructor profile not found"})
	}
	return c.JSON(instructor)
}

// ListStudents returns students visible to the caller: for school admins
// and instructors, only students holding a reservation in the school.
func ListStudents(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	filter, err := services.BuildFilter(scope, services.EntityStudent)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	query := filter.Apply(database.DB.Model(&models.User{}))
	if scope.Role == models.RoleAdmin {
		query = query.Where("users.role = ?", models.RoleStudent)
	} else {
		query = query.Distinct("users.*")
	}

	var students []models.User
	if err := query.Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load students"})
	}
	return c.JSON(students)
}
