package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

type ClassSummary struct {
	models.Class
	NextSession *services.VirtualSlot `json:"next_session,omitempty"`
}

// ListClasses is the public browsing endpoint: no authentication, free
// filtering by level, school, locality, price range, free text and date.
func ListClasses(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Class{}).
		Preload("School").
		Preload("Beach").
		Joins("JOIN schools ON schools.id = classes.school_id").
		Where("schools.is_active = ?", true)

	if level := c.Query("level"); level != "" {
		query = query.Where("classes.level = ?", level)
	}
	if school := c.Query("school_id"); school != "" {
		query = query.Where("classes.school_id = ?", school)
	}
	if locality := c.Query("locality"); locality != "" {
		query = query.Where("schools.city ILIKE ?", "%"+locality+"%")
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		query = query.Where("classes.price >= ?", minPrice)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("classes.price <= ?", maxPrice)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("classes.title ILIKE ? OR classes.description ILIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var classes []models.Class
	if err := query.Order("classes.title asc").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load classes"})
	}

	onDate, hasDate := parseDateFilter(c.Query("date"))

	summaries := make([]ClassSummary, 0, len(classes))
	for _, class := range classes {
		summary := ClassSummary{Class: class}
		if hasDate {
			slots, err := services.GenerateCalendar(class.ID, onDate, onDate)
			if err != nil || len(slots) == 0 {
				continue
			}
			summary.NextSession = &slots[0]
		} else if next, err := services.NextSlot(class.ID); err == nil {
			summary.NextSession = next
		}
		summaries = append(summaries, summary)
	}

	return c.JSON(summaries)
}

func parseDateFilter(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// GetClassCalendar materializes the bookable slots of one class for a
// date window, defaulting to 60 days forward from now.
func GetClassCalendar(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}

	now := time.Now()
	start := now
	end := now.AddDate(0, 0, services.DefaultCalendarDays)
	if raw := c.Query("start"); raw != "" {
		if parsed, ok := parseDateFilter(raw); ok {
			start = parsed
			end = parsed.AddDate(0, 0, services.DefaultCalendarDays)
		}
	}
	if raw := c.Query("end"); raw != "" {
		if parsed, ok := parseDateFilter(raw); ok {
			end = parsed
		}
	}

	slots, err := services.GenerateCalendar(classID, start, end)
	if err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build calendar"})
	}

	return c.JSON(fiber.Map{
		"class_id": classID,
		"slots":    slots,
	})
}

type ClassRequest struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Description *string `json:"description,omitempty"`
	Level       string  `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Duration    int     `json:"duration" validate:"required,min=15"`
	Capacity    int     `json:"capacity" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"required,min=0"`
	BeachID     *string `json:"beach_id,omitempty" validate:"omitempty,uuid"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// classInScope loads a class and checks it against the caller's filter.
func classInScope(c *fiber.Ctx, classID uuid.UUID) (*models.Class, error) {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return nil, err
	}
	filter, err := services.BuildFilter(scope, services.EntityClass)
	if err != nil {
		return nil, err
	}

	var class models.Class
	if err := filter.Apply(database.DB.Model(&models.Class{})).
		First(&class, "classes.id = ?", classID).Error; err != nil {
		return nil, services.ErrClassNotFound
	}
	return &class, nil
}

func CreateClass(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var schoolID uuid.UUID
	switch {
	case scope.Role == models.RoleSchool && scope.SchoolID != nil:
		schoolID = *scope.SchoolID
	case scope.Role == models.RoleAdmin && c.Query("school_id") != "":
		parsed, err := uuid.Parse(c.Query("school_id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid school id"})
		}
		schoolID = parsed
	default:
		return scopeErrorResponse(c, services.ErrScopeMissing)
	}

	class := models.Class{
		SchoolID:    schoolID,
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		Duration:    req.Duration,
		Capacity:    req.Capacity,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if req.BeachID != nil {
		beachID, err := uuid.Parse(*req.BeachID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid beach id"})
		}
		class.BeachID = &beachID
	}

	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create class"})
	}
	return c.Status(fiber.StatusCreated).JSON(class)
}

func UpdateClass(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	class.Title = req.Title
	class.Description = req.Description
	class.Level = req.Level
	class.Duration = req.Duration
	class.Capacity = req.Capacity
	class.Price = req.Price
	class.ImageURL = req.ImageURL
	if req.BeachID != nil {
		beachID, err := uuid.Parse(*req.BeachID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid beach id"})
		}
		class.BeachID = &beachID
	}

	if err := database.DB.Save(class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update class"})
	}
	return c.JSON(class)
}

func DeleteClass(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	if err := database.DB.Delete(class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete class"})
	}
	return c.JSON(fiber.Map{"message": "Class deleted"})
}

type ScheduleRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func CreateSchedule(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	schedule := models.ClassSchedule{
		ClassID:   class.ID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if err := database.DB.Create(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create schedule"})
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func UpdateSchedule(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var schedule models.ClassSchedule
	if err := database.DB.First(&schedule, "id = ? AND class_id = ?", c.Params("scheduleId"), class.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule not found"})
	}

	var req ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	schedule.Weekday = req.Weekday
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if err := database.DB.Save(&schedule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update schedule"})
	}
	return c.JSON(schedule)
}

func DeleteSchedule(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	result := database.DB.Where("id = ? AND class_id = ?", c.Params("scheduleId"), class.ID).Delete(&models.ClassSchedule{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete schedule"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule not found"})
	}
	return c.JSON(fiber.Map{"message": "Schedule deleted"})
}

type SessionRequest struct {
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string   `json:"start_time" validate:"required,len=5"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,min=0"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	IsClosed  *bool    `json:"is_closed,omitempty"`
}

// UpsertSession creates or updates the override for one concrete
// (date, time) occurrence — capacity/price changes, closures, one-offs.
func UpsertSession(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var session models.ClassSession
	err = database.DB.
		Where("class_id = ? AND date = ? AND start_time = ?", class.ID, req.Date, req.StartTime).
		First(&session).Error
	if err != nil {
		session = models.ClassSession{ClassID: class.ID, Date: req.Date, StartTime: req.StartTime}
	}

	session.Capacity = req.Capacity
	session.Price = req.Price
	if req.IsClosed != nil {
		session.IsClosed = *req.IsClosed
	}

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func DeleteSession(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}
	class, err := classInScope(c, classID)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	result := database.DB.Where("id = ? AND class_id = ?", c.Params("sessionId"), class.ID).Delete(&models.ClassSession{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete session"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(fiber.Map{"message": "Session deleted"})
}

// scopeErrorResponse maps scope/authorization failures onto the status
// classes callers rely on to distinguish retryable from forbidden.
func scopeErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this resource"})
	case errors.Is(err, services.ErrScopeMissing):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No school is associated with this account"})
	case errors.Is(err, services.ErrInstructorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instructor profile not found"})
	case errors.Is(err, services.ErrClassNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
}
