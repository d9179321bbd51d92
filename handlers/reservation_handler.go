package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

type ProductItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateReservationRequest struct {
	ClassID   string  `json:"class_id" validate:"required,uuid"`
	SessionID *string `json:"session_id,omitempty" validate:"omitempty,uuid"`
	Date      string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime string  `json:"start_time,omitempty" validate:"omitempty,len=5"`

	Participants       int                  `json:"participants" validate:"required,min=1"`
	ParticipantDetails datatypes.JSON       `json:"participant_details,omitempty"`
	SpecialRequest     *string              `json:"special_request,omitempty"`
	Products           []ProductItemRequest `json:"products,omitempty" validate:"omitempty,dive"`
	DiscountCode       *string              `json:"discount_code,omitempty"`

	// guest checkout fields, ignored for authenticated callers
	GuestName  string `json:"guest_name,omitempty"`
	GuestEmail string `json:"guest_email,omitempty" validate:"omitempty,email"`
}

// CreateReservation books a slot. Runs behind OptionalAuth: an anonymous
// caller goes through guest checkout and gets a freshly provisioned
// account plus a token in the response.
func CreateReservation(c *fiber.Ctx) error {
	var req CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	classID, _ := uuid.Parse(req.ClassID)
	input := services.CreateReservationInput{
		ClassID:            classID,
		Date:               req.Date,
		StartTime:          req.StartTime,
		Participants:       req.Participants,
		ParticipantDetails: req.ParticipantDetails,
		SpecialRequest:     req.SpecialRequest,
		GuestName:          req.GuestName,
		GuestEmail:         req.GuestEmail,
	}
	if req.SessionID != nil {
		sessionID, err := uuid.Parse(*req.SessionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
		}
		input.SessionID = &sessionID
	}
	for _, item := range req.Products {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
		}
		input.Products = append(input.Products, services.ProductLine{ProductID: productID, Quantity: item.Quantity})
	}

	if userID, _, ok := currentClaims(c); ok {
		input.UserID = &userID
	}

	// the discount is validated here, in the same request lifecycle; the
	// engine prices from it and consumes a use at commit time
	if req.DiscountCode != nil && *req.DiscountCode != "" {
		quote, err := services.ValidateDiscount(database.DB, *req.DiscountCode, 0, &classID)
		if err != nil {
			return reservationErrorResponse(c, err)
		}
		if !quote.Valid {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": quote.Message})
		}
		input.Discount = &services.DiscountSelector{
			CodeID:     quote.Code.ID,
			Percentage: quote.Code.Percentage,
		}
	}

	result, err := ReservationSvc.Create(input)
	if err != nil {
		return reservationErrorResponse(c, err)
	}

	response := fiber.Map{
		"reservation": result.Reservation,
		"is_new_user": result.IsNewUser,
	}
	if result.IsNewUser {
		if token, err := generateToken(*result.User); err == nil {
			response["token"] = token
		}
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func GetMyReservations(c *fiber.Ctx) error {
	userID, _, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	var reservations []models.Reservation
	database.DB.
		Preload("Class.School").
		Preload("Payment").
		Preload("ProductPurchases.Product").
		Where("user_id = ?", userID).
		Order("date desc, start_time desc").
		Find(&reservations)

	return c.JSON(reservations)
}

// ListReservations is the scoped list for school admins, instructors and
// platform admins.
func ListReservations(c *fiber.Ctx) error {
	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	filter, err := services.BuildFilter(scope, services.EntityReservation)
	if err != nil {
		return scopeErrorResponse(c, err)
	}

	var reservations []models.Reservation
	query := filter.Apply(database.DB.Model(&models.Reservation{})).
		Preload("User").
		Preload("Class").
		Preload("Payment").
		Order("reservations.date desc, reservations.start_time desc")
	if err := query.Find(&reservations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load reservations"})
	}

	return c.JSON(reservations)
}

type UpdateReservationRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("reservationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation id"})
	}

	var req UpdateReservationRequest
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

	reservation, err := ReservationSvc.UpdateStatus(scope, reservationID, req.Status)
	if err != nil {
		return reservationErrorResponse(c, err)
	}
	return c.JSON(reservation)
}

func DeleteReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("reservationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation id"})
	}

	scope, err := services.ScopeFromCtx(c)
	if err != nil {
		return scopeErrorResponse(c, err)
	}
	if err := ReservationSvc.Delete(scope, reservationID); err != nil {
		return reservationErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reservation deleted"})
}

// reservationErrorResponse keeps business-rule rejections (400, carry a
// message the end user can read) distinguishable from authorization
// failures (403) and missing rows (404).
func reservationErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAccountExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrClassNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrReservationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You do not have access to this resource"})
	case errors.Is(err, services.ErrScopeMissing):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "No school is associated with this account"})
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrDiscountExhausted),
		errors.Is(err, services.ErrSessionClosed),
		errors.Is(err, services.ErrMissingSlot),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrGuestDetailsMissing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Something went wrong, please try again"})
}
