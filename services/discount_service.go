package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"surfschool_backend/models"
)

var (
	ErrDiscountPercentage = errors.New("percentage must be between 0 and 100")
	ErrDiscountCapped     = errors.New("school discount codes cannot exceed 50%")
)

// DiscountQuote is the outcome of validating a code against an amount.
// Code carries the matched row so the reservation engine can consume a
// use at creation time; it is never serialized.
type DiscountQuote struct {
	Valid          bool                 `json:"valid"`
	Message        string               `json:"message,omitempty"`
	DiscountAmount float64              `json:"discount_amount"`
	FinalAmount    float64              `json:"final_amount"`
	Code           *models.DiscountCode `json:"-"`
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func invalidQuote(message string) DiscountQuote {
	return DiscountQuote{Valid: false, Message: message}
}

// EvaluateDiscount runs the validation pipeline in fixed order: active →
// time window → usage → school scope. Existence is the caller's lookup;
// classSchoolID is nil when no offering was supplied, in which case the
// scope rule is skipped. Usage is checked but never consumed here; the
// reservation engine increments used_count transactionally.
func EvaluateDiscount(code models.DiscountCode, amount float64, classSchoolID *uuid.UUID, now time.Time) DiscountQuote {
	if !code.IsActive {
		return invalidQuote("This discount code is no longer active")
	}
	if now.Before(code.ValidFrom) || now.After(code.ValidTo) {
		return invalidQuote("This discount code is not valid at this time")
	}
	if code.MaxUses != nil && code.UsedCount >= *code.MaxUses {
		return invalidQuote("This discount code has reached its usage limit")
	}
	if code.SchoolID != nil && classSchoolID != nil && *code.SchoolID != *classSchoolID {
		return invalidQuote("This discount code is not valid for this class")
	}

	discount := Round2(amount * code.Percentage / 100)
	return DiscountQuote{
		Valid:          true,
		DiscountAmount: discount,
		FinalAmount:    Round2(amount - discount),
		Code:           &code,
	}
}

// ValidateDiscount resolves a code case-insensitively and prices it
// against the given amount. When classID is supplied, school-scoped codes
// must belong to the class's school.
func ValidateDiscount(db *gorm.DB, rawCode string, amount float64, classID *uuid.UUID) (DiscountQuote, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))

	var discountCode models.DiscountCode
	err := db.Where("upper(code) = ?", code).First(&discountCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidQuote("Discount code not found"), nil
		}
		return DiscountQuote{}, err
	}

	var classSchoolID *uuid.UUID
	if classID != nil {
		var class models.Class
		if err := db.First(&class, "id = ?", *classID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return DiscountQuote{}, ErrClassNotFound
			}
			return DiscountQuote{}, err
		}
		classSchoolID = &class.SchoolID
	}

	return EvaluateDiscount(discountCode, amount, classSchoolID, time.Now()), nil
}

// CheckDiscountCap enforces the role-conditional percentage bound. It is
// re-run on every write that touches the percentage or the school scope,
// not only on create.
func CheckDiscountCap(role string, percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return ErrDiscountPercentage
	}
	if role == models.RoleSchool && percentage > 50 {
		return ErrDiscountCapped
	}
	return nil
}

// ConsumeDiscountUse increments used_count inside the caller's
// transaction, guarded so a code at its usage limit is rejected even when
// an earlier validation in the same request still saw it as valid.
func ConsumeDiscountUse(tx *gorm.DB, codeID uuid.UUID) error {
	result := tx.Model(&models.DiscountCode{}).
		Where("id = ? AND is_active = ? AND (max_uses IS NULL OR used_count < max_uses)", codeID, true).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDiscountExhausted
	}
	return nil
}
