package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"surfschool_backend/database"
	"surfschool_backend/models"
)

var (
	ErrScopeMissing       = errors.New("no school is associated with this account")
	ErrForbidden          = errors.New("you do not have access to this resource")
	ErrInstructorNotFound = errors.New("instructor profile not found")
)

// ScopeContext is the resolved tenant boundary of an authenticated
// principal. SchoolID and InstructorID are nil when the role does not
// carry them (or, for a school admin, when no school exists yet).
type ScopeContext struct {
	Role         string
	UserID       uuid.UUID
	SchoolID     *uuid.UUID
	InstructorID *uuid.UUID
}

type EntityKind string

const (
	EntityClass       EntityKind = "class"
	EntityInstructor  EntityKind = "instructor"
	EntityStudent     EntityKind = "student"
	EntityReservation EntityKind = "reservation"
	EntityPayment     EntityKind = "payment"
)

// QueryFilter is a declarative row restriction. An empty filter matches
// everything.
type QueryFilter struct {
	Joins []string
	Where string
	Args  []interface{}
}

func (f QueryFilter) Apply(db *gorm.DB) *gorm.DB {
	for _, join := range f.Joins {
		db = db.Joins(join)
	}
	if f.Where != "" {
		db = db.Where(f.Where, f.Args...)
	}
	return db
}

// ResolveScope looks up the tenant boundary for a principal. A school
// admin without a school proceeds with an empty scope; an instructor
// without a profile is an error, instructor endpoints hard-require one.
func ResolveScope(db *gorm.DB, role string, userID uuid.UUID) (ScopeContext, error) {
	scope := ScopeContext{Role: role, UserID: userID}

	switch role {
	case models.RoleSchool:
		var school models.School
		err := db.Where("owner_id = ?", userID).First(&school).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return scope, nil
			}
			return scope, err
		}
		scope.SchoolID = &school.ID
	case models.RoleInstructor:
		var instructor models.Instructor
		err := db.First(&instructor, "user_id = ?", userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return scope, ErrInstructorNotFound
			}
			return scope, err
		}
		scope.InstructorID = &instructor.UserID
		scope.SchoolID = &instructor.SchoolID
	}

	return scope, nil
}

// ScopeFromCtx resolves the caller's scope once per request and caches it
// on the fiber context for subsequent lookups in the same call.
func ScopeFromCtx(c *fiber.Ctx) (ScopeContext, error) {
	if cached, ok := c.Locals("scope").(ScopeContext); ok {
		return cached, nil
	}

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ScopeContext{}, ErrForbidden
	}
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return ScopeContext{}, ErrForbidden
	}

	scope, err := ResolveScope(database.DB, role, userID)
	if err != nil {
		return ScopeContext{}, err
	}
	c.Locals("scope", scope)
	return scope, nil
}

// BuildFilter maps a resolved scope and a target entity kind onto the row
// restriction every list/read/write must apply. The role switch is
// exhaustive; an unknown role is rejected rather than silently widened.
func BuildFilter(scope ScopeContext, kind EntityKind) (QueryFilter, error) {
	switch scope.Role {
	case models.RoleAdmin:
		return QueryFilter{}, nil

	case models.RoleSchool:
		if scope.SchoolID == nil {
			return QueryFilter{}, ErrScopeMissing
		}
		return schoolBoundFilter(*scope.SchoolID, kind)

	case models.RoleInstructor:
		if scope.SchoolID == nil || scope.InstructorID == nil {
			return QueryFilter{}, ErrScopeMissing
		}
		if kind == EntityInstructor {
			// no visibility into peers
			return QueryFilter{
				Where: "instructors.user_id = ?",
				Args:  []interface{}{*scope.InstructorID},
			}, nil
		}
		return schoolBoundFilter(*scope.SchoolID, kind)

	case models.RoleStudent:
		switch kind {
		case EntityClass:
			// browsing is public
			return QueryFilter{}, nil
		case EntityReservation:
			return QueryFilter{
				Where: "reservations.user_id = ?",
				Args:  []interface{}{scope.UserID},
			}, nil
		case EntityPayment:
			return QueryFilter{
				Joins: []string{"JOIN reservations ON reservations.id = payments.reservation_id"},
				Where: "reservations.user_id = ?",
				Args:  []interface{}{scope.UserID},
			}, nil
		case EntityInstructor, EntityStudent:
			return QueryFilter{}, ErrForbidden
		}
		return QueryFilter{}, fmt.Errorf("unknown entity kind %q", kind)
	}

	return QueryFilter{}, fmt.Errorf("unknown role %q", scope.Role)
}

func schoolBoundFilter(schoolID uuid.UUID, kind EntityKind) (QueryFilter, error) {
	switch kind {
	case EntityClass:
		return QueryFilter{
			Where: "classes.school_id = ?",
			Args:  []interface{}{schoolID},
		}, nil
	case EntityInstructor:
		return QueryFilter{
			Where: "instructors.school_id = ?",
			Args:  []interface{}{schoolID},
		}, nil
	case EntityStudent:
		// students who hold at least one reservation in the school
		return QueryFilter{
			Joins: []string{
				"JOIN reservations ON reservations.user_id = users.id",
				"JOIN classes ON classes.id = reservations.class_id",
			},
			Where: "classes.school_id = ? AND users.role = ?",
			Args:  []interface{}{schoolID, models.RoleStudent},
		}, nil
	case EntityReservation:
		return QueryFilter{
			Joins: []string{"JOIN classes ON classes.id = reservations.class_id"},
			Where: "classes.school_id = ?",
			Args:  []interface{}{schoolID},
		}, nil
	case EntityPayment:
		return QueryFilter{
			Joins: []string{
				"JOIN reservations ON reservations.id = payments.reservation_id",
				"JOIN classes ON classes.id = reservations.class_id",
			},
			Where: "classes.school_id = ?",
			Args:  []interface{}{schoolID},
		}, nil
	}
	return QueryFilter{}, fmt.Errorf("unknown entity kind %q", kind)
}
