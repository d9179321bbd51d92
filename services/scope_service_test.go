package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"surfschool_backend/models"
)

func TestBuildFilterAdminUnrestricted(t *testing.T) {
	scope := ScopeContext{Role: models.RoleAdmin, UserID: uuid.New()}
	kinds := []EntityKind{EntityClass, EntityInstructor, EntityStudent, EntityReservation, EntityPayment}
	for _, kind := range kinds {
		filter, err := BuildFilter(scope, kind)
		if err != nil {
			t.Fatalf("admin filter for %s: %v", kind, err)
		}
		if filter.Where != "" || len(filter.Joins) != 0 {
			t.Errorf("admin filter for %s must be empty, got %+v", kind, filter)
		}
	}
}

func TestBuildFilterSchoolBound(t *testing.T) {
	schoolID := uuid.New()
	scope := ScopeContext{Role: models.RoleSchool, UserID: uuid.New(), SchoolID: &schoolID}

	cases := []struct {
		kind  EntityKind
		where string
		joins int
	}{
		{EntityClass, "classes.school_id = ?", 0},
		{EntityInstructor, "instructors.school_id = ?", 0},
		{EntityStudent, "classes.school_id = ? AND users.role = ?", 2},
		{EntityReservation, "classes.school_id = ?", 1},
		{EntityPayment, "classes.school_id = ?", 2},
	}
	for _, tc := range cases {
		filter, err := BuildFilter(scope, tc.kind)
		if err != nil {
			t.Fatalf("school filter for %s: %v", tc.kind, err)
		}
		if filter.Where != tc.where {
			t.Errorf("school filter for %s where = %q, want %q", tc.kind, filter.Where, tc.where)
		}
		if len(filter.Joins) != tc.joins {
			t.Errorf("school filter for %s joins = %d, want %d", tc.kind, len(filter.Joins), tc.joins)
		}
		if len(filter.Args) == 0 || filter.Args[0] != schoolID {
			t.Errorf("school filter for %s must bind the school id", tc.kind)
		}
	}
}

func TestBuildFilterSchoolWithoutSchool(t *testing.T) {
	scope := ScopeContext{Role: models.RoleSchool, UserID: uuid.New()}
	if _, err := BuildFilter(scope, EntityClass); !errors.Is(err, ErrScopeMissing) {
		t.Errorf("school role without a school = %v, want ErrScopeMissing", err)
	}
}

func TestBuildFilterInstructor(t *testing.T) {
	schoolID := uuid.New()
	instructorID := uuid.New()
	scope := ScopeContext{
		Role:         models.RoleInstructor,
		UserID:       instructorID,
		SchoolID:     &schoolID,
		InstructorID: &instructorID,
	}

	filter, err := BuildFilter(scope, EntityInstructor)
	if err != nil {
		t.Fatalf("instructor self filter: %v", err)
	}
	if filter.Where != "instructors.user_id = ?" || filter.Args[0] != instructorID {
		t.Errorf("instructor must only see their own profile, got %+v", filter)
	}

	filter, err = BuildFilter(scope, EntityReservation)
	if err != nil {
		t.Fatalf("instructor reservation filter: %v", err)
	}
	if filter.Where != "classes.school_id = ?" || filter.Args[0] != schoolID {
		t.Errorf("instructor reservations must be school-bound, got %+v", filter)
	}
}

func TestBuildFilterInstructorWithoutProfile(t *testing.T) {
	scope := ScopeContext{Role: models.RoleInstructor, UserID: uuid.New()}
	if _, err := BuildFilter(scope, EntityClass); !errors.Is(err, ErrScopeMissing) {
		t.Errorf("instructor without a profile = %v, want ErrScopeMissing", err)
	}
}

func TestBuildFilterStudent(t *testing.T) {
	userID := uuid.New()
	scope := ScopeContext{Role: models.RoleStudent, UserID: userID}

	filter, err := BuildFilter(scope, EntityClass)
	if err != nil {
		t.Fatalf("student class filter: %v", err)
	}
	if filter.Where != "" {
		t.Errorf("students browse classes unrestricted, got %+v", filter)
	}

	filter, err = BuildFilter(scope, EntityReservation)
	if err != nil {
		t.Fatalf("student reservation filter: %v", err)
	}
	if filter.Where != "reservations.user_id = ?" || filter.Args[0] != userID {
		t.Errorf("student reservations must be own rows, got %+v", filter)
	}

	filter, err = BuildFilter(scope, EntityPayment)
	if err != nil {
		t.Fatalf("student payment filter: %v", err)
	}
	if len(filter.Joins) != 1 || filter.Where != "reservations.user_id = ?" {
		t.Errorf("student payments must join through own reservations, got %+v", filter)
	}

	for _, kind := range []EntityKind{EntityInstructor, EntityStudent} {
		if _, err := BuildFilter(scope, kind); !errors.Is(err, ErrForbidden) {
			t.Errorf("student access to %s = %v, want ErrForbidden", kind, err)
		}
	}
}

func TestBuildFilterUnknownRole(t *testing.T) {
	scope := ScopeContext{Role: "superuser", UserID: uuid.New()}
	if _, err := BuildFilter(scope, EntityClass); err == nil {
		t.Error("unknown role must be rejected")
	}
}
