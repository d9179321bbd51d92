package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"surfschool_backend/models"
)

func activeCode(pct float64) models.DiscountCode {
	return models.DiscountCode{
		ID:         uuid.New(),
		Code:       "SUMMER20",
		Percentage: pct,
		ValidFrom:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:    time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC),
		IsActive:   true,
	}
}

var july = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

func TestEvaluateDiscountApplied(t *testing.T) {
	quote := EvaluateDiscount(activeCode(20), 120, nil, july)
	if !quote.Valid {
		t.Fatalf("expected valid quote, got %q", quote.Message)
	}
	if quote.DiscountAmount != 24 || quote.FinalAmount != 96 {
		t.Errorf("20%% off 120: discount=%v final=%v, want 24/96", quote.DiscountAmount, quote.FinalAmount)
	}
	if quote.Code == nil {
		t.Error("valid quote should carry the matched code")
	}
}

func TestEvaluateDiscountRounding(t *testing.T) {
	// 15% of 33.33 is 4.9995, rounds half away from zero to 5.00
	quote := EvaluateDiscount(activeCode(15), 33.33, nil, july)
	if !quote.Valid {
		t.Fatalf("expected valid quote, got %q", quote.Message)
	}
	if quote.DiscountAmount != 5 {
		t.Errorf("discount = %v, want 5", quote.DiscountAmount)
	}
	if quote.FinalAmount != 28.33 {
		t.Errorf("final = %v, want 28.33", quote.FinalAmount)
	}
}

func TestEvaluateDiscountInactive(t *testing.T) {
	code := activeCode(20)
	code.IsActive = false
	if quote := EvaluateDiscount(code, 100, nil, july); quote.Valid {
		t.Error("inactive code must not validate")
	}
}

func TestEvaluateDiscountWindow(t *testing.T) {
	code := activeCode(20)
	before := code.ValidFrom.Add(-time.Hour)
	after := code.ValidTo.Add(time.Hour)

	if quote := EvaluateDiscount(code, 100, nil, before); quote.Valid {
		t.Error("code must not validate before its window opens")
	}
	if quote := EvaluateDiscount(code, 100, nil, after); quote.Valid {
		t.Error("code must not validate after its window closes")
	}
	if quote := EvaluateDiscount(code, 100, nil, code.ValidFrom); !quote.Valid {
		t.Error("window bounds are inclusive")
	}
	if quote := EvaluateDiscount(code, 100, nil, code.ValidTo); !quote.Valid {
		t.Error("window bounds are inclusive")
	}
}

func TestEvaluateDiscountUsageLimit(t *testing.T) {
	code := activeCode(20)
	max := 5
	code.MaxUses = &max

	code.UsedCount = 4
	if quote := EvaluateDiscount(code, 100, nil, july); !quote.Valid {
		t.Error("code below its usage limit must validate")
	}

	code.UsedCount = 5
	if quote := EvaluateDiscount(code, 100, nil, july); quote.Valid {
		t.Error("exhausted code must not validate")
	}
}

func TestEvaluateDiscountSchoolScope(t *testing.T) {
	ownSchool := uuid.New()
	otherSchool := uuid.New()

	code := activeCode(20)
	code.SchoolID = &ownSchool

	if quote := EvaluateDiscount(code, 100, &ownSchool, july); !quote.Valid {
		t.Error("school code must validate against its own school's class")
	}
	if quote := EvaluateDiscount(code, 100, &otherSchool, july); quote.Valid {
		t.Error("school code must not validate against another school's class")
	}
	// scope rule is skipped when no offering is supplied
	if quote := EvaluateDiscount(code, 100, nil, july); !quote.Valid {
		t.Error("school code with no class supplied must validate")
	}

	global := activeCode(20)
	if quote := EvaluateDiscount(global, 100, &otherSchool, july); !quote.Valid {
		t.Error("global code must validate against any class")
	}
}

func TestEvaluateDiscountFullPercentage(t *testing.T) {
	quote := EvaluateDiscount(activeCode(100), 80, nil, july)
	if !quote.Valid {
		t.Fatalf("expected valid quote, got %q", quote.Message)
	}
	if quote.DiscountAmount != 80 || quote.FinalAmount != 0 {
		t.Errorf("100%% off 80: discount=%v final=%v, want 80/0", quote.DiscountAmount, quote.FinalAmount)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.9995, 5},
		{4.994, 4.99},
		{-4.995, -5},
		{0, 0},
		{10.005, 10.01},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckDiscountCap(t *testing.T) {
	if err := CheckDiscountCap(models.RoleAdmin, 100); err != nil {
		t.Errorf("admin may create a 100%% code: %v", err)
	}
	if err := CheckDiscountCap(models.RoleSchool, 50); err != nil {
		t.Errorf("school may create a 50%% code: %v", err)
	}
	if err := CheckDiscountCap(models.RoleSchool, 50.01); err != ErrDiscountCapped {
		t.Errorf("school above 50%% = %v, want ErrDiscountCapped", err)
	}
	if err := CheckDiscountCap(models.RoleAdmin, 101); err != ErrDiscountPercentage {
		t.Errorf("percentage above 100 = %v, want ErrDiscountPercentage", err)
	}
	if err := CheckDiscountCap(models.RoleAdmin, -1); err != ErrDiscountPercentage {
		t.Errorf("negative percentage = %v, want ErrDiscountPercentage", err)
	}
}
