package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"surfschool_backend/models"
)

func day(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return parsed
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBuildCalendarWeeklyPattern(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}

	// 2026-09-07 and 2026-09-14 are Mondays
	start := day(t, "2026-09-07")
	end := day(t, "2026-09-20")

	slots := BuildCalendar(class, schedules, nil, nil, start, end)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots over two weeks, got %d", len(slots))
	}
	for i, want := range []string{"2026-09-07", "2026-09-14"} {
		if slots[i].Date != want {
			t.Errorf("slot %d date = %s, want %s", i, slots[i].Date, want)
		}
		if slots[i].StartTime != "09:00" || slots[i].EndTime != "10:30" {
			t.Errorf("slot %d time = %s-%s, want 09:00-10:30", i, slots[i].StartTime, slots[i].EndTime)
		}
		if slots[i].Capacity != 4 || slots[i].Available != 4 || slots[i].Reserved != 0 {
			t.Errorf("slot %d capacity/available/reserved = %d/%d/%d, want 4/4/0",
				i, slots[i].Capacity, slots[i].Available, slots[i].Reserved)
		}
		if !slots[i].IsVirtual || slots[i].SessionID != nil {
			t.Errorf("slot %d should be virtual with no session id", i)
		}
	}
}

func TestBuildCalendarIsDeterministic(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 6, Price: 55}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 3, StartTime: "08:00", EndTime: "09:00", IsActive: true},
		{ClassID: class.ID, Weekday: 3, StartTime: "16:00", EndTime: "17:00", IsActive: true},
		{ClassID: class.ID, Weekday: 6, StartTime: "10:00", EndTime: "11:30", IsActive: true},
	}
	start := day(t, "2026-09-01")
	end := day(t, "2026-09-30")

	first := BuildCalendar(class, schedules, nil, nil, start, end)
	second := BuildCalendar(class, schedules, nil, nil, start, end)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("calendar generation is not deterministic for identical inputs")
	}
}

func TestBuildCalendarBoundsIgnoreTimeOfDay(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}

	// an afternoon start paired with a midnight end must still cover
	// both Mondays of the inclusive window
	start := day(t, "2026-09-07").Add(15 * time.Hour)
	end := day(t, "2026-09-14")

	slots := BuildCalendar(class, schedules, nil, nil, start, end)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[1].Date != "2026-09-14" {
		t.Errorf("end-date slot missing: last slot date = %s, want 2026-09-14", slots[1].Date)
	}
}

func TestBuildCalendarInactiveScheduleSkipped(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: false},
	}

	slots := BuildCalendar(class, schedules, nil, nil, day(t, "2026-09-07"), day(t, "2026-09-14"))
	if len(slots) != 0 {
		t.Fatalf("inactive schedule produced %d slots, want 0", len(slots))
	}
}

func TestBuildCalendarClosedOverrideRemovesSlot(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}
	sessions := []models.ClassSession{
		{ID: uuid.New(), ClassID: class.ID, Date: "2026-09-07", StartTime: "09:00", IsClosed: true},
	}

	slots := BuildCalendar(class, schedules, sessions, nil, day(t, "2026-09-07"), day(t, "2026-09-14"))
	if len(slots) != 1 {
		t.Fatalf("expected only the unclosed occurrence, got %d slots", len(slots))
	}
	if slots[0].Date != "2026-09-14" {
		t.Errorf("surviving slot date = %s, want 2026-09-14", slots[0].Date)
	}
}

func TestBuildCalendarOverrideCapacityAndPrice(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}
	session := models.ClassSession{
		ID: uuid.New(), ClassID: class.ID, Date: "2026-09-07", StartTime: "09:00",
		Capacity: intPtr(8), Price: floatPtr(35),
	}

	slots := BuildCalendar(class, schedules, []models.ClassSession{session}, nil,
		day(t, "2026-09-07"), day(t, "2026-09-07"))
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	got := slots[0]
	if got.Capacity != 8 || got.Price != 35 {
		t.Errorf("override not applied: capacity=%d price=%v, want 8/35", got.Capacity, got.Price)
	}
	if got.IsVirtual || got.SessionID == nil || *got.SessionID != session.ID {
		t.Error("overridden slot should carry the backing session id")
	}
}

func TestBuildCalendarReservedAndZeroCapacity(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}
	sessions := []models.ClassSession{
		{ID: uuid.New(), ClassID: class.ID, Date: "2026-09-14", StartTime: "09:00", Capacity: intPtr(0)},
	}
	reservations := []models.Reservation{
		{ClassID: class.ID, Date: "2026-09-07", StartTime: "09:00", Participants: 3, Status: models.ReservationConfirmed},
		{ClassID: class.ID, Date: "2026-09-07", StartTime: "09:00", Participants: 2, Status: models.ReservationCanceled},
	}

	slots := BuildCalendar(class, schedules, sessions, reservations,
		day(t, "2026-09-07"), day(t, "2026-09-14"))
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	if slots[0].Reserved != 3 || slots[0].Available != 1 {
		t.Errorf("canceled reservations must not count: reserved=%d available=%d, want 3/1",
			slots[0].Reserved, slots[0].Available)
	}
	if slots[1].Capacity != 0 || slots[1].Available != 0 {
		t.Errorf("capacity-0 override: capacity=%d available=%d, want 0/0",
			slots[1].Capacity, slots[1].Available)
	}
}

func TestBuildCalendarAvailableNeverNegative(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 2, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}
	reservations := []models.Reservation{
		{ClassID: class.ID, Date: "2026-09-07", StartTime: "09:00", Participants: 5, Status: models.ReservationPaid},
	}

	slots := BuildCalendar(class, schedules, nil, reservations,
		day(t, "2026-09-07"), day(t, "2026-09-07"))
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].Available != 0 {
		t.Errorf("available = %d, want 0", slots[0].Available)
	}
}

func TestBuildCalendarOneOffSession(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	// no weekly schedule at all; a single extra session still shows up
	session := models.ClassSession{
		ID: uuid.New(), ClassID: class.ID, Date: "2026-09-09", StartTime: "14:00", Capacity: intPtr(6),
	}

	slots := BuildCalendar(class, nil, []models.ClassSession{session}, nil,
		day(t, "2026-09-07"), day(t, "2026-09-13"))
	if len(slots) != 1 {
		t.Fatalf("expected the one-off session, got %d slots", len(slots))
	}
	if slots[0].Date != "2026-09-09" || slots[0].StartTime != "14:00" || slots[0].Capacity != 6 {
		t.Errorf("one-off slot = %+v", slots[0])
	}
}

func TestBuildCalendarOrdering(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	schedules := []models.ClassSchedule{
		{ClassID: class.ID, Weekday: 1, StartTime: "16:00", EndTime: "17:00", IsActive: true},
		{ClassID: class.ID, Weekday: 1, StartTime: "09:00", EndTime: "10:30", IsActive: true},
	}
	sessions := []models.ClassSession{
		{ID: uuid.New(), ClassID: class.ID, Date: "2026-09-07", StartTime: "12:00"},
	}

	slots := BuildCalendar(class, schedules, sessions, nil,
		day(t, "2026-09-07"), day(t, "2026-09-14"))
	var keys []string
	for _, s := range slots {
		keys = append(keys, slotKey(s.Date, s.StartTime))
	}
	want := []string{
		"2026-09-07 09:00",
		"2026-09-07 12:00",
		"2026-09-07 16:00",
		"2026-09-14 09:00",
		"2026-09-14 16:00",
	}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("slot order = %v, want %v", keys, want)
	}
}

func TestBuildCalendarEmpty(t *testing.T) {
	class := models.Class{ID: uuid.New(), Capacity: 4, Price: 40}
	slots := BuildCalendar(class, nil, nil, nil, day(t, "2026-09-07"), day(t, "2026-09-14"))
	if len(slots) != 0 {
		t.Fatalf("class without schedules produced %d slots, want 0", len(slots))
	}
}
