package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"surfschool_backend/database"
	"surfschool_backend/models"
)

var ErrClassNotFound = errors.New("class not found")

// DefaultCalendarDays is the forward window used when the caller does not
// supply a date range.
const DefaultCalendarDays = 60

const dateLayout = "2006-01-02"

// VirtualSlot is a bookable occurrence derived from the weekly schedules,
// the session overrides and the live reservation counts. It is never
// persisted; SessionID is set only when a backing override row exists.
type VirtualSlot struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time,omitempty"`
	Capacity  int        `json:"capacity"`
	Price     float64    `json:"price"`
	Reserved  int        `json:"reserved"`
	Available int        `json:"available"`
	IsVirtual bool       `json:"is_virtual"`
}

func slotKey(date, startTime string) string {
	return date + " " + startTime
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BuildCalendar materializes the bookable slots of one class over the
// inclusive [start, end] window. Bounds are dates; any time of day they
// carry is discarded so the end date's slots are never dropped. It is a
// pure function of its inputs: calling it twice with the same rows
// yields the same ordered sequence.
func BuildCalendar(class models.Class, schedules []models.ClassSchedule, sessions []models.ClassSession, reservations []models.Reservation, start, end time.Time) []VirtualSlot {
	start = midnight(start)
	end = midnight(end)

	sessionsByKey := make(map[string]models.ClassSession, len(sessions))
	sessionsByDate := make(map[string][]models.ClassSession)
	for _, s := range sessions {
		sessionsByKey[slotKey(s.Date, s.StartTime)] = s
		sessionsByDate[s.Date] = append(sessionsByDate[s.Date], s)
	}

	reservedByKey := make(map[string]int)
	for _, r := range reservations {
		if r.Status == models.ReservationCanceled {
			continue
		}
		reservedByKey[slotKey(r.Date, r.StartTime)] += r.Participants
	}

	slots := []VirtualSlot{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		matched := make(map[string]bool)

		for _, sched := range schedules {
			if !sched.IsActive || int(day.Weekday()) != sched.Weekday {
				continue
			}
			key := slotKey(date, sched.StartTime)

			slot := VirtualSlot{
				Date:      date,
				StartTime: sched.StartTime,
				EndTime:   sched.EndTime,
				Capacity:  class.Capacity,
				Price:     class.Price,
				IsVirtual: true,
			}
			if session, ok := sessionsByKey[key]; ok {
				matched[key] = true
				if session.IsClosed {
					continue
				}
				applySessionOverride(&slot, session)
			}

			slot.Reserved = reservedByKey[key]
			slot.Available = availableSpots(slot.Capacity, slot.Reserved)
			slots = append(slots, slot)
		}

		// one-off sessions with no matching weekly occurrence
		for _, session := range sessionsByDate[date] {
			key := slotKey(date, session.StartTime)
			if matched[key] || session.IsClosed {
				continue
			}
			slot := VirtualSlot{
				Date:      date,
				StartTime: session.StartTime,
				Capacity:  class.Capacity,
				Price:     class.Price,
				IsVirtual: true,
			}
			applySessionOverride(&slot, session)
			slot.Reserved = reservedByKey[key]
			slot.Available = availableSpots(slot.Capacity, slot.Reserved)
			slots = append(slots, slot)
		}
	}

	// (date, time) is unique per class, so this order is total
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots
}

func applySessionOverride(slot *VirtualSlot, session models.ClassSession) {
	id := session.ID
	slot.SessionID = &id
	slot.IsVirtual = false
	if session.Capacity != nil {
		slot.Capacity = *session.Capacity
	}
	if session.Price != nil {
		slot.Price = *session.Price
	}
}

func availableSpots(capacity, reserved int) int {
	if available := capacity - reserved; available > 0 {
		return available
	}
	return 0
}

// GenerateCalendar loads a class with its schedules, overrides and live
// reservations and returns its materialized calendar for [start, end].
func GenerateCalendar(classID uuid.UUID, start, end time.Time) ([]VirtualSlot, error) {
	var class models.Class
	if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
		return nil, ErrClassNotFound
	}

	var schedules []models.ClassSchedule
	if err := database.DB.Where("class_id = ? AND is_active = ?", classID, true).Find(&schedules).Error; err != nil {
		return nil, err
	}

	startDate := start.Format(dateLayout)
	endDate := end.Format(dateLayout)

	var sessions []models.ClassSession
	if err := database.DB.Where("class_id = ? AND date BETWEEN ? AND ?", classID, startDate, endDate).Find(&sessions).Error; err != nil {
		return nil, err
	}

	var reservations []models.Reservation
	if err := database.DB.
		Where("class_id = ? AND date BETWEEN ? AND ? AND status <> ?", classID, startDate, endDate, models.ReservationCanceled).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	return BuildCalendar(class, schedules, sessions, reservations, start, end), nil
}

// NextSlot returns the first upcoming slot of a class inside the default
// window, or nil when the class has nothing bookable.
func NextSlot(classID uuid.UUID) (*VirtualSlot, error) {
	now := time.Now()
	slots, err := GenerateCalendar(classID, now, now.AddDate(0, 0, DefaultCalendarDays))
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}
	return &slots[0], nil
}
