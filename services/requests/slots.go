package requests

import "time"

// Reschedule proposals must land on the half-hour grid inside working hours.
const (
	slotDayStartHour = 8
	slotDayEndHour   = 18
	slotStep         = 30 * time.Minute
)

// SlotGrid returns the proposable start times for the given calendar day,
// every half hour from 08:00 up to (excluding) 18:00, in the day's location.
func SlotGrid(day time.Time) []time.Time {
	start := time.Date(day.Year(), day.Month(), day.Day(), slotDayStartHour, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), slotDayEndHour, 0, 0, 0, day.Location())

	var slots []time.Time
	for t := start; t.Before(end); t = t.Add(slotStep) {
		slots = append(slots, t)
	}
	return slots
}

// OnSlotGrid reports whether t is a valid reschedule start time.
func OnSlotGrid(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	if t.Minute() != 0 && t.Minute() != 30 {
		return false
	}
	return t.Hour() >= slotDayStartHour && t.Hour() < slotDayEndHour
}
