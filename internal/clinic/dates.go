package clinic

import (
	"time"

	"clinic-app-server/internal/models"
)

// bookingWindowDays is the size of the rolling booking window offered to
// patients: the next ten calendar days starting tomorrow.
const bookingWindowDays = 10

// AvailableDates returns the bookable dates for a booking made at now, as
// midnights in now's location, ordered from tomorrow onward.
func AvailableDates(now time.Time) []time.Time {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	dates := make([]time.Time, 0, bookingWindowDays)
	for i := 0; i < bookingWindowDays; i++ {
		dates = append(dates, tomorrow.AddDate(0, 0, i))
	}
	return dates
}

// DateBookable reports whether date falls on one of the bookable days.
func DateBookable(now, date time.Time) bool {
	for _, d := range AvailableDates(now) {
		if sameDay(d, date) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// validateChoice checks the submitted date and slot against the date-choice
// policy and returns the combined appointment date-time.
func validateChoice(now, date time.Time, slot models.TimeSlot) (time.Time, error) {
	if !slot.Valid() {
		return time.Time{}, ErrInvalidSlot
	}
	if !DateBookable(now, date) {
		return time.Time{}, ErrInvalidDate
	}
	return slot.Combine(date), nil
}
