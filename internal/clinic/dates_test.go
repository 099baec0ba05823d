package clinic

import (
	"testing"
	"time"

	"clinic-app-server/internal/models"
)

func TestAvailableDates(t *testing.T) {
	now := time.Date(2026, 3, 14, 16, 45, 0, 0, time.UTC)

	dates := AvailableDates(now)
	if len(dates) != 10 {
		t.Fatalf("got %d dates, want 10", len(dates))
	}

	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	for i, d := range dates {
		if !d.Equal(want) {
			t.Errorf("dates[%d] = %v, want %v", i, d, want)
		}
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("dates[%d] = %v, want a midnight", i, d)
		}
		want = want.AddDate(0, 0, 1)
	}
}

func TestAvailableDatesIsPure(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	later := now.Add(3 * time.Hour)

	// Same day, same window, no matter the clock time.
	a, b := AvailableDates(now), AvailableDates(later)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("dates differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDateBookable(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"today", now, false},
		{"tomorrow", now.AddDate(0, 0, 1), true},
		{"tomorrow at noon", time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"last day of window", now.AddDate(0, 0, 10), true},
		{"day after window", now.AddDate(0, 0, 11), false},
		{"yesterday", now.AddDate(0, 0, -1), false},
	}
	for _, tc := range cases {
		if got := DateBookable(now, tc.date); got != tc.want {
			t.Errorf("%s: DateBookable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateChoice(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	at, err := validateChoice(now, tomorrow, models.Slot1300)
	if err != nil {
		t.Fatalf("validateChoice failed: %v", err)
	}
	want := time.Date(2026, 3, 15, 13, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("combined time = %v, want %v", at, want)
	}

	if _, err := validateChoice(now, tomorrow, models.TimeSlot("08:00")); err != ErrInvalidSlot {
		t.Errorf("early slot: err = %v, want ErrInvalidSlot", err)
	}
	if _, err := validateChoice(now, now, models.Slot0900); err != ErrInvalidDate {
		t.Errorf("same-day booking: err = %v, want ErrInvalidDate", err)
	}
}
