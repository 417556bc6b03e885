package services

import (
	"errors"
	"testing"
	"time"

	"hostel_mess_backend/internal/models"
)

// fixedClock pins the policy clock to one instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestIsCutoffPassed(t *testing.T) {
	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"morning", "2026-01-17 08:00:00", false},
		{"one minute before cutoff", "2026-01-17 21:59:00", false},
		{"exactly at cutoff", "2026-01-17 22:00:00", true},
		{"just past cutoff", "2026-01-17 22:01:00", true},
		{"late evening", "2026-01-17 23:45:00", true},
		{"midnight resets the gate", "2026-01-18 00:00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewCutoffPolicy(fixedClock{now: at(t, tt.now)})
			if got := policy.IsCutoffPassed(); got != tt.want {
				t.Errorf("IsCutoffPassed() at %s = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsDateOrderable(t *testing.T) {
	today := at(t, "2026-01-17 12:00:00")

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"past date", "2026-01-10 00:00:00", false},
		{"yesterday", "2026-01-16 00:00:00", false},
		{"today is never orderable", "2026-01-17 00:00:00", false},
		{"today late evening still not orderable", "2026-01-17 23:30:00", false},
		{"tomorrow", "2026-01-18 00:00:00", true},
		{"next week", "2026-01-24 00:00:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDateOrderable(at(t, tt.date), today); got != tt.want {
				t.Errorf("IsDateOrderable(%s, today=2026-01-17) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsDateOrderableAcrossLocations(t *testing.T) {
	// DATE columns scan back as midnight UTC while the policy clock runs in
	// the local zone. East of UTC, midnight UTC of the same calendar date is
	// a later instant than local midnight; the comparison must still treat
	// them as the same day.
	east := time.FixedZone("UTC+5", 5*60*60)
	today := time.Date(2026, time.January, 18, 0, 0, 0, 0, east)

	sameDayUTC := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
	if IsDateOrderable(sameDayUTC, today) {
		t.Error("IsDateOrderable(2026-01-18 UTC, today=2026-01-18 UTC+5) = true, want false for the same calendar date")
	}

	nextDayUTC := time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC)
	if !IsDateOrderable(nextDayUTC, today) {
		t.Error("IsDateOrderable(2026-01-19 UTC, today=2026-01-18 UTC+5) = false, want true")
	}

	pastDayUTC := time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC)
	if IsDateOrderable(pastDayUTC, today) {
		t.Error("IsDateOrderable(2026-01-17 UTC, today=2026-01-18 UTC+5) = true, want false")
	}

	// Year and month rollovers compare by component too, not by day alone.
	if IsDateOrderable(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), today) {
		t.Error("a prior-year date must never be orderable")
	}
	if !IsDateOrderable(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), today) {
		t.Error("a next-month date must be orderable")
	}
}

func TestCanEdit(t *testing.T) {
	tomorrow := at(t, "2026-01-18 00:00:00")
	dayAfter := at(t, "2026-01-19 00:00:00")

	tests := []struct {
		name string
		now  string
		date time.Time
		want bool
	}{
		{"before cutoff, next day editable", "2026-01-17 21:59:00", tomorrow, true},
		{"after cutoff, next day locked", "2026-01-17 22:01:00", tomorrow, false},
		{"next morning the date is today and stays locked", "2026-01-18 09:00:00", tomorrow, false},
		{"next morning a later date reopens", "2026-01-18 09:00:00", dayAfter, true},
		{"after cutoff even far dates are locked", "2026-01-17 22:30:00", dayAfter, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewCutoffPolicy(fixedClock{now: at(t, tt.now)})
			if got := policy.CanEdit(tt.date); got != tt.want {
				t.Errorf("CanEdit(%s) at %s = %v, want %v", FormatDate(tt.date), tt.now, got, tt.want)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	beforeCutoff := NewCutoffPolicy(fixedClock{now: at(t, "2026-01-17 10:00:00")})
	afterCutoff := NewCutoffPolicy(fixedClock{now: at(t, "2026-01-17 22:15:00")})

	if got := beforeCutoff.DeriveStatus(false); got != models.OrderStatusPending {
		t.Errorf("DeriveStatus(false) before cutoff = %v, want pending", got)
	}
	if got := afterCutoff.DeriveStatus(false); got != models.OrderStatusConfirmed {
		t.Errorf("DeriveStatus(false) after cutoff = %v, want confirmed", got)
	}
	// Paused wins on both sides of the cutoff.
	if got := beforeCutoff.DeriveStatus(true); got != models.OrderStatusPaused {
		t.Errorf("DeriveStatus(true) before cutoff = %v, want paused", got)
	}
	if got := afterCutoff.DeriveStatus(true); got != models.OrderStatusPaused {
		t.Errorf("DeriveStatus(true) after cutoff = %v, want paused", got)
	}
}

func TestParseDate(t *testing.T) {
	policy := NewCutoffPolicy(fixedClock{now: at(t, "2026-01-17 10:00:00")})

	parsed, err := policy.ParseDate("2026-01-18")
	if err != nil {
		t.Fatalf("ParseDate(2026-01-18) returned error: %v", err)
	}
	if got := FormatDate(parsed); got != "2026-01-18" {
		t.Errorf("ParseDate round trip = %s, want 2026-01-18", got)
	}
	if parsed.Hour() != 0 || parsed.Minute() != 0 {
		t.Errorf("ParseDate should yield midnight, got %s", parsed)
	}

	for _, bad := range []string{"", "18-01-2026", "2026/01/18", "not-a-date"} {
		if _, err := policy.ParseDate(bad); !errors.Is(err, ErrInvalidMealDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidMealDate", bad, err)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	instant := at(t, "2026-01-17 23:59:59")
	normalized := NormalizeDate(instant)
	if FormatDate(normalized) != "2026-01-17" {
		t.Errorf("NormalizeDate shifted the calendar date: got %s", FormatDate(normalized))
	}
	if normalized.Hour() != 0 || normalized.Minute() != 0 || normalized.Second() != 0 {
		t.Errorf("NormalizeDate did not truncate to midnight: %s", normalized)
	}
	if normalized.Location() != instant.Location() {
		t.Errorf("NormalizeDate changed the location: %v", normalized.Location())
	}
}

func TestNilClockFallsBackToSystemClock(t *testing.T) {
	policy := NewCutoffPolicy(nil)
	if time.Since(policy.Now()) > time.Minute {
		t.Error("nil-clock policy should track the system clock")
	}
}
