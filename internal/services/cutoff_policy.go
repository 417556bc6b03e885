package services

import (
	"errors"
	"fmt"
	"time"

	"hostel_mess_backend/internal/models"
)

// Ordering rules for the mess: next-day meals must be ordered before 22:00,
// and only strictly future dates are orderable.
const (
	CutoffHour     = 22
	CutoffMinute   = 0
	MinAdvanceDays = 1
)

var ErrInvalidMealDate = errors.New("invalid meal date, expected YYYY-MM-DD")

// Clock supplies the current instant. Injectable so cutoff logic is testable
// without real wall-clock waiting.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// CutoffPolicy decides whether ordering is currently locked and whether a
// calendar date is still a legal target for a new or edited order.
type CutoffPolicy struct {
	clock Clock
}

// NewCutoffPolicy creates a CutoffPolicy. A nil clock falls back to the
// system clock.
func NewCutoffPolicy(clock Clock) *CutoffPolicy {
	if clock == nil {
		clock = SystemClock{}
	}
	return &CutoffPolicy{clock: clock}
}

// Now returns the policy clock's current instant.
func (p *CutoffPolicy) Now() time.Time {
	return p.clock.Now()
}

// Today returns the current calendar date at local midnight.
func (p *CutoffPolicy) Today() time.Time {
	return NormalizeDate(p.clock.Now())
}

// IsCutoffPassed reports whether the daily cutoff (22:00) has passed. The
// comparison is against time-of-day only and is recomputed fresh on every
// call, so it resets to false at local midnight. Exactly 22:00:00 counts as
// passed.
func (p *CutoffPolicy) IsCutoffPassed() bool {
	now := p.clock.Now()
	return now.Hour()*60+now.Minute() >= CutoffHour*60+CutoffMinute
}

// CanEdit reports whether an order for orderDate can still be created,
// edited or cancelled. A date locked by cutoff never reopens: once today has
// advanced to or past it, IsDateOrderable stays false forever.
func (p *CutoffPolicy) CanEdit(orderDate time.Time) bool {
	return IsDateOrderable(orderDate, p.Today()) && !p.IsCutoffPassed()
}

// DeriveStatus computes the read-time status of an order. Paused is an
// externally set flag and always wins; otherwise all orders share the global
// pending/confirmed flip at cutoff.
func (p *CutoffPolicy) DeriveStatus(paused bool) models.OrderStatus {
	if paused {
		return models.OrderStatusPaused
	}
	if p.IsCutoffPassed() {
		return models.OrderStatusConfirmed
	}
	return models.OrderStatusPending
}

// ParseDate parses a YYYY-MM-DD string in the clock's location, yielding
// local midnight. UTC round-tripping is deliberately avoided: it shifts the
// calendar date near midnight in non-UTC zones.
func (p *CutoffPolicy) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, p.clock.Now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMealDate, s)
	}
	return t, nil
}

// NormalizeDate truncates an instant to midnight in its own location.
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// IsDateOrderable reports whether date is a legal order target given today.
// Strictly future dates only: today and past dates are never orderable,
// regardless of cutoff time. The comparison is by calendar components, never
// by instants: the two values may carry different locations (DATE columns
// scan as midnight UTC while the policy clock is local), and an instant
// comparison would let the same calendar date slip through the gate.
func IsDateOrderable(date, today time.Time) bool {
	dateYear, dateMonth, dateDay := date.Date()
	todayYear, todayMonth, todayDay := today.Date()
	if dateYear != todayYear {
		return dateYear > todayYear
	}
	if dateMonth != todayMonth {
		return dateMonth > todayMonth
	}
	return dateDay > todayDay
}

// FormatDate renders a date as YYYY-MM-DD using its own calendar components.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
