package expiry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the expiry status bucket assigned to a batch
type Status string

const (
	// StatusUnknown means the batch has no parseable expiry date
	StatusUnknown Status = "unknown"
	// StatusHandled means the batch holds no quantity and is no longer a concern
	StatusHandled Status = "handled"
	// StatusExpired means the expiry date is in the past
	StatusExpired Status = "expired"
	// StatusExpiresToday means the expiry date is today
	StatusExpiresToday Status = "expires_today"
	// StatusCritical means 1-3 days left
	StatusCritical Status = "critical"
	// StatusUrgent means 4-7 days left
	StatusUrgent Status = "urgent"
	// StatusWarning means 8-14 days left
	StatusWarning Status = "warning"
	// StatusAttention means 15-30 days left
	StatusAttention Status = "attention"
	// StatusNormal means more than 30 days left
	StatusNormal Status = "normal"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Priority is the urgency tier derived from the expiry status
type Priority string

const (
	PriorityNone     Priority = "none"
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// String returns the string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// Rank returns a numeric rank for ordering priorities (higher is more urgent)
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Classification is the result of classifying a batch by time to expiry.
// DaysLeft is nil when the expiry date is unknown.
type Classification struct {
	Status      Status   `json:"status"`
	DaysLeft    *int     `json:"days_left"`
	Priority    Priority `json:"priority"`
	IsUrgent    bool     `json:"is_urgent"`
	IsWarning   bool     `json:"is_warning"`
	NeedsAction bool     `json:"needs_action"`
}

// DaysBetween returns the calendar-day difference from a to b, ignoring
// time of day. Both dates are evaluated in b's location.
func DaysBetween(a, b time.Time) int {
	loc := b.Location()
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(aDay.Sub(bDay).Hours() / 24)
}

// Classify assigns an expiry status and urgency tier to a batch.
//
// Rules are evaluated in order, first match wins:
//  1. no expiry date -> unknown / low
//  2. no remaining quantity -> handled / none, regardless of date
//  3. calendar-day distance from today decides the bucket
//
// The reference date is an explicit parameter so callers (and tests)
// control what "today" means; Classify never reads the system clock.
func Classify(expiryDate *time.Time, currentQuantity decimal.Decimal, today time.Time) Classification {
	if expiryDate == nil || expiryDate.IsZero() {
		return Classification{
			Status:   StatusUnknown,
			Priority: PriorityLow,
		}
	}

	if currentQuantity.LessThanOrEqual(decimal.Zero) {
		return Classification{
			Status:   StatusHandled,
			Priority: PriorityNone,
		}
	}

	daysLeft := DaysBetween(*expiryDate, today)
	c := Classification{
		DaysLeft:    &daysLeft,
		IsUrgent:    daysLeft <= 7,
		IsWarning:   daysLeft > 7 && daysLeft <= 14,
		NeedsAction: daysLeft <= 14,
	}

	switch {
	case daysLeft < 0:
		c.Status = StatusExpired
		c.Priority = PriorityCritical
	case daysLeft == 0:
		c.Status = StatusExpiresToday
		c.Priority = PriorityCritical
	case daysLeft <= 3:
		c.Status = StatusCritical
		c.Priority = PriorityHigh
	case daysLeft <= 7:
		c.Status = StatusUrgent
		c.Priority = PriorityHigh
	case daysLeft <= 14:
		c.Status = StatusWarning
		c.Priority = PriorityMedium
	case daysLeft <= 30:
		c.Status = StatusAttention
		c.Priority = PriorityLow
	default:
		c.Status = StatusNormal
		c.Priority = PriorityNone
	}

	return c
}
