package contract

import "time"

// =============================================================================
// SEMAPHORE - Urgency of the next contract deadline
// =============================================================================

// Level is a discrete alert level, most urgent first.
type Level string

const (
	LevelCritical Level = "critical"
	LevelWarning  Level = "warning"
	LevelCaution  Level = "caution"
	LevelOK       Level = "ok"
)

// Band upper bounds in days. A day count equal to a bound belongs to the
// more urgent band.
const (
	CriticalWithinDays = 7
	WarningWithinDays  = 30
	CautionWithinDays  = 90
)

// Color is the display colour of the level.
func (l Level) Color() string {
	switch l {
	case LevelCritical:
		return "red"
	case LevelWarning:
		return "orange"
	case LevelCaution:
		return "yellow"
	default:
		return "green"
	}
}

// UrgencyDate is the deadline that drives the semaphore: the aviso date if
// set, else the end date. Both absent yields the zero Date.
func (c Contract) UrgencyDate() Date {
	if !c.AvisoDate.IsZero() {
		return c.AvisoDate
	}
	return c.EndDate
}

// ClassifyDays maps a day count to its level.
func ClassifyDays(days int) Level {
	switch {
	case days <= CriticalWithinDays:
		return LevelCritical
	case days <= WarningWithinDays:
		return LevelWarning
	case days <= CautionWithinDays:
		return LevelCaution
	default:
		return LevelOK
	}
}

// Classify returns the contract's alert level as of now.
func Classify(c Contract, now time.Time) Level {
	return ClassifyDays(DaysUntil(c.UrgencyDate(), now))
}
