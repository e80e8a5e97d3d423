/*
escalation.go - Month-by-month payment schedule

PURPOSE:
  Computes how a contract's monthly payment grows from its month-1 value
  toward the regime (ceiling) amount.

MODES:
  auto:   Linear stepping. Each month adds a fixed increment until either
          the regime amount is reached or the month cap runs out.
  manual: The operator types (month, amount) pairs. Rows are kept in the
          order entered; duplicates are kept. Blank or unparseable rows
          are dropped.

AUTO EXAMPLE:
  monthly=100, increment=50, maxMonths=5, regime=220

    Month 1: 100
    Month 2: 150
    Month 3: 200
    Month 4: 220   <- 250 >= 220, clamp to regime and stop

GUARANTEES (auto):
  - At most maxMonths+1 rows
  - Amounts are non-decreasing
  - No amount exceeds the regime amount
  - Once the regime is reached the schedule ends

INSUFFICIENT DATA:
  If monthly, regime or maxMonths is zero no schedule can be built. This
  is not an error: the schedule is empty and Insufficient is set.

MONTH CAP:
  maxMonths is capped at MaxEscalationMonths (50 years), so a schedule
  never has more than MaxEscalationMonths+1 rows whatever the input.
*/
package contract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxEscalationMonths caps the number of escalation steps.
const MaxEscalationMonths = 600

// EscalationMode selects how a schedule is produced.
type EscalationMode string

const (
	ModeAutomatic EscalationMode = "auto"
	ModeManual    EscalationMode = "manual"
)

// ParseEscalationMode accepts "auto"/"automatic" and "manual". Blank means auto.
func ParseEscalationMode(s string) (EscalationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "automatic":
		return ModeAutomatic, nil
	case "manual":
		return ModeManual, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEscalationMode, s)
	}
}

// EscalationRow is one month of the schedule.
type EscalationRow struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// Schedule is a computed escalation table.
type Schedule struct {
	Mode EscalationMode  `json:"mode"`
	Rows []EscalationRow `json:"rows"`
	// Insufficient is set when automatic inputs are missing.
	Insufficient bool `json:"insufficient"`
}

// Terms are the automatic-mode inputs.
type Terms struct {
	MonthlyAmount  decimal.Decimal
	FixedIncrement decimal.Decimal
	MaxMonths      int
	RegimeAmount   decimal.Decimal
}

// CanCompute reports whether an automatic schedule can be built.
func (t Terms) CanCompute() bool {
	return t.MonthlyAmount.IsPositive() && t.RegimeAmount.IsPositive() && t.MaxMonths > 0
}

// ManualEntry is one raw row typed in manual mode.
type ManualEntry struct {
	Month  string `json:"month"`
	Amount string `json:"amount"`
}

// =============================================================================
// AUTOMATIC MODE
// =============================================================================

// Automatic steps the payment by the fixed increment until the regime
// amount or the month cap is reached. Inputs that cannot produce a
// schedule return an empty slice.
func Automatic(t Terms) []EscalationRow {
	rows := []EscalationRow{}
	if !t.CanCompute() {
		return rows
	}

	months := min(t.MaxMonths, MaxEscalationMonths)
	current := t.MonthlyAmount
	rows = append(rows, EscalationRow{Month: 1, Amount: current})

	for i := 1; i <= months; i++ {
		next := current.Add(t.FixedIncrement)
		if next.GreaterThanOrEqual(t.RegimeAmount) {
			rows = append(rows, EscalationRow{Month: i + 1, Amount: t.RegimeAmount})
			break
		}
		rows = append(rows, EscalationRow{Month: i + 1, Amount: next.Round(2)})
		current = next
	}
	return rows
}

// =============================================================================
// MANUAL MODE
// =============================================================================

// Manual converts typed rows into schedule rows. Order and duplicates are
// preserved; rows with a blank or unparseable month or amount are dropped.
func Manual(entries []ManualEntry) []EscalationRow {
	rows := []EscalationRow{}
	for _, e := range entries {
		monthText := strings.TrimSpace(e.Month)
		amountText := strings.TrimSpace(e.Amount)
		if monthText == "" || amountText == "" {
			continue
		}
		month, err := decimal.NewFromString(monthText)
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			continue
		}
		rows = append(rows, EscalationRow{Month: int(month.IntPart()), Amount: amount})
	}
	return rows
}

// =============================================================================
// DISPATCH
// =============================================================================

// ComputeSchedule builds the schedule for the selected mode. Manual entries
// are ignored in automatic mode and terms are ignored in manual mode.
func ComputeSchedule(mode EscalationMode, terms Terms, entries []ManualEntry) (Schedule, error) {
	switch mode {
	case ModeAutomatic:
		rows := Automatic(terms)
		return Schedule{Mode: mode, Rows: rows, Insufficient: len(rows) == 0}, nil
	case ModeManual:
		return Schedule{Mode: mode, Rows: Manual(entries)}, nil
	default:
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnknownEscalationMode, mode)
	}
}
