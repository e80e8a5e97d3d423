/*
Package contract provides the lease-contract tracking core.

PURPOSE:
  This package holds the contract data model and every derived view the
  dashboard renders from it: the month-by-month escalation schedule, the
  alert semaphore, and the filtered/sorted listing. All derivations are
  pure functions of a store snapshot and the current time.

KEY CONCEPTS IN THIS FILE (types.go):
  - Contract: A commercial-lease contract as persisted
  - FileRef:  Reference to an uploaded file (name, size, locator)
  - Form:     Raw operator input, coerced into a Contract on save

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal, never float64
  2. Coercion:  Invalid numeric input becomes 0 (or the default), never an error
  3. Derivation: EndDate is always recomputed, never taken from input

USAGE:
  c := contract.FromForm(contract.Form{
      SignatureDate:  "2025-03-01",
      DurationMonths: "24",
      MonthlyAmount:  "1500",
  }, time.Now())

SEE ALSO:
  - escalation.go: Payment schedule calculation
  - semaphore.go: Urgency classification
  - view.go: Filter, sort and summary projections
  - store.go: In-memory collection backed by a Persistence
*/
package contract

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDurationMonths is used when the duration input is missing or invalid.
const DefaultDurationMonths = 12

// =============================================================================
// CONTRACT - The persisted entity
// =============================================================================

// Contract is a commercial-lease contract. JSON field names match the stored
// document format so exported files and persisted lists share one shape.
type Contract struct {
	ID             string   `json:"id"`
	ContractName   string   `json:"contractName"`
	SignatureDate  Date     `json:"signatureDate"`
	DurationMonths int      `json:"durationMonths"`
	AvisoDate      Date     `json:"avisoDate"`
	EndDate        Date     `json:"endDate"`
	File           *FileRef `json:"file"`

	MonthlyAmount            decimal.Decimal `json:"monthlyAmount"`
	EscalationFixedIncrement decimal.Decimal `json:"escalationFixedIncrement"`
	EscalationMaxMonths      int             `json:"escalationMaxMonths"`
	RegimeAmount             decimal.Decimal `json:"regimeAmount"`

	CreatedAt time.Time `json:"createdAt"`
}

// FileRef points at a stored reference file. No binary content is kept here.
type FileRef struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// HasFile reports whether a reference file is attached.
func (c Contract) HasFile() bool { return c.File != nil }

// FileName returns the attached file's name, or "".
func (c Contract) FileName() string {
	if c.File == nil {
		return ""
	}
	return c.File.Name
}

// DisplayName is the contract name, falling back to a short id tag.
func (c Contract) DisplayName() string {
	if strings.TrimSpace(c.ContractName) != "" {
		return c.ContractName
	}
	id := c.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "Contrato #" + id
}

// Terms returns the automatic-mode escalation inputs of the contract.
func (c Contract) Terms() Terms {
	return Terms{
		MonthlyAmount:  c.MonthlyAmount,
		FixedIncrement: c.EscalationFixedIncrement,
		MaxMonths:      c.EscalationMaxMonths,
		RegimeAmount:   c.RegimeAmount,
	}
}

// Normalize recomputes EndDate and clamps numeric fields into range.
// Every contract passes through here before it reaches the store.
func (c Contract) Normalize() Contract {
	if c.DurationMonths < 1 {
		c.DurationMonths = DefaultDurationMonths
	}
	if c.EscalationMaxMonths < 0 {
		c.EscalationMaxMonths = 0
	}
	if c.EscalationMaxMonths > MaxEscalationMonths {
		c.EscalationMaxMonths = MaxEscalationMonths
	}
	c.MonthlyAmount = nonNegative(c.MonthlyAmount)
	c.EscalationFixedIncrement = nonNegative(c.EscalationFixedIncrement)
	c.RegimeAmount = nonNegative(c.RegimeAmount)
	c.EndDate = EndDateFor(c.SignatureDate, c.DurationMonths)
	return c
}

// =============================================================================
// FORM - Raw input from the operator
// =============================================================================

// Form is a full-form save as typed by the operator. Every field is raw text
// so coercion rules live in one place.
type Form struct {
	ID                       string
	ContractName             string
	SignatureDate            string
	DurationMonths           string
	AvisoDate                string
	MonthlyAmount            string
	EscalationFixedIncrement string
	EscalationMaxMonths      string
	RegimeAmount             string
	File                     *FileRef
}

// FromForm coerces a form into a normalized contract. A blank id gets a new
// UUID. CreatedAt is set to now; the store keeps the original timestamp when
// the save replaces an existing contract.
func FromForm(f Form, now time.Time) Contract {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		id = uuid.NewString()
	}

	c := Contract{
		ID:                       id,
		ContractName:             strings.TrimSpace(f.ContractName),
		SignatureDate:            ParseDateOrZero(f.SignatureDate),
		DurationMonths:           ParseCount(f.DurationMonths),
		AvisoDate:                ParseDateOrZero(f.AvisoDate),
		MonthlyAmount:            ParseAmount(f.MonthlyAmount),
		EscalationFixedIncrement: ParseAmount(f.EscalationFixedIncrement),
		EscalationMaxMonths:      ParseCount(f.EscalationMaxMonths),
		RegimeAmount:             ParseAmount(f.RegimeAmount),
		File:                     f.File,
		CreatedAt:                now.UTC(),
	}
	return c.Normalize()
}

// =============================================================================
// COERCION HELPERS
// =============================================================================

// ParseAmount parses a non-negative decimal. Blank, invalid or negative
// input yields zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return nonNegative(d)
}

// ParseCount parses a non-negative integer, truncating any fraction. Blank,
// invalid, negative or out-of-range input yields zero.
func ParseCount(s string) int {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return 0
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxCount) {
		return 0
	}
	return int(d.IntPart())
}

var maxCount = decimal.NewFromInt(math.MaxInt)

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
