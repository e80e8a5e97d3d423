package contract_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/warp/lease-tracker/contract"
)

func TestFromForm_CoercesNumbers(t *testing.T) {
	c := contract.FromForm(contract.Form{
		ID:                       "abc",
		DurationMonths:           "",
		MonthlyAmount:            "not a number",
		EscalationFixedIncrement: "-5",
		EscalationMaxMonths:      "6.9",
		RegimeAmount:             " 2400.50 ",
	}, now)

	assert.Equal(t, contract.DefaultDurationMonths, c.DurationMonths)
	assert.True(t, c.MonthlyAmount.IsZero())
	assert.True(t, c.EscalationFixedIncrement.IsZero())
	assert.Equal(t, 6, c.EscalationMaxMonths)
	assert.True(t, dec("2400.5").Equal(c.RegimeAmount))
}

func TestFromForm_DurationDefaults(t *testing.T) {
	for _, in := range []string{"", "0", "-3", "abc", "0.5"} {
		c := contract.FromForm(contract.Form{DurationMonths: in}, now)
		assert.Equal(t, 12, c.DurationMonths, "duration %q", in)
	}
	assert.Equal(t, 36, contract.FromForm(contract.Form{DurationMonths: "36"}, now).DurationMonths)
}

func TestFromForm_DerivesEndDate(t *testing.T) {
	c := contract.FromForm(contract.Form{SignatureDate: "2025-06-15", DurationMonths: "24"}, now)

	assert.Equal(t, "2025-06-15", c.SignatureDate.String())
	assert.Equal(t, "2027-06-15", c.EndDate.String())
}

func TestFromForm_InvalidDatesAreAbsent(t *testing.T) {
	c := contract.FromForm(contract.Form{SignatureDate: "15/06/2025", AvisoDate: "soon"}, now)

	assert.True(t, c.SignatureDate.IsZero())
	assert.True(t, c.AvisoDate.IsZero())
	assert.True(t, c.EndDate.IsZero())
}

func TestFromForm_AssignsIDAndCreatedAt(t *testing.T) {
	c := contract.FromForm(contract.Form{}, now)

	_, err := uuid.Parse(c.ID)
	assert.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(now))

	kept := contract.FromForm(contract.Form{ID: " 1718000000000 "}, now)
	assert.Equal(t, "1718000000000", kept.ID)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Local 4", contract.Contract{ID: "x", ContractName: "Local 4"}.DisplayName())
	assert.Equal(t, "Contrato #000123", contract.Contract{ID: "1718000000123"}.DisplayName())
	assert.Equal(t, "Contrato #abc", contract.Contract{ID: "abc"}.DisplayName())
}

func TestNormalize_ClampsNegatives(t *testing.T) {
	c := contract.Contract{
		DurationMonths:      -1,
		EscalationMaxMonths: -4,
		MonthlyAmount:       dec("-10"),
		SignatureDate:       contract.NewDate(2025, time.January, 1),
	}.Normalize()

	assert.Equal(t, 12, c.DurationMonths)
	assert.Equal(t, 0, c.EscalationMaxMonths)
	assert.True(t, c.MonthlyAmount.IsZero())
	assert.Equal(t, "2026-01-01", c.EndDate.String())
}

func TestParseCount_OutOfRangeIsZero(t *testing.T) {
	// GIVEN: Counts too large for an int
	// WHEN: Parsed
	// THEN: They are treated as invalid, never wrapped to a negative value

	assert.Equal(t, 0, contract.ParseCount("18446744073709551615"))
	assert.Equal(t, 0, contract.ParseCount("9223372036854775808"))
	assert.Equal(t, 0, contract.ParseCount("1e40"))
	assert.Equal(t, 42, contract.ParseCount("42.99"))
}

func TestNormalize_CapsEscalationMonths(t *testing.T) {
	c := contract.Contract{EscalationMaxMonths: 5_000_000}.Normalize()

	assert.Equal(t, contract.MaxEscalationMonths, c.EscalationMaxMonths)
}
