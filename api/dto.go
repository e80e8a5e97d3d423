/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Contract fields use
  the same camelCase names as the stored/exported contract document, so a
  client can post back exactly what it read or downloaded.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Contracts:
    SaveContractRequest, ContractRowDTO, ContractListDTO

  Dashboard:
    DashboardDTO

  Escalation:
    EscalationRequest, ManualRowRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

LENIENT NUMBERS:
  Form fields arrive as whatever the client typed: a JSON number, a string
  (possibly blank) or null. FormValue accepts all three and keeps the raw
  text; coercion to numbers happens in contract.FromForm.

SEE ALSO:
  - handlers.go: Uses these types
  - contract/types.go: Contract and Form
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/lease-tracker/contract"
)

// =============================================================================
// LENIENT FORM VALUE
// =============================================================================

// FormValue is a form field that may be sent as a number, a string or null.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*v = FormValue(data)
	default:
		return fmt.Errorf("expected number, string or null, got %s", data)
	}
	return nil
}

func (v FormValue) String() string { return string(v) }

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SaveContractRequest is a full-form save.
type SaveContractRequest struct {
	ID                       string            `json:"id"`
	ContractName             string            `json:"contractName"`
	SignatureDate            FormValue         `json:"signatureDate"`
	DurationMonths           FormValue         `json:"durationMonths"`
	AvisoDate                FormValue         `json:"avisoDate"`
	MonthlyAmount            FormValue         `json:"monthlyAmount"`
	EscalationFixedIncrement FormValue         `json:"escalationFixedIncrement"`
	EscalationMaxMonths      FormValue         `json:"escalationMaxMonths"`
	RegimeAmount             FormValue         `json:"regimeAmount"`
	File                     *contract.FileRef `json:"file"`
}

// ToForm converts the request into the core's raw form.
func (r SaveContractRequest) ToForm() contract.Form {
	return contract.Form{
		ID:                       r.ID,
		ContractName:             r.ContractName,
		SignatureDate:            r.SignatureDate.String(),
		DurationMonths:           r.DurationMonths.String(),
		AvisoDate:                r.AvisoDate.String(),
		MonthlyAmount:            r.MonthlyAmount.String(),
		EscalationFixedIncrement: r.EscalationFixedIncrement.String(),
		EscalationMaxMonths:      r.EscalationMaxMonths.String(),
		RegimeAmount:             r.RegimeAmount.String(),
		File:                     r.File,
	}
}

// ContractRowDTO is a contract with its derived display fields.
type ContractRowDTO struct {
	contract.Contract
	DisplayName    string `json:"displayName"`
	Semaphore      string `json:"semaphore"`
	Color          string `json:"color"`
	DaysUntilAviso *int   `json:"daysUntilAviso"`
}

// ContractListDTO is the table view.
type ContractListDTO struct {
	Contracts []ContractRowDTO `json:"contracts"`
	Query     string           `json:"query"`
	Sort      string           `json:"sort"`
	Dir       string           `json:"dir"`
	ToggleDir string           `json:"toggleDir"` // dir to request when the active column is selected again
}

// DashboardDTO is the alert panel plus summary.
type DashboardDTO struct {
	Alerts  []ContractRowDTO `json:"alerts"`
	Summary contract.Summary `json:"summary"`
	AsOf    string           `json:"asOf"`
}

// ManualRowRequest is one manual escalation row.
type ManualRowRequest struct {
	Month  FormValue `json:"month"`
	Amount FormValue `json:"amount"`
}

// EscalationRequest asks for a schedule preview.
type EscalationRequest struct {
	Mode                     string             `json:"mode"`
	MonthlyAmount            FormValue          `json:"monthlyAmount"`
	EscalationFixedIncrement FormValue          `json:"escalationFixedIncrement"`
	EscalationMaxMonths      FormValue          `json:"escalationMaxMonths"`
	RegimeAmount             FormValue          `json:"regimeAmount"`
	Rows                     []ManualRowRequest `json:"rows"`
}

// Terms returns the automatic-mode inputs, coerced.
func (r EscalationRequest) Terms() contract.Terms {
	return contract.Terms{
		MonthlyAmount:  contract.ParseAmount(r.MonthlyAmount.String()),
		FixedIncrement: contract.ParseAmount(r.EscalationFixedIncrement.String()),
		MaxMonths:      contract.ParseCount(r.EscalationMaxMonths.String()),
		RegimeAmount:   contract.ParseAmount(r.RegimeAmount.String()),
	}
}

// Entries returns the manual rows in the order given.
func (r EscalationRequest) Entries() []contract.ManualEntry {
	entries := make([]contract.ManualEntry, len(r.Rows))
	for i, row := range r.Rows {
		entries[i] = contract.ManualEntry{Month: row.Month.String(), Amount: row.Amount.String()}
	}
	return entries
}

// ScenarioDTO represents a demo dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo dataset.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toContractRowDTO(c contract.Contract, now time.Time) ContractRowDTO {
	level := contract.Classify(c, now)
	row := ContractRowDTO{
		Contract:    c,
		DisplayName: c.DisplayName(),
		Semaphore:   string(level),
		Color:       level.Color(),
	}
	if days := contract.DaysUntil(c.AvisoDate, now); days != contract.Infinite {
		row.DaysUntilAviso = &days
	}
	return row
}

func toContractRowDTOs(cs []contract.Contract, now time.Time) []ContractRowDTO {
	dtos := make([]ContractRowDTO, len(cs))
	for i, c := range cs {
		dtos[i] = toContractRowDTO(c, now)
	}
	return dtos
}
