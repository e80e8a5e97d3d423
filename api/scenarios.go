/*
scenarios.go - Demo datasets for testing and demonstrations

PURPOSE:
  Provides pre-built contract collections that exercise the dashboard:
  every semaphore level, escalation schedules, attached files. Dates are
  computed relative to the handler's clock so a dataset always shows the
  same alert mix no matter when it is loaded.

AVAILABLE SCENARIOS:
  mixed-alerts:   One contract per semaphore level plus one without dates
  escalating:     Contracts with automatic escalation terms
  empty:          Clears the collection

HOW SCENARIOS WORK:
  1. Build contract forms relative to today
  2. Coerce them through contract.FromForm (same path as a user save)
  3. Replace the whole collection with Store.Reset

USAGE VIA API:
  POST /api/scenarios/load
  {"scenarioId": "mixed-alerts"}

NOTE:
  Loading a scenario replaces every stored contract. Saving or deleting a
  contract afterwards clears the current scenario.

SEE ALSO:
  - handlers.go: Handler
  - contract/store.go: Reset
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/warp/lease-tracker/contract"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "mixed-alerts",
		Name:        "Mixed Alerts",
		Description: "One contract at each alert level, plus one with no dates",
	},
	{
		ID:          "escalating",
		Name:        "Escalating Rent",
		Description: "Contracts whose rent steps up toward a regime amount",
	},
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "No contracts",
	},
}

// scenarioLoaders build each dataset as of now.
var scenarioLoaders = map[string]func(now time.Time) []contract.Form{
	"mixed-alerts": mixedAlertsScenario,
	"escalating":   escalatingScenario,
	"empty":        func(time.Time) []contract.Form { return nil },
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.scenario()
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the collection with a predefined dataset.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	n, err := h.loadScenario(r, req.ScenarioID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "loaded",
		"scenario":  req.ScenarioID,
		"contracts": n,
	})
}

func (h *Handler) loadScenario(r *http.Request, id string) (int, error) {
	build, ok := scenarioLoaders[id]
	if !ok {
		return 0, fmt.Errorf("scenario %q", id)
	}

	now := h.Now()
	forms := build(now)
	contracts := make([]contract.Contract, len(forms))
	for i, f := range forms {
		contracts[i] = contract.FromForm(f, now)
	}

	h.Contracts.Reset(r.Context(), contracts)
	h.setScenario(id)
	h.Logger.Info("scenario loaded",
		zap.String("scenario", id),
		zap.Int("contracts", len(contracts)))
	return len(contracts), nil
}

func (h *Handler) scenario() string {
	h.scenarioMu.RLock()
	defer h.scenarioMu.RUnlock()
	return h.currentScenario
}

func (h *Handler) setScenario(id string) {
	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()
	h.currentScenario = id
}

// clearScenario forgets the loaded dataset once the collection is edited.
func (h *Handler) clearScenario() { h.setScenario("") }

// =============================================================================
// SCENARIO DATASETS
// =============================================================================

// daysFrom returns the date n days after now as form text.
func daysFrom(now time.Time, days int) string {
	return contract.DateOf(now).AddDays(days).String()
}

func mixedAlertsScenario(now time.Time) []contract.Form {
	return []contract.Form{
		{
			ID:             "demo-critical",
			ContractName:   "Local Centro",
			SignatureDate:  daysFrom(now, -360),
			DurationMonths: "12",
			AvisoDate:      daysFrom(now, 3),
			MonthlyAmount:  "1850",
			File: &contract.FileRef{
				Name: "local-centro.pdf",
				Size: 482133,
				URL:  "https://example.com/local-centro.pdf",
			},
		},
		{
			ID:             "demo-warning",
			ContractName:   "Oficina Norte",
			SignatureDate:  daysFrom(now, -700),
			DurationMonths: "24",
			AvisoDate:      daysFrom(now, 20),
			MonthlyAmount:  "2400.50",
		},
		{
			ID:             "demo-caution",
			ContractName:   "Bodega Sur",
			SignatureDate:  daysFrom(now, -300),
			DurationMonths: "12",
			AvisoDate:      daysFrom(now, 60),
			MonthlyAmount:  "980",
		},
		{
			ID:             "demo-ok",
			ContractName:   "Depto Playa",
			SignatureDate:  daysFrom(now, -30),
			DurationMonths: "36",
			AvisoDate:      daysFrom(now, 400),
			MonthlyAmount:  "1200",
		},
		{
			ID:            "demo-undated",
			ContractName:  "Estacionamiento",
			MonthlyAmount: "150",
		},
	}
}

func escalatingScenario(now time.Time) []contract.Form {
	return []contract.Form{
		{
			ID:                       "demo-step-up",
			ContractName:             "Local Avenida",
			SignatureDate:            daysFrom(now, -45),
			DurationMonths:           "24",
			AvisoDate:                daysFrom(now, 45),
			MonthlyAmount:            "100",
			EscalationFixedIncrement: "50",
			EscalationMaxMonths:      "5",
			RegimeAmount:             "220",
		},
		{
			ID:                       "demo-slow-ramp",
			ContractName:             "Galpon Industrial",
			SignatureDate:            daysFrom(now, -10),
			DurationMonths:           "60",
			AvisoDate:                daysFrom(now, 10),
			MonthlyAmount:            "3000",
			EscalationFixedIncrement: "125.75",
			EscalationMaxMonths:      "12",
			RegimeAmount:             "4500",
		},
		{
			ID:             "demo-flat",
			ContractName:   "Kiosko",
			SignatureDate:  daysFrom(now, -200),
			DurationMonths: "12",
			AvisoDate:      daysFrom(now, 120),
			MonthlyAmount:  "400",
		},
	}
}
