/*
handlers.go - HTTP API handlers for the lease contract tracker

PURPOSE:
  Exposes the contract store, the escalation engine and the semaphore
  classifier via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the contract package.

ENDPOINTS:
  Contracts:
    GET    /api/contracts                  Filtered, sorted table (?q=&sort=&dir=)
    POST   /api/contracts                  Save a contract form (new or existing id)
    GET    /api/contracts/{id}             Get one contract
    PUT    /api/contracts/{id}             Save a contract form under {id}
    DELETE /api/contracts/{id}             Remove (no-op when absent)
    GET    /api/contracts/{id}/export      Download as contract-{id}.json
    GET    /api/contracts/{id}/escalation  Automatic schedule for a stored contract

  Escalation:
    POST   /api/escalation                 Preview a schedule (auto or manual)

  Dashboard:
    GET    /api/dashboard                  Semaphore-ordered alerts + summary

  Upload:
    POST   /api/upload                     Hand a file to the configured uploader

  Scenarios:
    GET    /api/scenarios                  List demo datasets
    POST   /api/scenarios/load             Replace the collection with a dataset

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Contracts: The in-memory store (persisted through its Persistence)
  - Uploader:  File upload boundary
  - Now:       Clock used for classification, injectable for tests

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid body, unknown sort key, direction or escalation mode
  - 404: Contract not found
  - 405: Upload called with a method other than POST
  - 413: Upload body over MaxUploadBytes
  - 500: Internal errors (upload failure, export encoding)

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo datasets
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/lease-tracker/contract"
	"github.com/warp/lease-tracker/upload"
)

const (
	// maxUploadMemory bounds the multipart form kept in memory.
	maxUploadMemory = 32 << 20

	// DefaultMaxUploadBytes bounds the whole upload request body.
	DefaultMaxUploadBytes = 64 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Contracts *contract.Store
	Uploader  upload.Uploader
	Logger    *zap.Logger

	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time

	// MaxUploadBytes bounds an upload request body.
	MaxUploadBytes int64

	// Demo dataset currently loaded; cleared by any user edit.
	scenarioMu      sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler.
func NewHandler(contracts *contract.Store, uploader upload.Uploader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Contracts:      contracts,
		Uploader:       uploader,
		Logger:         logger,
		Now:            time.Now,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns the filtered, sorted contract table.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key, err := contract.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sort key", err)
		return
	}
	dir, err := contract.ParseDirection(q.Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sort direction", err)
		return
	}

	query := q.Get("q")
	rows := contract.Table(h.Contracts.All(), query, key, dir)

	writeJSON(w, http.StatusOK, ContractListDTO{
		Contracts: toContractRowDTOs(rows, h.Now()),
		Query:     query,
		Sort:      string(key),
		Dir:       string(dir),
		ToggleDir: string(dir.Toggle()),
	})
}

// GetContract returns a single contract.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contracts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toContractRowDTO(c, h.Now()))
}

// SaveContract saves a full contract form. A blank id creates a new
// contract; an existing id is replaced in place.
func (h *Handler) SaveContract(w http.ResponseWriter, r *http.Request) {
	var req SaveContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		req.ID = id
	}

	now := h.Now()
	c := contract.FromForm(req.ToForm(), now)
	saved, existed := h.Contracts.Upsert(r.Context(), c)
	h.clearScenario()

	h.Logger.Info("contract saved",
		zap.String("id", saved.ID),
		zap.Bool("replaced", existed))

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, toContractRowDTO(saved, now))
}

// DeleteContract removes a contract. Deleting an unknown id is not an error.
func (h *Handler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed := h.Contracts.Remove(r.Context(), id)
	if removed {
		h.clearScenario()
	}
	h.Logger.Info("contract delete",
		zap.String("id", id),
		zap.Bool("removed", removed))
	w.WriteHeader(http.StatusNoContent)
}

// ExportContract downloads one contract as a pretty-printed JSON document.
func (h *Handler) ExportContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contracts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	data, err := contract.Export(c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export contract", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", contract.ExportFilename(c.ID)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// ESCALATION HANDLERS
// =============================================================================

// GetContractEscalation returns the automatic schedule for a stored contract.
func (h *Handler) GetContractEscalation(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contracts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	schedule, err := contract.ComputeSchedule(contract.ModeAutomatic, c.Terms(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// PreviewEscalation computes a schedule from the posted inputs without
// touching the store.
func (h *Handler) PreviewEscalation(w http.ResponseWriter, r *http.Request) {
	var req EscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mode, err := contract.ParseEscalationMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown escalation mode", err)
		return
	}

	schedule, err := contract.ComputeSchedule(mode, req.Terms(), req.Entries())
	if err != nil {
		status := http.StatusInternalServerError
		if contract.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to compute schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// =============================================================================
// DASHBOARD
// =============================================================================

// GetDashboard returns every contract in semaphore order plus the summary.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	all := h.Contracts.All()

	writeJSON(w, http.StatusOK, DashboardDTO{
		Alerts:  toContractRowDTOs(contract.SemaphoreOrder(all, now), now),
		Summary: contract.Summarize(all),
		AsOf:    contract.DateOf(now).String(),
	})
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload hands a multipart "file" part to the uploader. The route is
// registered for every method so non-POST calls get a JSON 405.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	var file upload.File
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload form", err)
		return
	}
	if r.MultipartForm != nil {
		part, header, err := r.FormFile("file")
		if err == nil {
			defer part.Close()
			file = upload.File{Name: header.Filename, Size: header.Size, Content: part}
		}
	}

	result, err := h.Uploader.Upload(r.Context(), file)
	if err != nil {
		h.Logger.Error("upload failed", zap.String("file", file.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	h.Logger.Info("file uploaded",
		zap.String("file", file.Name),
		zap.Int64("size", file.Size),
		zap.String("url", result.URL))
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
