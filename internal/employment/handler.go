package employment

// HTTP handlers for the alignment service.
//
// All /employment routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	PUT  /employment/position            → update position, reclassify, persist
//	POST /employment/position/check      → same classification, nothing persisted
//	POST /employment/alignment/confirm   → answer the pending question
//	GET  /employment/alignment/pending   → the caller's pending suggestion, if any
//	GET  /references/autocomplete?q=&limit=
//	GET  /alignment/breakdown            → counts per program and status

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"jobmate/alignment-service/internal/alignment"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler exposes a Service over HTTP.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts all alignment-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/employment/position", h.handlePosition)
	mux.HandleFunc("/employment/position/check", h.handleCheck)
	mux.HandleFunc("/employment/alignment/confirm", h.handleConfirm)
	mux.HandleFunc("/employment/alignment/pending", h.handlePending)
	mux.HandleFunc("/references/autocomplete", h.handleAutocomplete)
	mux.HandleFunc("/alignment/breakdown", h.handleBreakdown)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

// handlePosition handles PUT /employment/position
func (h *Handler) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body PositionInput
	if !decodeBody(w, r, &body) {
		return
	}

	st, err := h.svc.UpdatePosition(r.Context(), userID, body)
	if err != nil {
		h.serviceError(w, "updatePosition", err)
		return
	}
	jsonOK(w, st)
}

// handleCheck handles POST /employment/position/check
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body PositionInput
	if !decodeBody(w, r, &body) {
		return
	}

	st, err := h.svc.CheckPosition(r.Context(), userID, body)
	if err != nil {
		h.serviceError(w, "checkPosition", err)
		return
	}
	jsonOK(w, st)
}

// handleConfirm handles POST /employment/alignment/confirm
func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Confirmed *bool `json:"confirmed"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Confirmed == nil {
		jsonError(w, "body must contain confirmed", http.StatusBadRequest)
		return
	}

	st, err := h.svc.ConfirmAlignment(r.Context(), userID, *body.Confirmed)
	if err != nil {
		h.serviceError(w, "confirmAlignment", err)
		return
	}
	jsonOK(w, st)
}

// handlePending handles GET /employment/alignment/pending
func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	pending, err := h.svc.PendingSuggestions(r.Context(), userID)
	if err != nil {
		h.serviceError(w, "pendingSuggestions", err)
		return
	}
	jsonOK(w, pending)
}

// handleAutocomplete handles GET /references/autocomplete?q=&limit=
func (h *Handler) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			jsonError(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	titles, err := h.svc.Autocomplete(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.serviceError(w, "autocomplete", err)
		return
	}
	jsonOK(w, titles)
}

// handleBreakdown handles GET /alignment/breakdown
func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, err := h.svc.Breakdown(r.Context())
	if err != nil {
		h.serviceError(w, "breakdown", err)
		return
	}
	jsonOK(w, rows)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// serviceError maps domain errors to HTTP status codes.
func (h *Handler) serviceError(w http.ResponseWriter, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, verr.Msg, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrRateLimited):
		jsonError(w, err.Error(), http.StatusTooManyRequests)
	case alignment.IsRetryable(err):
		h.logger.Warn("reference store unavailable", "op", op, "err", err)
		w.Header().Set("Retry-After", "1")
		jsonError(w, "reference store unavailable, retry later", http.StatusServiceUnavailable)
	default:
		h.logger.Error("request failed", "op", op, "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
