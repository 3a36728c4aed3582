package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/michael-berardi/harborform/internal/relay"
)

const maxFormBody = 64 << 10

// LeadHandler serves the JSON endpoints behind the public contact forms.
type LeadHandler struct {
	Relay *relay.Relay
}

func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := decodeLead(w, r)
	if !ok {
		return
	}
	h.respond(w, h.Relay.SubmitLead(r.Context(), lead))
}

func (h *LeadHandler) BookAudit(w http.ResponseWriter, r *http.Request) {
	lead, ok := decodeLead(w, r)
	if !ok {
		return
	}
	h.respond(w, h.Relay.BookAudit(r.Context(), lead))
}

func (h *LeadHandler) respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, relay.ErrMissingFields):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	default:
		slog.Error("Failed to process submission", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process submission"})
	}
}

// decodeLead answers 400 itself when the body is not a JSON object.
func decodeLead(w http.ResponseWriter, r *http.Request) (models.Lead, bool) {
	var lead models.Lead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		slog.Debug("Rejected malformed submission", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return lead, false
	}
	return lead, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
