package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/pkg/validate"
)

// Envelope is the uniform response wrapper. The transport always answers
// HTTP 200; success and failure ride on the status flag, matching the
// frontend contract.
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, Envelope{Status: true, Message: message, Data: data})
}

// respondErr sends the error's message when it is user-facing, and a generic
// line otherwise. Internal details go to the log, never to the client.
func respondErr(w http.ResponseWriter, err error) {
	if domain.IsUserFacing(err) {
		writeJSON(w, Envelope{Status: false, Message: err.Error()})
		return
	}
	slog.Error("request failed", "err", err)
	writeJSON(w, Envelope{Status: false, Message: "An error occurred"})
}

// decode parses the JSON body into v and validates it. Any shape or
// validation problem collapses to the one missing-fields message.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.E(domain.ErrBadRequest, "Missing required fields")
	}
	if err := validate.Struct(v); err != nil {
		return domain.E(domain.ErrBadRequest, "Missing required fields")
	}
	return nil
}
