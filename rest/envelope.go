package rest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-approvals/core"
	goerrors "github.com/goliatone/go-errors"
)

type callbackResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *core.OutcomeRecord `json:"data,omitempty"`
}

type resultResponse struct {
	Success bool                `json:"success"`
	Data    *core.OutcomeRecord `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// stateEntry flattens the store key into the record object, matching
// the shape the automation dashboards already parse.
type stateEntry struct {
	Key string `json:"key"`
	core.OutcomeRecord
}

type statesResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	States  []stateEntry `json:"states"`
}

type healthResponse struct {
	Status       string  `json:"status"`
	Timestamp    string  `json:"timestamp"`
	Uptime       float64 `json:"uptime"`
	StoredStates int     `json:"storedStates"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a service error onto the wire contract: bad input
// echoes its own message, a missing result reads "Callback result not
// found", and everything else collapses to a generic 500 with the
// detail relegated to the message field.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := ""

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if richErr.Code > 0 {
			status = richErr.Code
		} else {
			status = statusForCategory(richErr.Category)
		}
		message = richErr.Message
	} else if err != nil {
		message = err.Error()
	}

	switch status {
	case http.StatusBadRequest:
		writeJSON(w, status, errorResponse{Success: false, Error: message})
	case http.StatusNotFound:
		writeJSON(w, status, errorResponse{Success: false, Error: "Callback result not found"})
	default:
		writeJSON(w, status, errorResponse{
			Success: false,
			Error:   "Internal server error",
			Message: message,
		})
	}
}

func statusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func healthBody(status core.HealthStatus) healthResponse {
	healthy := strings.TrimSpace(status.Status)
	if healthy == "" {
		healthy = "healthy"
	}
	return healthResponse{
		Status:       healthy,
		Timestamp:    status.Timestamp.UTC().Format(time.RFC3339),
		Uptime:       status.Uptime.Seconds(),
		StoredStates: status.StoredStates,
	}
}

func statesBody(states []core.StoredState) statesResponse {
	entries := make([]stateEntry, 0, len(states))
	for _, state := range states {
		entries = append(entries, stateEntry{Key: state.Key, OutcomeRecord: state.Record})
	}
	return statesResponse{Success: true, Count: len(entries), States: entries}
}
