package controllers

import (
	"errors"
	"net/http"
	"statekeeper/internal/events"
	"statekeeper/internal/services"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownProduct),
		errors.Is(err, services.ErrUnknownStage),
		errors.Is(err, events.ErrUnknownEvent):
		return http.StatusNotFound
	case errors.Is(err, services.ErrLimitReached),
		errors.Is(err, services.ErrStageUnavailableToday):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing query parameter " + name})
		return "", false
	}
	return v, true
}
