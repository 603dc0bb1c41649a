package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/thisdougb/vitals/internal/config"
	"github.com/thisdougb/vitals/internal/core"
	"github.com/thisdougb/vitals/internal/storage"
)

// Error codes produced at the HTTP boundary, alongside the validation codes
// in the core package
const (
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx API response. Field is null
// when the error is not about one input.
type ErrorResponse struct {
	Error string  `json:"error"`
	Field *string `json:"field"`
	Code  string  `json:"code"`
}

// LogVitalHandler accepts one reading. Returns 201 with the stored record
// and a Location header for it.
func LogVitalHandler(svc *core.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		// a JSON null leaves sub nil, which Validate rejects as INVALID_REQUEST
		var sub *core.VitalSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			config.LogDebug(r.Context(), fmt.Sprintf("undecodable vital submission: %v", err))
			writeError(w, http.StatusBadRequest, "", core.CodeInvalidRequest, "Invalid request body.")
			return
		}

		stored, err := svc.LogVital(r.Context(), sub)
		if err != nil {
			var verr *core.ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Field, verr.Code, verr.Message)
				return
			}
			internalError(w, r, "failed to store vital", err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/api/vitals/%d", stored.ID))
		writeJSON(w, http.StatusCreated, stored)
	}
}

// HistoryHandler serves one page of readings, newest first
func HistoryHandler(svc *core.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := svc.Settings()
		query := r.URL.Query()

		page := 1
		if v := query.Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "page", core.CodeInvalidRange,
					"Page must be a positive integer.")
				return
			}
			page = n
		}

		pageSize := settings.DefaultPageSize
		if v := query.Get("page_size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > settings.MaxPageSize {
				writeError(w, http.StatusBadRequest, "pageSize", core.CodeInvalidRange,
					fmt.Sprintf("Page size must be between 1 and %d.", settings.MaxPageSize))
				return
			}
			pageSize = n
		}

		result, err := svc.History(r.Context(), page, pageSize)
		if err != nil {
			internalError(w, r, "failed to read history", err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// AnalyticsHandler serves rolling window statistics
func AnalyticsHandler(svc *core.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Analytics(r.Context())
		if err != nil {
			internalError(w, r, "failed to compute analytics", err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// GetVitalHandler serves one reading by id, the target of the Location
// header returned on create
func GetVitalHandler(svc *core.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, "id", CodeNotFound, "Vital not found.")
			return
		}

		vital, err := svc.GetVital(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "id", CodeNotFound, "Vital not found.")
			return
		}
		if err != nil {
			internalError(w, r, "failed to read vital", err)
			return
		}

		writeJSON(w, http.StatusOK, vital)
	}
}

// StatusHandler returns a simple UP status for liveness probes
func StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "UP\n")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, field, code, msg string) {
	resp := ErrorResponse{Error: msg, Code: code}
	if field != "" {
		resp.Field = &field
	}
	writeJSON(w, status, resp)
}

// internalError logs the cause and answers 500 without exposing it
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	config.LogError(r.Context(), fmt.Sprintf("%s: %v", msg, err))
	writeError(w, http.StatusInternalServerError, "", CodeInternalError, "An internal error occurred.")
}
