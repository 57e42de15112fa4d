package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/pkg/ctxutil"
)

type errorResponse struct {
	Error     string       `json:"error"`
	Fields    []fieldError `json:"fields,omitempty"`
	Line      int          `json:"line,omitempty"`
	Available []string     `json:"available,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func toFieldErrors(errs []domain.FieldError) []fieldError {
	out := make([]fieldError, len(errs))
	for i, e := range errs {
		out[i] = fieldError{Field: e.Field, Message: e.Message}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		ve     *domain.ValidationError
		pe     *domain.ParseError
		up     *domain.UnknownPluginError
		tooBig *http.MaxBytesError
	)

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: toFieldErrors(ve.Errors)})
	case errors.As(err, &up):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: up.Error(), Available: up.Known})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "parse failed: " + pe.Reason, Line: pe.Line})
	case errors.As(err, &tooBig):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "upload too large"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
			slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
