package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"riveros/internal/core"
)

func contextWithIdentity(ctx context.Context, identity core.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func identityFromContext(ctx context.Context) core.Identity {
	if identity, ok := ctx.Value(identityKey).(core.Identity); ok {
		return identity
	}
	return core.Identity{}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyVessel),
		errors.Is(err, core.ErrEmptyTanks),
		errors.Is(err, core.ErrEmptyFuelType),
		errors.Is(err, core.ErrEmptyRecordID):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, core.ErrBackendRejected):
		slog.WarnContext(r.Context(), "Backend rejected request", "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, "the backend rejected the request")
	case errors.Is(err, core.ErrBackendUnavailable):
		slog.ErrorContext(r.Context(), "Backend unavailable", "error", err)
		writeJSONError(w, http.StatusBadGateway, "the backend is unavailable")
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
