package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"riveros/internal/auth"
	"riveros/internal/core"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Vessel     string `json:"vessel"`
	VesselAbbr string `json:"vesselAbbr"`
	Admin      bool   `json:"admin"`
}

type tankEntryPayload struct {
	SubRowID       string `json:"subRowId,omitempty"`
	TankName       string `json:"tankName"`
	FuelType       string `json:"fuelType"`
	MaxCapacity    string `json:"maxCapacity"`
	LastRob        string `json:"lastRob"`
	ActualVolume   string `json:"actualVolume"`
	BunkeredVolume string `json:"bunkeredVolume,omitempty"`
	ReportVolume   string `json:"reportVolume"`
}

type recordPayload struct {
	Date         string             `json:"date"`
	Time         string             `json:"time"`
	Vessel       string             `json:"vessel"`
	FuelType     string             `json:"fuelType,omitempty"`
	EditRecordID string             `json:"editRecordId,omitempty"`
	Tanks        []tankEntryPayload `json:"tanks"`
}

func (p recordPayload) toDraft() core.RecordDraft {
	draft := core.RecordDraft{
		Date:     p.Date,
		Time:     p.Time,
		Vessel:   p.Vessel,
		FuelType: p.FuelType,
	}
	for _, t := range p.Tanks {
		draft.Tanks = append(draft.Tanks, core.TankEntry{
			SubRowID:       t.SubRowID,
			TankName:       t.TankName,
			FuelType:       t.FuelType,
			MaxCapacity:    t.MaxCapacity,
			LastRob:        t.LastRob,
			ActualVolume:   t.ActualVolume,
			BunkeredVolume: t.BunkeredVolume,
			ReportVolume:   t.ReportVolume,
		})
	}
	return draft
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, err := s.authSvc.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.tokens.Sign(identity)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to sign session token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(auth.TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Email:      identity.Email,
		Name:       identity.Name,
		Vessel:     identity.Vessel,
		VesselAbbr: identity.VesselAbbr,
		Admin:      identity.IsAdmin(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// withIdentity resolves the session cookie into an identity and stores it
// in the request context. Requests without a valid session get 401.
func (s *Server) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		identity, err := s.tokens.Verify(cookie.Value)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		ctx := contextWithIdentity(r.Context(), identity)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := identityFromContext(r.Context())
	records, err := s.recordsWithFallback(r, identity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// recordsWithFallback reads the live record set, falling back to the local
// snapshot when the backend is unreachable.
func (s *Server) recordsWithFallback(r *http.Request, identity core.Identity) ([]core.FlgoRecord, error) {
	records, err := s.registry.For(identity.Vessel).Records(r.Context())
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, core.ErrBackendUnavailable) || s.snapshot == nil || identity.Vessel == "" {
		return nil, err
	}

	stored, snapErr := s.snapshot.LoadRecords(r.Context(), identity.Vessel)
	if snapErr != nil || len(stored) == 0 {
		return nil, err
	}

	slog.WarnContext(r.Context(), "Serving records from local snapshot",
		"vessel", identity.Vessel,
		"count", len(stored))
	return stored, nil
}

func (s *Server) handleTanks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := identityFromContext(r.Context())
	vessel := strings.TrimSpace(r.URL.Query().Get("vessel"))
	if vessel == "" {
		vessel = identity.Vessel
	}
	if vessel == "" {
		writeJSONError(w, http.StatusBadRequest, "vessel is required")
		return
	}

	tanks, err := s.registry.For(identity.Vessel).Tanks(r.Context(), vessel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tanks)
}

func (s *Server) handleMeasurement(w http.ResponseWriter, r *http.Request) {
	s.handleRecordWrite(w, r, core.EntryMeasurement)
}

func (s *Server) handleBunkering(w http.ResponseWriter, r *http.Request) {
	s.handleRecordWrite(w, r, core.EntryBunkering)
}

func (s *Server) handleRecordWrite(w http.ResponseWriter, r *http.Request, entryType string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := identityFromContext(r.Context())
	draft := payload.toDraft()
	svc := s.registry.For(identity.Vessel)

	var err error
	switch {
	case payload.EditRecordID != "":
		err = svc.SubmitUpdate(r.Context(), identity, payload.EditRecordID, entryType, draft)
	case entryType == core.EntryBunkering:
		err = svc.SubmitBunkering(r.Context(), identity, draft)
	default:
		err = svc.SubmitMeasurement(r.Context(), identity, draft)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Any write can shift the aggregates.
	s.invalidateReportCaches(identity.Vessel)

	w.WriteHeader(http.StatusCreated)
}
