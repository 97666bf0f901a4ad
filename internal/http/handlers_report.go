package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"riveros/internal/core"
	"riveros/internal/report"
)

func reportFilterFromQuery(r *http.Request) report.Filter {
	q := r.URL.Query()
	return report.Filter{
		DateFrom: strings.TrimSpace(q.Get("from")),
		DateTo:   strings.TrimSpace(q.Get("to")),
		FuelType: strings.TrimSpace(q.Get("fuelType")),
		Vessel:   strings.TrimSpace(q.Get("vessel")),
	}
}

func reportCacheKey(vessel string, f report.Filter) string {
	return vessel + "|" + f.DateFrom + "|" + f.DateTo + "|" + f.FuelType + "|" + f.Vessel
}

// invalidateReportCaches drops every cached report for a vessel.
func (s *Server) invalidateReportCaches(vessel string) {
	s.seriesCache.DeletePrefix(vessel + "|")
	s.pivotCache.DeletePrefix(vessel + "|")
}

func (s *Server) seriesFor(r *http.Request, identity core.Identity, f report.Filter) ([]report.SeriesPoint, error) {
	key := reportCacheKey(identity.Vessel, f)
	if points, ok := s.seriesCache.Get(key); ok {
		return points, nil
	}

	records, err := s.recordsWithFallback(r, identity)
	if err != nil {
		return nil, err
	}

	points := report.TimeSeries(records, f)
	s.seriesCache.Set(key, points)
	return points, nil
}

func (s *Server) pivotFor(r *http.Request, identity core.Identity, f report.Filter) (report.PivotTable, error) {
	key := reportCacheKey(identity.Vessel, f)
	if table, ok := s.pivotCache.Get(key); ok {
		return table, nil
	}

	records, err := s.recordsWithFallback(r, identity)
	if err != nil {
		return report.PivotTable{}, err
	}

	table := report.Pivot(records, f)
	s.pivotCache.Set(key, table)
	return table, nil
}

func (s *Server) handleBarReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := identityFromContext(r.Context())
	filter := reportFilterFromQuery(r)

	points, err := s.seriesFor(r, identity, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleFinalReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := identityFromContext(r.Context())
	filter := reportFilterFromQuery(r)

	table, err := s.pivotFor(r, identity, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleBarReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := identityFromContext(r.Context())
	filter := reportFilterFromQuery(r)

	points, err := s.seriesFor(r, identity, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := time.Now()
	switch exportFormat(r) {
	case "xlsx":
		data, err := report.BarReportXLSX(points, filter, identity.Vessel, now)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sendAttachment(w, data, exportFileName("bar-report", "xlsx", now),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case "pdf":
		data, err := report.BarReportPDF(points, filter, identity.Vessel, now)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sendAttachment(w, data, exportFileName("bar-report", "pdf", now), "application/pdf")
	default:
		writeJSONError(w, http.StatusBadRequest, "format must be pdf or xlsx")
	}
}

func (s *Server) handleFinalReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := identityFromContext(r.Context())
	filter := reportFilterFromQuery(r)

	table, err := s.pivotFor(r, identity, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := time.Now()
	switch exportFormat(r) {
	case "xlsx":
		data, err := report.FinalReportXLSX(table, filter, identity.Vessel, now)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sendAttachment(w, data, exportFileName("final-report", "xlsx", now),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case "pdf":
		data, err := report.FinalReportPDF(table, filter, identity.Vessel, now)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sendAttachment(w, data, exportFileName("final-report", "pdf", now), "application/pdf")
	default:
		writeJSONError(w, http.StatusBadRequest, "format must be pdf or xlsx")
	}
}

func exportFormat(r *http.Request) string {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "pdf"
	}
	return format
}

func exportFileName(base, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, now.Format("2006-01-02"), ext)
}

func sendAttachment(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
