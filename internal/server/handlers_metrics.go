package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/ats-resume/internal/types"
)

// handleMetricsUser handles POST /metrics/user, counting a client id once per year.
func (s *Server) handleMetricsUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeInputError(w, err)
		return
	}
	raw, err := types.UnwrapJSONBody(body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "clientId required")
		return
	}

	var req types.MetricsUserRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "clientId required")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorDetailsResponse(w, http.StatusBadRequest, "clientId required", err.Error())
		return
	}

	counted, err := s.metrics.MarkClientSeen(r.Context(), req.ClientID)
	if err != nil {
		log.Printf("[metrics] mark client failed: %v", err)
		s.errorDetailsResponse(w, http.StatusInternalServerError, "metrics-user failed", err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.MetricsUserResponse{OK: true, Counted: counted})
}

// handleMetricsTotals handles GET /metrics.
func (s *Server) handleMetricsTotals(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}

	totals, err := s.metrics.Totals(r.Context())
	if err != nil {
		log.Printf("[metrics] totals failed: %v", err)
		s.errorDetailsResponse(w, http.StatusInternalServerError, "metrics failed", err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.MetricsTotalsResponse{
		UsersTotal: totals.UsersTotal,
		PDFsTotal:  totals.PDFsTotal,
	})
}
