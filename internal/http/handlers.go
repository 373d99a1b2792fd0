package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"kpitrack/internal/core"
	"kpitrack/internal/kpi"
)

// HeaderUserID carries the caller's identity. Auth proper sits in front
// of this service; the header is trusted as-is.
const HeaderUserID = "X-User-ID"

type kpiResponse struct {
	Data                core.KpiData               `json:"data"`
	WeeklyActivityTrend []core.WeeklyActivityPoint `json:"weeklyActivityTrend,omitempty"`
	PipelineTrend       []core.PipelinePoint       `json:"pipelineTrend,omitempty"`
}

type updateValueRequest struct {
	TimeFrame string  `json:"timeFrame"`
	Category  string  `json:"category"`
	Value     float64 `json:"value"`
}

type updateTargetRequest struct {
	TimeFrame string  `json:"timeFrame"`
	Category  string  `json:"category"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

type resetRequest struct {
	TimeFrame string `json:"timeFrame"`
}

type historyRequest struct {
	Date    string             `json:"date"`
	Metrics map[string]float64 `json:"metrics"`
}

func (s *Server) handleKpi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, kpiResponse{
		Data:                sess.Data(),
		WeeklyActivityTrend: sess.WeeklyActivityTrend(),
		PipelineTrend:       sess.PipelineTrend(),
	})
}

func (s *Server) handleUpdateValue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req updateValueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tf, err := core.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown time frame %q", req.TimeFrame))
		return
	}

	if err := sess.UpdateValue(r.Context(), tf, core.Category(req.Category), req.Value); err != nil {
		s.writeOperationError(w, r, "update value", err)
		return
	}

	s.structured.LogGoalUpdated(r.Context(), sess.UserID(), req.TimeFrame, req.Category, req.Value)

	writeJSON(w, http.StatusOK, kpiResponse{Data: sess.Data()})
}

func (s *Server) handleUpdateTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req updateTargetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tf, err := core.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown time frame %q", req.TimeFrame))
		return
	}

	if err := sess.UpdateTarget(r.Context(), tf, core.Category(req.Category), req.Min, req.Max); err != nil {
		s.writeOperationError(w, r, "update target", err)
		return
	}

	writeJSON(w, http.StatusOK, kpiResponse{Data: sess.Data()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req resetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tf, err := core.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown time frame %q", req.TimeFrame))
		return
	}

	if err := sess.ResetValues(r.Context(), tf); err != nil {
		s.writeOperationError(w, r, "reset values", err)
		return
	}

	writeJSON(w, http.StatusOK, kpiResponse{Data: sess.Data()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req historyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		writeError(w, http.StatusUnprocessableEntity, "date is required")
		return
	}

	sess.AddHistoryEntry(req.Date, req.Metrics)

	writeJSON(w, http.StatusOK, kpiResponse{Data: sess.Data()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kpi.ExportFilename))
	if err := sess.Export(w); err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err, "user_id", sess.UserID())
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := sess.Import(r.Context(), r.Body); err != nil {
		if errors.Is(err, kpi.ErrInvalidImport) {
			writeError(w, http.StatusBadRequest, "invalid import document")
			return
		}
		s.writeOperationError(w, r, "import", err)
		return
	}

	writeJSON(w, http.StatusOK, kpiResponse{Data: sess.Data()})
}

// session resolves the caller's KPI session from the identity header.
// It writes the error response itself, so callers just bail on !ok.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*kpi.Session, bool) {
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+HeaderUserID+" header")
		return nil, false
	}

	sess, err := s.manager.Session(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Session load failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to load KPI data")
		return nil, false
	}
	return sess, true
}

func (s *Server) writeOperationError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, core.ErrUnknownCategory) || errors.Is(err, core.ErrUnknownTimeFrame) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "Operation failed", "operation", op, "error", err)
	writeError(w, http.StatusInternalServerError, op+" failed")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
