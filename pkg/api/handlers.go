package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/errors"
	"github.com/matzehuels/reftree/pkg/forest"
)

type registerRequest struct {
	ID       string `json:"id"`
	Referrer string `json:"referrer"`
}

type linkRequest struct {
	Referrer string `json:"referrer"`
}

type simulateRequest struct {
	P    float64 `json:"p"`
	Days int     `json:"days"`
}

type daysRequest struct {
	P      float64 `json:"p"`
	Target int     `json:"target"`
}

type bonusRequest struct {
	Days   int `json:"days"`
	Target int `json:"target"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if err := errors.ValidateUserID(req.ID, true); err != nil {
		writeError(w, err)
		return
	}
	if req.Referrer != "" {
		if err := errors.ValidateUserID(req.Referrer, false); err != nil {
			writeError(w, err)
			return
		}
	}

	s.mu.Lock()
	id, err := s.forest.RegisterUser(req.ID, req.Referrer)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, forest.UserDetails{ID: id, ReferrerID: req.Referrer})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	d, err := s.forest.UserDetails(chi.URLParam(r, "id"))
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleReferrals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	refs, err := s.forest.DirectReferrals(id)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	if refs == nil {
		refs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "referrals": refs})
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.forest.LinkUserToReferrer(req.Referrer, id)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forest.UserDetails{ID: id, ReferrerID: req.Referrer})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.forest.DeleteUser(chi.URLParam(r, "id"))
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReach(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	n, err := s.analyzer.TotalReferralCount(id)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "reach": n})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	k := DefaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "k must be an integer: %q", raw))
			return
		}
		k = min(v, s.limits.MaxTopK)
	}

	s.mu.RLock()
	top, err := s.analyzer.TopReferrersByReach(k)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeRanking(w, top)
}

func (s *Server) handleExpansion(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	res := s.analyzer.UniqueReachExpansion()
	s.mu.RUnlock()
	writeRanking(w, res)
}

func (s *Server) handleCentrality(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	res := s.analyzer.FlowCentrality()
	s.mu.RUnlock()
	writeRanking(w, res)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.checkDays(w, req.Days) {
		return
	}
	totals, err := s.sim.Simulate(req.P, req.Days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"p": req.P, "days": req.Days, "cumulative": totals})
}

func (s *Server) handleDaysToTarget(w http.ResponseWriter, r *http.Request) {
	var req daysRequest
	if !decode(w, r, &req) {
		return
	}
	days, ok, err := s.sim.DaysToTarget(req.P, req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{"p": req.P, "target": req.Target, "reachable": ok, "days": nil}
	if ok {
		resp["days"] = days
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBonus(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.checkDays(w, req.Days) {
		return
	}
	b, ok, err := s.optimizer.MinBonusForTarget(req.Days, req.Target, s.adopt, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{"days": req.Days, "target": req.Target, "feasible": ok, "bonus": nil}
	if ok {
		resp["bonus"] = b
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkDays rejects horizons above the configured limit before any
// per-day buffers are allocated.
func (s *Server) checkDays(w http.ResponseWriter, days int) bool {
	if days > s.limits.MaxDays {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "days must be at most %d, got %d", s.limits.MaxDays, days))
		return false
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeRanking(w http.ResponseWriter, res []analytics.UserWithScore) {
	if res == nil {
		res = []analytics.UserWithScore{}
	}
	writeJSON(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, err error) {
	e := errors.Classify(err)
	msg := e.Message
	if e.Code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, errors.HTTPStatus(e.Code), errorResponse{Code: e.Code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
