package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adaptived/cadence/internal/learning"
	"github.com/go-chi/chi/v5"
)

// interactionRequest is the POST /api/interactions body.
type interactionRequest struct {
	SuggestionType string           `json:"suggestion_type"`
	Suggestion     string           `json:"suggestion"`
	Response       string           `json:"response"`
	Context        learning.Context `json:"context"`
	TargetID       string           `json:"target_id,omitempty"`
	Correction     string           `json:"correction,omitempty"`
	HypothesisID   string           `json:"hypothesis_id,omitempty"`
}

func (s *Server) handleLogInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.SuggestionType == "" {
		http.Error(w, `{"error":"suggestion_type required"}`, http.StatusBadRequest)
		return
	}
	if req.Response == "" {
		http.Error(w, `{"error":"response required"}`, http.StatusBadRequest)
		return
	}

	in := s.engine.LogInteraction(
		learning.SuggestionType(req.SuggestionType),
		req.Suggestion,
		learning.Response(req.Response),
		req.Context,
		learning.LogOptions{
			TargetID:     req.TargetID,
			Correction:   req.Correction,
			HypothesisID: req.HypothesisID,
		},
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": in.ID, "status": "logged"})
}

func (s *Server) handleRecentInteractions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	interactions := s.engine.RecentInteractions(limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":        len(interactions),
		"interactions": interactions,
	})
}

func (s *Server) handleApplyPatterns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Context learning.Context `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	actions := s.engine.ApplyPatterns(req.Context)
	if actions == nil {
		actions = []learning.Action{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(actions),
		"actions": actions,
	})
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	patterns := s.engine.ConfirmedPatterns()
	if patterns == nil {
		patterns = []learning.Pattern{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":    len(patterns),
		"patterns": patterns,
	})
}

func (s *Server) handleHypotheses(w http.ResponseWriter, r *http.Request) {
	var hypotheses []learning.Hypothesis
	if r.URL.Query().Get("all") == "true" {
		hypotheses = s.engine.AllHypotheses()
	} else {
		hypotheses = s.engine.ActiveHypotheses()
	}
	if hypotheses == nil {
		hypotheses = []learning.Hypothesis{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":      len(hypotheses),
		"hypotheses": hypotheses,
	})
}

func (s *Server) handleLearnings(w http.ResponseWriter, r *http.Request) {
	learnings := s.engine.Learnings()
	if learnings == nil {
		learnings = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":     len(learnings),
		"learnings": learnings,
	})
}

func (s *Server) handleRemovePattern(w http.ResponseWriter, r *http.Request) {
	// Removing an unknown id is a no-op, so the UI never needs an existence
	// check first.
	s.engine.RemovePattern(chi.URLParam(r, "patternID"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "removed"})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := s.engine.PendingNotifications()
	if notifications == nil {
		notifications = []learning.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	s.engine.DismissNotification(chi.URLParam(r, "notificationID"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "dismissed"})
}
