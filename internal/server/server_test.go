package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adaptived/cadence/internal/learning"
	"github.com/adaptived/cadence/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine, err := learning.New(learning.DefaultConfig(), db)
	if err != nil {
		t.Fatalf("learning.New: %v", err)
	}
	return New(engine, db, "test-version")
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
	}
	return w, decoded
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	w, body := doJSON(t, srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}

func TestLogInteractionValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing type", `{"response":"rejected"}`},
		{"missing response", `{"suggestion_type":"gap_fill"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/interactions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

const rejectedGapFill = `{
	"suggestion_type": "gap_fill",
	"suggestion": "fill the gap with email triage",
	"response": "rejected",
	"context": {"time_of_day": "afternoon", "current_load": "moderate"}
}`

func TestLearningFlowOverHTTP(t *testing.T) {
	srv := testServer(t)

	// Three similar overrides open a hypothesis.
	for i := 0; i < 3; i++ {
		w, _ := doJSON(t, srv, "POST", "/api/interactions", rejectedGapFill)
		if w.Code != http.StatusCreated {
			t.Fatalf("log interaction: status = %d, want %d", w.Code, http.StatusCreated)
		}
	}

	_, body := doJSON(t, srv, "GET", "/api/hypotheses", "")
	if body["count"].(float64) != 1 {
		t.Fatalf("hypotheses count = %v, want 1", body["count"])
	}
	hyp := body["hypotheses"].([]any)[0].(map[string]any)
	hypID := hyp["id"].(string)

	// Two accepted tests confirm it.
	accepted := `{
		"suggestion_type": "gap_fill",
		"suggestion": "leave the gap open",
		"response": "accepted",
		"context": {"time_of_day": "afternoon", "current_load": "moderate"},
		"hypothesis_id": "` + hypID + `"
	}`
	for i := 0; i < 2; i++ {
		doJSON(t, srv, "POST", "/api/interactions", accepted)
	}

	_, body = doJSON(t, srv, "GET", "/api/patterns", "")
	if body["count"].(float64) != 1 {
		t.Fatalf("patterns count = %v, want 1", body["count"])
	}
	pat := body["patterns"].([]any)[0].(map[string]any)
	patID := pat["id"].(string)
	if pat["confidence"].(float64) != 0.7 {
		t.Errorf("confidence = %v, want 0.7", pat["confidence"])
	}

	_, body = doJSON(t, srv, "GET", "/api/learnings", "")
	if body["count"].(float64) != 1 {
		t.Errorf("learnings count = %v, want 1", body["count"])
	}

	// The decision query returns the action for a matching context.
	_, body = doJSON(t, srv, "POST", "/api/patterns/apply",
		`{"context": {"time_of_day": "afternoon", "current_load": "moderate"}}`)
	if body["count"].(float64) != 1 {
		t.Fatalf("actions count = %v, want 1", body["count"])
	}

	// And an empty list for a non-matching one.
	_, body = doJSON(t, srv, "POST", "/api/patterns/apply",
		`{"context": {"time_of_day": "morning", "current_load": "moderate"}}`)
	if body["count"].(float64) != 0 {
		t.Errorf("non-matching actions count = %v, want 0", body["count"])
	}

	// Confirmation enqueued a learned notification; dismiss it.
	_, body = doJSON(t, srv, "GET", "/api/notifications", "")
	if body["count"].(float64) != 1 {
		t.Fatalf("notifications count = %v, want 1", body["count"])
	}
	note := body["notifications"].([]any)[0].(map[string]any)
	if note["type"] != "learned" {
		t.Errorf("notification type = %v, want learned", note["type"])
	}
	doJSON(t, srv, "POST", "/api/notifications/"+note["id"].(string)+"/dismiss", "")
	_, body = doJSON(t, srv, "GET", "/api/notifications", "")
	if body["count"].(float64) != 0 {
		t.Errorf("notifications after dismiss = %v, want 0", body["count"])
	}

	// Removing the pattern forgets it.
	w, _ := doJSON(t, srv, "DELETE", "/api/patterns/"+patID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove pattern: status = %d", w.Code)
	}
	_, body = doJSON(t, srv, "GET", "/api/patterns", "")
	if body["count"].(float64) != 0 {
		t.Errorf("patterns after removal = %v, want 0", body["count"])
	}
}

func TestRecentInteractionsLimit(t *testing.T) {
	srv := testServer(t)

	for i := 0; i < 5; i++ {
		doJSON(t, srv, "POST", "/api/interactions", rejectedGapFill)
	}

	_, body := doJSON(t, srv, "GET", "/api/interactions?limit=2", "")
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestRemoveUnknownPatternIsNoOp(t *testing.T) {
	srv := testServer(t)

	w, _ := doJSON(t, srv, "DELETE", "/api/patterns/nope", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	w, _ = doJSON(t, srv, "POST", "/api/notifications/nope/dismiss", "")
	if w.Code != http.StatusOK {
		t.Errorf("dismiss status = %d, want %d", w.Code, http.StatusOK)
	}
}
