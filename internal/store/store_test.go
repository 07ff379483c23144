package store

import (
	"testing"
	"time"

	"github.com/adaptived/cadence/internal/learning"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("schema version = %d, want %d", v, len(migrations))
	}
}

func TestInteractionRoundTrip(t *testing.T) {
	db := testDB(t)

	dip := learning.EnergyPostFocusDip
	in := &learning.Interaction{
		ID:             "in-1",
		CreatedAt:      time.UnixMilli(1700000000000),
		SuggestionType: learning.GapFill,
		Suggestion:     "fill the 3pm gap with email triage",
		Response:       learning.Rejected,
		Correction:     "leave it open",
		Context: learning.Context{
			TimeOfDay:   learning.Afternoon,
			DayType:     learning.Weekday,
			CurrentLoad: learning.LoadHeavy,
			Energy:      &dip,
		},
	}
	if err := db.PutInteraction(in); err != nil {
		t.Fatalf("PutInteraction: %v", err)
	}

	list, err := db.ListInteractions()
	if err != nil {
		t.Fatalf("ListInteractions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("interactions = %d, want 1", len(list))
	}
	got := list[0]
	if got.Suggestion != in.Suggestion || got.Response != learning.Rejected {
		t.Errorf("got %+v", got)
	}
	if got.Context.Energy == nil || *got.Context.Energy != dip {
		t.Errorf("context energy = %v, want post_focus_dip", got.Context.Energy)
	}
	if !got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, in.CreatedAt)
	}

	if err := db.DeleteInteraction("in-1"); err != nil {
		t.Fatalf("DeleteInteraction: %v", err)
	}
	list, _ = db.ListInteractions()
	if len(list) != 0 {
		t.Errorf("interactions after delete = %d, want 0", len(list))
	}
}

func TestHypothesisUpsert(t *testing.T) {
	db := testDB(t)

	tod := learning.Afternoon
	h := &learning.Hypothesis{
		ID:                   "hyp-1",
		CreatedAt:            time.UnixMilli(1700000000000),
		SourceInteractionIDs: []string{"in-1", "in-2", "in-3"},
		Observation:          "You often decline gap-fill suggestions in the afternoon.",
		Hypothesis:           "Free gaps in the afternoon should be left open rather than filled.",
		TestApproach:         "Offer a lighter alternative and see whether it lands better.",
		Trigger: learning.TriggerCondition{
			SuggestionType: learning.GapFill,
			Match:          learning.ContextMatch{TimeOfDay: &tod},
		},
		ConfidenceRequired: 2,
		Status:             learning.StatusTesting,
	}
	if err := db.PutHypothesis(h); err != nil {
		t.Fatalf("PutHypothesis: %v", err)
	}

	// Counter updates ride the same upsert path.
	now := time.UnixMilli(1700000100000)
	h.TestsRun = 2
	h.Confirmations = 2
	h.Status = learning.StatusConfirmed
	h.ResolvedAt = &now
	h.PatternID = "pat-1"
	if err := db.PutHypothesis(h); err != nil {
		t.Fatalf("PutHypothesis update: %v", err)
	}

	list, err := db.ListHypotheses()
	if err != nil {
		t.Fatalf("ListHypotheses: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("hypotheses = %d, want 1", len(list))
	}
	got := list[0]
	if got.Status != learning.StatusConfirmed || got.Confirmations != 2 {
		t.Errorf("got %+v", got)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(now) {
		t.Errorf("resolved at = %v, want %v", got.ResolvedAt, now)
	}
	if got.Trigger.Match.TimeOfDay == nil || *got.Trigger.Match.TimeOfDay != learning.Afternoon {
		t.Errorf("matchers = %+v", got.Trigger.Match)
	}
	if len(got.SourceInteractionIDs) != 3 {
		t.Errorf("source ids = %v", got.SourceInteractionIDs)
	}
}

func TestPatternRoundTrip(t *testing.T) {
	db := testDB(t)

	tod := learning.Afternoon
	p := &learning.Pattern{
		ID:          "pat-1",
		Description: "Free gaps in the afternoon should be left open.",
		Trigger: learning.PatternTrigger{
			Type:           learning.TriggerGapDetected,
			SuggestionType: learning.GapFill,
			Conditions:     learning.ContextMatch{TimeOfDay: &tod},
		},
		Action:       learning.Action{Type: learning.SuggestAlternative, Suggestion: "recovery_break"},
		Confidence:   0.7,
		ConfirmedAt:  time.UnixMilli(1700000000000),
		HypothesisID: "hyp-1",
	}
	if err := db.PutPattern(p); err != nil {
		t.Fatalf("PutPattern: %v", err)
	}

	applied := time.UnixMilli(1700000200000)
	p.Confidence = 0.75
	p.ApplicationCount = 1
	p.LastApplied = &applied
	p.DecayWarningIssued = true
	if err := db.PutPattern(p); err != nil {
		t.Fatalf("PutPattern update: %v", err)
	}

	list, err := db.ListPatterns()
	if err != nil {
		t.Fatalf("ListPatterns: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("patterns = %d, want 1", len(list))
	}
	got := list[0]
	if got.Confidence != 0.75 || got.ApplicationCount != 1 || !got.DecayWarningIssued {
		t.Errorf("got %+v", got)
	}
	if got.Action.Suggestion != "recovery_break" {
		t.Errorf("action = %+v", got.Action)
	}
	if got.LastApplied == nil || !got.LastApplied.Equal(applied) {
		t.Errorf("last applied = %v, want %v", got.LastApplied, applied)
	}

	if err := db.DeletePattern("pat-1"); err != nil {
		t.Fatalf("DeletePattern: %v", err)
	}
	list, _ = db.ListPatterns()
	if len(list) != 0 {
		t.Errorf("patterns after delete = %d, want 0", len(list))
	}
}

func TestNotificationDismissal(t *testing.T) {
	db := testDB(t)

	n := &learning.Notification{
		ID:        "note-1",
		Type:      learning.NotifyLearned,
		Message:   "Learned: afternoon gaps stay open.",
		CreatedAt: time.UnixMilli(1700000000000),
	}
	if err := db.PutNotification(n); err != nil {
		t.Fatalf("PutNotification: %v", err)
	}

	n.Dismissed = true
	if err := db.PutNotification(n); err != nil {
		t.Fatalf("PutNotification update: %v", err)
	}

	list, err := db.ListNotifications()
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(list) != 1 || !list[0].Dismissed {
		t.Errorf("got %+v", list)
	}
}

// TestEngineRehydration drives the engine through a full learning cycle
// against sqlite, then rebuilds a second engine from the same database and
// checks the learned state survived.
func TestEngineRehydration(t *testing.T) {
	db := testDB(t)

	e, err := learning.New(learning.DefaultConfig(), db)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := learning.Context{TimeOfDay: learning.Afternoon, CurrentLoad: learning.LoadModerate}
	for i := 0; i < 3; i++ {
		e.LogInteraction(learning.GapFill, "fill the gap", learning.Rejected, ctx, learning.LogOptions{})
	}
	h := e.ActiveHypotheses()[0]
	for i := 0; i < 2; i++ {
		e.LogInteraction(learning.GapFill, "leave it open", learning.Accepted, ctx, learning.LogOptions{HypothesisID: h.ID})
	}
	if err := e.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	restarted, err := learning.New(learning.DefaultConfig(), db)
	if err != nil {
		t.Fatalf("New after restart: %v", err)
	}

	if n := len(restarted.RecentInteractions(10)); n != 5 {
		t.Errorf("interactions = %d, want 5", n)
	}
	pats := restarted.ConfirmedPatterns()
	if len(pats) != 1 {
		t.Fatalf("patterns = %d, want 1", len(pats))
	}
	if pats[0].Confidence != 0.7 {
		t.Errorf("confidence = %f, want 0.7", pats[0].Confidence)
	}
	if n := len(restarted.ActiveHypotheses()); n != 0 {
		t.Errorf("active hypotheses = %d, want 0", n)
	}
	if got := restarted.AllHypotheses()[0]; got.Status != learning.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if n := len(restarted.PendingNotifications()); n != 1 {
		t.Errorf("pending notifications = %d, want 1", n)
	}

	// The rehydrated engine keeps applying the learned pattern.
	actions := restarted.ApplyPatterns(ctx)
	if len(actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(actions))
	}
}
