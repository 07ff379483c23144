package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adaptived/cadence/internal/learning"
)

// PutHypothesis upserts one hypothesis row. Source interaction ids and
// context matchers are stored as JSON.
func (db *DB) PutHypothesis(h *learning.Hypothesis) error {
	sourceIDs, err := json.Marshal(h.SourceInteractionIDs)
	if err != nil {
		return fmt.Errorf("encode source ids: %w", err)
	}
	matchers, err := json.Marshal(h.Trigger.Match)
	if err != nil {
		return fmt.Errorf("encode matchers: %w", err)
	}

	var resolvedAt any
	if h.ResolvedAt != nil {
		resolvedAt = h.ResolvedAt.UnixMilli()
	}

	_, err = db.Exec(`
		INSERT INTO hypotheses (id, created_at, source_ids, observation, hypothesis,
			test_approach, suggestion_type, matchers, tests_run, confirmations,
			rejections, confidence_required, status, resolved_at, pattern_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tests_run = excluded.tests_run,
			confirmations = excluded.confirmations,
			rejections = excluded.rejections,
			status = excluded.status,
			resolved_at = excluded.resolved_at,
			pattern_id = excluded.pattern_id
	`, h.ID, h.CreatedAt.UnixMilli(), string(sourceIDs), h.Observation, h.Hypothesis,
		h.TestApproach, string(h.Trigger.SuggestionType), string(matchers),
		h.TestsRun, h.Confirmations, h.Rejections, h.ConfidenceRequired,
		string(h.Status), resolvedAt, h.PatternID)
	if err != nil {
		return fmt.Errorf("put hypothesis: %w", err)
	}
	return nil
}

// ListHypotheses returns all hypotheses, oldest first.
func (db *DB) ListHypotheses() ([]learning.Hypothesis, error) {
	rows, err := db.Query(`
		SELECT id, created_at, source_ids, observation, hypothesis, test_approach,
			suggestion_type, matchers, tests_run, confirmations, rejections,
			confidence_required, status, resolved_at, pattern_id
		FROM hypotheses ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list hypotheses: %w", err)
	}
	defer rows.Close()

	var out []learning.Hypothesis
	for rows.Next() {
		var h learning.Hypothesis
		var createdAt int64
		var sourceIDs, matchers string
		var resolvedAt sql.NullInt64
		if err := rows.Scan(&h.ID, &createdAt, &sourceIDs, &h.Observation, &h.Hypothesis,
			&h.TestApproach, &h.Trigger.SuggestionType, &matchers, &h.TestsRun,
			&h.Confirmations, &h.Rejections, &h.ConfidenceRequired, &h.Status,
			&resolvedAt, &h.PatternID); err != nil {
			return nil, fmt.Errorf("scan hypothesis: %w", err)
		}
		h.CreatedAt = time.UnixMilli(createdAt)
		if resolvedAt.Valid {
			ts := time.UnixMilli(resolvedAt.Int64)
			h.ResolvedAt = &ts
		}
		if err := json.Unmarshal([]byte(sourceIDs), &h.SourceInteractionIDs); err != nil {
			return nil, fmt.Errorf("decode source ids for %s: %w", h.ID, err)
		}
		if err := json.Unmarshal([]byte(matchers), &h.Trigger.Match); err != nil {
			return nil, fmt.Errorf("decode matchers for %s: %w", h.ID, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
