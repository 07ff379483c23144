package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adaptived/cadence/internal/learning"
)

// PutPattern upserts one pattern row. Trigger conditions and the action are
// stored as JSON.
func (db *DB) PutPattern(p *learning.Pattern) error {
	conditions, err := json.Marshal(p.Trigger.Conditions)
	if err != nil {
		return fmt.Errorf("encode conditions: %w", err)
	}
	action, err := json.Marshal(p.Action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}

	var lastApplied any
	if p.LastApplied != nil {
		lastApplied = p.LastApplied.UnixMilli()
	}
	decayWarning := 0
	if p.DecayWarningIssued {
		decayWarning = 1
	}

	_, err = db.Exec(`
		INSERT INTO patterns (id, description, trigger_type, suggestion_type, conditions,
			action, confidence, confirmed_at, hypothesis_id, application_count,
			overrides_since_confirm, last_applied, decay_warning_issued)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			confidence = excluded.confidence,
			application_count = excluded.application_count,
			overrides_since_confirm = excluded.overrides_since_confirm,
			last_applied = excluded.last_applied,
			decay_warning_issued = excluded.decay_warning_issued
	`, p.ID, p.Description, string(p.Trigger.Type), string(p.Trigger.SuggestionType),
		string(conditions), string(action), p.Confidence, p.ConfirmedAt.UnixMilli(),
		p.HypothesisID, p.ApplicationCount, p.OverridesSinceConfirm, lastApplied,
		decayWarning)
	if err != nil {
		return fmt.Errorf("put pattern: %w", err)
	}
	return nil
}

// DeletePattern removes a pattern row.
func (db *DB) DeletePattern(id string) error {
	if _, err := db.Exec("DELETE FROM patterns WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}
	return nil
}

// ListPatterns returns all patterns, oldest confirmation first.
func (db *DB) ListPatterns() ([]learning.Pattern, error) {
	rows, err := db.Query(`
		SELECT id, description, trigger_type, suggestion_type, conditions, action,
			confidence, confirmed_at, hypothesis_id, application_count,
			overrides_since_confirm, last_applied, decay_warning_issued
		FROM patterns ORDER BY confirmed_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var out []learning.Pattern
	for rows.Next() {
		var p learning.Pattern
		var conditions, action string
		var confirmedAt int64
		var lastApplied sql.NullInt64
		var decayWarning int
		if err := rows.Scan(&p.ID, &p.Description, &p.Trigger.Type, &p.Trigger.SuggestionType,
			&conditions, &action, &p.Confidence, &confirmedAt, &p.HypothesisID,
			&p.ApplicationCount, &p.OverridesSinceConfirm, &lastApplied, &decayWarning); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		p.ConfirmedAt = time.UnixMilli(confirmedAt)
		if lastApplied.Valid {
			ts := time.UnixMilli(lastApplied.Int64)
			p.LastApplied = &ts
		}
		p.DecayWarningIssued = decayWarning != 0
		if err := json.Unmarshal([]byte(conditions), &p.Trigger.Conditions); err != nil {
			return nil, fmt.Errorf("decode conditions for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(action), &p.Action); err != nil {
			return nil, fmt.Errorf("decode action for %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
